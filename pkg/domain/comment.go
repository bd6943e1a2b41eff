package domain

import "time"

// Comment is a discussion entry on a project. The server owns the list;
// the client replaces it wholesale after posting.
type Comment struct {
	ID     string    `json:"_id,omitempty"`
	UserID string    `json:"user,omitempty"`
	Name   string    `json:"name,omitempty"`
	Avatar string    `json:"avatar,omitempty"`
	Text   string    `json:"text"`
	Date   time.Time `json:"date"`
}

// DisplayName falls back to a generic label for comments whose author
// record has been deleted.
func (c *Comment) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return "User"
}
