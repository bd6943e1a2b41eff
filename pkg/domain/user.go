package domain

import (
	"net/url"
	"time"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered PowerFolio account.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// IsAdmin reports whether the user may reach the admin views.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// AvatarURL synthesizes an avatar image URL from a display name, used when
// the server supplies none.
func AvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}
