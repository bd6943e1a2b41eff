package domain

import "time"

// Project statuses as assigned by the review workflow.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Submission limits enforced client-side before any network call.
const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 500
	MinLongDescLen    = 100
	MaxTags           = 5
	MaxImages         = 5
	MaxVideoBytes     = 100 << 20 // 100 MB
)

// Stats holds repository-style counters shown on the detail view.
type Stats struct {
	Stars    int `json:"stars"`
	Watchers int `json:"watchers"`
	Forks    int `json:"forks"`
}

// Like records a single user's star on a project.
type Like struct {
	User string `json:"user"`
}

// Project is a showcased project as returned by the API. The client holds
// a transient, possibly-stale copy per view; every mutation is a full
// round trip.
type Project struct {
	ID              string    `json:"_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	LongDescription string    `json:"longDescription"`
	Category        string    `json:"category"`
	ProjectType     string    `json:"projectType,omitempty"`
	Tags            []string  `json:"tags"`
	Images          []string  `json:"images"`
	DemoVideo       string    `json:"demoVideo,omitempty"`
	ProfileImage    string    `json:"profileImage,omitempty"`
	GitHubURL       string    `json:"githubUrl"`
	LiveURL         string    `json:"liveUrl,omitempty"`
	User            *User     `json:"user,omitempty"`
	Likes           []Like    `json:"likes,omitempty"`
	Stats           *Stats    `json:"stats,omitempty"`
	Comments        []Comment `json:"comments,omitempty"`
	Status          string    `json:"status,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// AuthorName returns the display name of the project owner.
func (p *Project) AuthorName() string {
	if p.User != nil && p.User.Name != "" {
		return p.User.Name
	}
	return "Unknown Author"
}

// LikedBy reports whether the given user has starred the project.
func (p *Project) LikedBy(userID string) bool {
	for _, l := range p.Likes {
		if l.User == userID {
			return true
		}
	}
	return false
}

// StarCount prefers the live like list over the cached stats counter.
func (p *Project) StarCount() int {
	if len(p.Likes) > 0 {
		return len(p.Likes)
	}
	if p.Stats != nil {
		return p.Stats.Stars
	}
	return 0
}

// Categories a project can be filed under.
var Categories = []string{
	"Web Development",
	"Mobile Development",
	"UI/UX",
	"Data Science",
	"Machine Learning",
	"Other",
}

var categorySet = func() map[string]bool {
	m := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		m[c] = true
	}
	return m
}()

// ValidCategory returns true if the given category is a known one.
func ValidCategory(c string) bool {
	return categorySet[c]
}

// Technologies is the autocomplete vocabulary for project tags.
var Technologies = []string{
	"React", "Node.js", "JavaScript", "TypeScript", "Python", "Django", "Flask",
	"Vue", "Angular", "Svelte", "Next.js", "Nuxt.js", "Gatsby", "Express",
	"MongoDB", "PostgreSQL", "MySQL", "Firebase", "AWS", "Docker", "Kubernetes",
	"GraphQL", "REST", "API", "UI/UX", "Responsive Design", "Mobile App", "Web App",
	"Machine Learning", "AI", "Blockchain", "Ethereum", "Solidity", "Web3",
	"Game Development", "AR/VR", "IoT", "Cybersecurity",
}

// AdminStats is the platform summary shown on the admin dashboard.
type AdminStats struct {
	TotalUsers      int `json:"totalUsers"`
	TotalProjects   int `json:"totalProjects"`
	PendingProjects int `json:"pendingProjects"`
}
