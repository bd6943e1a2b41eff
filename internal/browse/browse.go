// Package browse implements the project discovery logic: text search,
// tag filtering and pagination over an in-memory project collection.
package browse

import (
	"strings"

	"github.com/powerfolio/powerfolio/pkg/domain"
)

// PageSize is how many project cards fit on one page.
const PageSize = 9

// MatchesQuery reports whether the project matches a free-text query.
// The match is a case-insensitive substring test against the title, the
// short description and every tag. An empty query matches everything.
func MatchesQuery(p domain.Project, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// HasAllTags reports whether the project carries every selected tag.
// An empty selection matches everything.
func HasAllTags(p domain.Project, selected []string) bool {
	for _, want := range selected {
		found := false
		for _, tag := range p.Tags {
			if tag == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Filter applies the query and tag selection together.
func Filter(projects []domain.Project, query string, selected []string) []domain.Project {
	out := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		if MatchesQuery(p, query) && HasAllTags(p, selected) {
			out = append(out, p)
		}
	}
	return out
}

// AllTags returns every distinct tag across the collection in first-seen
// order. The universe is built from the unfiltered collection so filter
// options never disappear as they are applied.
func AllTags(projects []domain.Project) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, p := range projects {
		for _, tag := range p.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// TotalPages returns how many pages the collection spans. An empty
// collection still has one page.
func TotalPages(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// Page returns the 1-based page of the collection, clamped into range.
func Page(projects []domain.Project, page int) []domain.Project {
	page = ClampPage(page, len(projects))
	start := (page - 1) * PageSize
	end := start + PageSize
	if start >= len(projects) {
		return nil
	}
	if end > len(projects) {
		end = len(projects)
	}
	return projects[start:end]
}

// ClampPage pins a 1-based page number into the valid range for a
// collection of n items.
func ClampPage(page, n int) int {
	if page < 1 {
		return 1
	}
	if max := TotalPages(n); page > max {
		return max
	}
	return page
}
