// Package form holds the project submission draft, its validation rules
// and the upload-then-create pipeline.
package form

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/powerfolio/powerfolio/pkg/domain"
)

// Media is one image or video attached to a draft. Either it already
// lives on the server (Ref set) or it is a local file awaiting upload
// (Path set), never both.
type Media struct {
	Ref  string
	Path string
}

// Uploaded reports whether the media already has a server reference.
func (m Media) Uploaded() bool {
	return m.Ref != ""
}

// Label is the short name shown in the form list.
func (m Media) Label() string {
	if m.Uploaded() {
		return m.Ref
	}
	return m.Path
}

// Draft is the in-progress project submission. A zero Draft is a valid
// empty form; EditOf seeds one from an existing project.
type Draft struct {
	// ProjectID is set when editing; empty means a new submission.
	ProjectID string

	Title           string
	Description     string
	LongDescription string
	Category        string
	GitHubURL       string
	LiveURL         string
	Tags            []string
	Images          []Media
	Video           Media
	Profile         Media
}

// EditOf seeds a draft from an existing project so the form opens
// pre-filled. Server-side media comes across as uploaded references.
func EditOf(p domain.Project) Draft {
	d := Draft{
		ProjectID:       p.ID,
		Title:           p.Title,
		Description:     p.Description,
		LongDescription: p.LongDescription,
		Category:        p.Category,
		GitHubURL:       p.GitHubURL,
		LiveURL:         p.LiveURL,
		Tags:            append([]string(nil), p.Tags...),
	}
	for _, ref := range p.Images {
		d.Images = append(d.Images, Media{Ref: ref})
	}
	if p.DemoVideo != "" {
		d.Video = Media{Ref: p.DemoVideo}
	}
	if p.ProfileImage != "" {
		d.Profile = Media{Ref: p.ProfileImage}
	}
	return d
}

// Editing reports whether the draft updates an existing project.
func (d *Draft) Editing() bool {
	return d.ProjectID != ""
}

// AddTag appends a tag. Duplicates and additions past the limit are
// silently ignored so key-repeat in the UI cannot corrupt the draft.
func (d *Draft) AddTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" || len(d.Tags) >= domain.MaxTags {
		return
	}
	for _, t := range d.Tags {
		if t == tag {
			return
		}
	}
	d.Tags = append(d.Tags, tag)
}

// RemoveTag drops a tag if present.
func (d *Draft) RemoveTag(tag string) {
	for i, t := range d.Tags {
		if t == tag {
			d.Tags = append(d.Tags[:i], d.Tags[i+1:]...)
			return
		}
	}
}

// AddImage attaches a local image file. The file must exist and the
// gallery must have room.
func (d *Draft) AddImage(path string) error {
	if len(d.Images) >= domain.MaxImages {
		return fmt.Errorf("at most %d images per project", domain.MaxImages)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("image %s: %w", path, err)
	}
	d.Images = append(d.Images, Media{Path: path})
	return nil
}

// RemoveImage drops the image at the given index.
func (d *Draft) RemoveImage(i int) {
	if i < 0 || i >= len(d.Images) {
		return
	}
	d.Images = append(d.Images[:i], d.Images[i+1:]...)
}

// SetVideo attaches a local demo video, enforcing the size cap.
func (d *Draft) SetVideo(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("video %s: %w", path, err)
	}
	if info.Size() > domain.MaxVideoBytes {
		return fmt.Errorf("video exceeds %d MB limit", domain.MaxVideoBytes/(1<<20))
	}
	d.Video = Media{Path: path}
	return nil
}

// SetProfile attaches a local profile image for the submission.
func (d *Draft) SetProfile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("profile image %s: %w", path, err)
	}
	d.Profile = Media{Path: path}
	return nil
}

// Suggest returns up to five technology names matching the input by
// case-insensitive substring, excluding tags already on the draft. An
// empty input yields no suggestions.
func (d *Draft) Suggest(input string) []string {
	q := strings.ToLower(strings.TrimSpace(input))
	if q == "" {
		return nil
	}
	selected := make(map[string]bool, len(d.Tags))
	for _, t := range d.Tags {
		selected[t] = true
	}
	var out []string
	for _, tech := range domain.Technologies {
		if selected[tech] {
			continue
		}
		if strings.Contains(strings.ToLower(tech), q) {
			out = append(out, tech)
			if len(out) == 5 {
				break
			}
		}
	}
	return out
}

// validURL accepts absolute http(s) URLs only.
func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Validate checks the draft against the submission rules and returns
// one message per offending field, keyed by field name. An empty map
// means the draft can be submitted.
func (d *Draft) Validate() map[string]string {
	errs := make(map[string]string)

	title := strings.TrimSpace(d.Title)
	switch {
	case title == "":
		errs["title"] = "Title is required"
	case utf8.RuneCountInString(title) > domain.MaxTitleLen:
		errs["title"] = fmt.Sprintf("Title must be at most %d characters", domain.MaxTitleLen)
	}

	desc := strings.TrimSpace(d.Description)
	switch {
	case desc == "":
		errs["description"] = "Description is required"
	case utf8.RuneCountInString(desc) > domain.MaxDescriptionLen:
		errs["description"] = fmt.Sprintf("Description must be at most %d characters", domain.MaxDescriptionLen)
	}

	long := strings.TrimSpace(d.LongDescription)
	switch {
	case long == "":
		errs["longDescription"] = "Detailed description is required"
	case utf8.RuneCountInString(long) < domain.MinLongDescLen:
		errs["longDescription"] = fmt.Sprintf("Detailed description must be at least %d characters", domain.MinLongDescLen)
	}

	switch {
	case d.Category == "":
		errs["category"] = "Category is required"
	case !domain.ValidCategory(d.Category):
		errs["category"] = "Unknown category"
	}

	gh := strings.TrimSpace(d.GitHubURL)
	switch {
	case gh == "":
		errs["githubUrl"] = "GitHub URL is required"
	case !validURL(gh):
		errs["githubUrl"] = "GitHub URL must be a valid URL"
	}

	if live := strings.TrimSpace(d.LiveURL); live != "" && !validURL(live) {
		errs["liveUrl"] = "Live URL must be a valid URL"
	}

	switch {
	case len(d.Tags) == 0:
		errs["tags"] = "Select at least one technology"
	case len(d.Tags) > domain.MaxTags:
		errs["tags"] = fmt.Sprintf("At most %d technologies", domain.MaxTags)
	}

	switch {
	case len(d.Images) == 0:
		errs["images"] = "Add at least one image"
	case len(d.Images) > domain.MaxImages:
		errs["images"] = fmt.Sprintf("At most %d images", domain.MaxImages)
	}

	return errs
}
