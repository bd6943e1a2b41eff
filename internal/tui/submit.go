package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/powerfolio/powerfolio/internal/form"
	"github.com/powerfolio/powerfolio/pkg/client"
	"github.com/powerfolio/powerfolio/pkg/domain"
)

type submitField int

const (
	fieldTitle submitField = iota
	fieldDescription
	fieldLongDesc
	fieldCategory
	fieldGitHub
	fieldLive
	fieldTags
	fieldImages
	fieldVideo
	fieldProfile
	numSubmitFields
)

var submitLabels = [numSubmitFields]string{
	"title", "description", "details", "category", "github", "live url",
	"technologies", "images", "demo video", "profile image",
}

// fieldErrKeys maps form fields to draft validation keys.
var fieldErrKeys = [numSubmitFields]string{
	"title", "description", "longDescription", "category", "githubUrl", "liveUrl",
	"tags", "images", "", "",
}

type submitResultMsg struct {
	project *domain.Project
	err     error
}

// submitModel is the multi-step submission form. The same model serves
// editing: an editProjectMsg seeds the draft from an existing project.
type submitModel struct {
	client *client.Client
	log    zerolog.Logger

	draft form.Draft
	focus submitField

	// Transient text being typed into the list-valued fields.
	tagInput     string
	pathInput    string
	suggestions  []string
	sugCursor    int
	fieldErrs    map[string]string
	submitting   bool
	statusMsg    string
	statusIsErr  bool
	width        int
	height       int
}

func newSubmitModel(c *client.Client, log zerolog.Logger) submitModel {
	return submitModel{client: c, log: log}
}

func (m submitModel) Init() tea.Cmd {
	return nil
}

// reset returns the form to a blank draft.
func (m *submitModel) reset() {
	m.draft = form.Draft{}
	m.focus = fieldTitle
	m.tagInput = ""
	m.pathInput = ""
	m.suggestions = nil
	m.fieldErrs = nil
	m.statusMsg = ""
}

// beginEdit seeds the form from an existing project.
func (m *submitModel) beginEdit(p domain.Project) {
	m.reset()
	m.draft = form.EditOf(p)
}

func (m submitModel) Update(msg tea.Msg) (submitModel, tea.Cmd) {
	switch msg := msg.(type) {
	case submitResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("submission failed: %v", msg.err)
			m.statusIsErr = true
			return m, nil
		}
		verb := "submitted for review"
		if m.draft.Editing() {
			verb = "saved"
		}
		m.reset()
		m.statusMsg = fmt.Sprintf("%q %s", msg.project.Title, verb)
		m.statusIsErr = false
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m submitModel) updateKeys(msg tea.KeyMsg) (submitModel, tea.Cmd) {
	m.statusMsg = ""

	switch msg.String() {
	case "ctrl+s":
		return m.submit()
	case "tab":
		m.advanceFocus(1)
		return m, nil
	case "shift+tab":
		m.advanceFocus(-1)
		return m, nil
	}

	switch m.focus {
	case fieldCategory:
		return m.updateCategory(msg), nil
	case fieldTags:
		return m.updateTags(msg), nil
	case fieldImages, fieldVideo, fieldProfile:
		return m.updatePath(msg), nil
	default:
		return m.updateText(msg), nil
	}
}

func (m *submitModel) advanceFocus(delta submitField) {
	m.focus = (m.focus + delta + numSubmitFields) % numSubmitFields
	m.tagInput = ""
	m.pathInput = ""
	m.suggestions = nil
	m.sugCursor = 0
}

func (m submitModel) updateText(msg tea.KeyMsg) submitModel {
	field := m.textField()
	if field == nil {
		return m
	}
	switch msg.String() {
	case "enter":
		if m.focus == fieldLongDesc {
			*field += "\n"
		} else {
			m.advanceFocus(1)
		}
	default:
		*field = editRune(*field, msg.String())
	}
	return m
}

// textField returns a pointer into the draft for the focused text field.
func (m *submitModel) textField() *string {
	switch m.focus {
	case fieldTitle:
		return &m.draft.Title
	case fieldDescription:
		return &m.draft.Description
	case fieldLongDesc:
		return &m.draft.LongDescription
	case fieldGitHub:
		return &m.draft.GitHubURL
	case fieldLive:
		return &m.draft.LiveURL
	}
	return nil
}

func (m submitModel) updateCategory(msg tea.KeyMsg) submitModel {
	cats := domain.Categories
	idx := -1
	for i, c := range cats {
		if c == m.draft.Category {
			idx = i
			break
		}
	}
	switch msg.String() {
	case "l", "right", "enter":
		idx = (idx + 1) % len(cats)
		m.draft.Category = cats[idx]
	case "h", "left":
		idx = (idx - 1 + len(cats)) % len(cats)
		m.draft.Category = cats[idx]
	}
	return m
}

func (m submitModel) updateTags(msg tea.KeyMsg) submitModel {
	switch msg.String() {
	case "enter":
		if len(m.suggestions) > 0 && m.sugCursor < len(m.suggestions) {
			m.draft.AddTag(m.suggestions[m.sugCursor])
		} else if strings.TrimSpace(m.tagInput) != "" {
			m.draft.AddTag(m.tagInput)
		}
		m.tagInput = ""
		m.suggestions = nil
		m.sugCursor = 0
	case "down":
		if m.sugCursor < len(m.suggestions)-1 {
			m.sugCursor++
		}
	case "up":
		if m.sugCursor > 0 {
			m.sugCursor--
		}
	case "backspace":
		if m.tagInput == "" && len(m.draft.Tags) > 0 {
			m.draft.RemoveTag(m.draft.Tags[len(m.draft.Tags)-1])
			return m
		}
		fallthrough
	default:
		m.tagInput = editRune(m.tagInput, msg.String())
		m.suggestions = m.draft.Suggest(m.tagInput)
		m.sugCursor = 0
	}
	return m
}

func (m submitModel) updatePath(msg tea.KeyMsg) submitModel {
	switch msg.String() {
	case "enter":
		path := strings.TrimSpace(m.pathInput)
		if path == "" {
			return m
		}
		var err error
		switch m.focus {
		case fieldImages:
			err = m.draft.AddImage(path)
		case fieldVideo:
			err = m.draft.SetVideo(path)
		case fieldProfile:
			err = m.draft.SetProfile(path)
		}
		if err != nil {
			m.statusMsg = err.Error()
			m.statusIsErr = true
			return m
		}
		m.pathInput = ""
	case "backspace":
		if m.pathInput == "" && m.focus == fieldImages && len(m.draft.Images) > 0 {
			m.draft.RemoveImage(len(m.draft.Images) - 1)
			return m
		}
		fallthrough
	default:
		m.pathInput = editRune(m.pathInput, msg.String())
	}
	return m
}

func (m submitModel) submit() (submitModel, tea.Cmd) {
	m.fieldErrs = m.draft.Validate()
	if len(m.fieldErrs) > 0 {
		m.statusMsg = "fix the highlighted fields"
		m.statusIsErr = true
		return m, nil
	}

	m.submitting = true
	pl := form.NewPipeline(m.client, m.log)
	draft := m.draft
	return m, func() tea.Msg {
		p, err := pl.Run(context.Background(), draft)
		return submitResultMsg{project: p, err: err}
	}
}

func (m submitModel) View() string {
	var b strings.Builder

	title := "SUBMIT A PROJECT"
	if m.draft.Editing() {
		title = "EDIT PROJECT"
	}
	b.WriteString(" " + sectionHeaderStyle.Render(title) + "\n\n")

	for f := submitField(0); f < numSubmitFields; f++ {
		cursor := " "
		style := metaStyle
		if f == m.focus {
			cursor = ">"
			style = selectedStyle
		}

		fmt.Fprintf(&b, "%s %s: %s\n", cursor, style.Render(submitLabels[f]), m.fieldValue(f))

		if key := fieldErrKeys[f]; key != "" {
			if msg, ok := m.fieldErrs[key]; ok {
				b.WriteString("     " + errStyle.Render(msg) + "\n")
			}
		}

		// Suggestion dropdown directly under the technologies field
		if f == fieldTags && f == m.focus && len(m.suggestions) > 0 {
			for i, s := range m.suggestions {
				if i == m.sugCursor {
					b.WriteString("     " + accentStyle.Render("▸ ") + TagStyle(s).Render(s) + "\n")
				} else {
					b.WriteString("       " + dimStyle.Render(s) + "\n")
				}
			}
		}
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(" " + dimStyle.Render("uploading and submitting..."))
	case m.statusMsg != "" && m.statusIsErr:
		b.WriteString(" " + errStyle.Render(m.statusMsg))
	case m.statusMsg != "":
		b.WriteString(" " + okStyle.Render(m.statusMsg))
	}

	return truncateToHeight(b.String(), m.height)
}

// fieldValue renders the display value of one form row.
func (m submitModel) fieldValue(f submitField) string {
	focused := f == m.focus
	blink := ""
	if focused {
		blink = "█"
	}

	switch f {
	case fieldCategory:
		val := m.draft.Category
		if val == "" {
			val = "(h/l to choose)"
			return dimStyle.Render(val)
		}
		return CategoryStyle(val).Render(val) + "  " + dimStyle.Render("(h/l to cycle)")

	case fieldTags:
		var parts []string
		for _, t := range m.draft.Tags {
			parts = append(parts, TagStyle(t).Render(t))
		}
		line := strings.Join(parts, " ")
		if focused {
			if line != "" {
				line += " "
			}
			line += m.tagInput + blink
		} else if line == "" {
			line = dimStyle.Render("(type to search technologies)")
		}
		return line

	case fieldImages:
		var parts []string
		for _, img := range m.draft.Images {
			parts = append(parts, dimStyle.Render(truncStr(img.Label(), 24)))
		}
		line := strings.Join(parts, " ")
		if focused {
			if line != "" {
				line += " "
			}
			line += m.pathInput + blink
		} else if line == "" {
			line = dimStyle.Render("(enter a file path)")
		}
		return line

	case fieldVideo:
		return m.mediaValue(m.draft.Video, focused, blink)

	case fieldProfile:
		return m.mediaValue(m.draft.Profile, focused, blink)

	case fieldLongDesc:
		val := m.draft.LongDescription
		// Show only the tail of long multi-line input.
		if i := strings.LastIndexByte(val, '\n'); i >= 0 && !focused {
			val = "…" + val[i+1:]
		}
		return truncStr(val, 60) + blink

	default:
		val := ""
		switch f {
		case fieldTitle:
			val = m.draft.Title
		case fieldDescription:
			val = m.draft.Description
		case fieldGitHub:
			val = m.draft.GitHubURL
		case fieldLive:
			val = m.draft.LiveURL
		}
		return val + blink
	}
}

// mediaValue renders a single-slot media field.
func (m submitModel) mediaValue(media form.Media, focused bool, blink string) string {
	label := media.Label()
	if focused {
		if m.pathInput != "" || label == "" {
			return m.pathInput + blink
		}
		return dimStyle.Render(label) + " " + blink
	}
	if label == "" {
		return dimStyle.Render("(optional)")
	}
	return dimStyle.Render(truncStr(label, 40))
}
