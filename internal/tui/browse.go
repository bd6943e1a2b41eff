package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/powerfolio/powerfolio/internal/browse"
	"github.com/powerfolio/powerfolio/internal/browser"
	"github.com/powerfolio/powerfolio/pkg/client"
	"github.com/powerfolio/powerfolio/pkg/domain"
)

// -- messages --

type projectsLoadedMsg struct {
	projects []domain.Project
	err      error
}

type projectLoadedMsg struct {
	project *domain.Project
	err     error
}

type likeResultMsg struct {
	likes []domain.Like
	err   error
}

type commentResultMsg struct {
	comments []domain.Comment
	err      error
}

type copyResultMsg struct{ err error }

// browseModel is the discovery view: a searchable, tag-filterable,
// paginated list of approved projects, with a detail mode on top.
type browseModel struct {
	client *client.Client
	me     *domain.User

	projects []domain.Project // unfiltered collection
	filtered []domain.Project
	tags     []string // tag universe from the unfiltered collection

	query     string
	searching bool // typing in the search box
	selected  []string
	tagFocus  bool // navigating the tag bar
	tagCursor int

	page   int // 1-based
	cursor int // index within the current page

	detail       bool
	current      *domain.Project
	imageIdx     int
	commenting   bool
	commentDraft string

	loading   bool
	err       error
	statusMsg string
	width     int
	height    int
}

func newBrowseModel(c *client.Client) browseModel {
	return browseModel{
		client:  c,
		loading: true,
		page:    1,
	}
}

func (m browseModel) loadProjects() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		projects, err := c.ListProjects(context.Background())
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func (m browseModel) loadDetail(id string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		p, err := c.GetProject(context.Background(), id)
		return projectLoadedMsg{project: p, err: err}
	}
}

func (m browseModel) Init() tea.Cmd {
	return m.loadProjects()
}

// applyFilters recomputes the visible slice. Any change to the query or
// the tag selection lands back on page 1 so results are never hidden
// behind a stale page number.
func (m *browseModel) applyFilters() {
	m.filtered = browse.Filter(m.projects, m.query, m.selected)
	m.page = 1
	m.cursor = 0
}

// pageItems returns the projects on the current page.
func (m browseModel) pageItems() []domain.Project {
	return browse.Page(m.filtered, m.page)
}

func (m browseModel) Update(msg tea.Msg) (browseModel, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.projects = msg.projects
			m.tags = browse.AllTags(msg.projects)
			m.filtered = browse.Filter(m.projects, m.query, m.selected)
			m.page = browse.ClampPage(m.page, len(m.filtered))
			if m.cursor >= len(m.pageItems()) {
				m.cursor = 0
			}
		}
		return m, nil

	case meLoadedMsg:
		if msg.err == nil && msg.me != nil {
			m.me = msg.me
		}
		return m, nil

	case projectLoadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("load failed: %v", msg.err)
			m.detail = false
			return m, nil
		}
		m.current = msg.project
		m.imageIdx = 0
		return m, nil

	case likeResultMsg:
		if msg.err != nil {
			if client.IsStatus(msg.err, 401) {
				m.statusMsg = "sign in to star projects -- run: powerfolio login"
			} else {
				m.statusMsg = fmt.Sprintf("star failed: %v", msg.err)
			}
			return m, nil
		}
		if m.current != nil {
			m.current.Likes = msg.likes
		}
		m.statusMsg = "starred!"
		if m.me != nil && m.current != nil && !m.current.LikedBy(m.me.ID) {
			m.statusMsg = "star removed"
		}
		return m, nil

	case commentResultMsg:
		if msg.err != nil {
			if client.IsStatus(msg.err, 401) {
				m.statusMsg = "sign in to comment -- run: powerfolio login"
			} else {
				m.statusMsg = fmt.Sprintf("comment failed: %v", msg.err)
			}
			return m, nil
		}
		if m.current != nil {
			m.current.Comments = msg.comments
		}
		m.commentDraft = ""
		m.commenting = false
		m.statusMsg = "comment posted"
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.statusMsg = "copied!"
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.detail {
			return m.updateDetail(msg)
		}
		if m.tagFocus {
			return m.updateTagBar(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m browseModel) updateSearch(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
	case "esc":
		m.searching = false
		m.query = ""
		m.applyFilters()
	default:
		m.query = editRune(m.query, msg.String())
		m.applyFilters()
	}
	return m, nil
}

func (m browseModel) updateTagBar(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	switch msg.String() {
	case "l", "right":
		if m.tagCursor < len(m.tags)-1 {
			m.tagCursor++
		}
	case "h", "left":
		if m.tagCursor > 0 {
			m.tagCursor--
		}
	case " ", "enter":
		if m.tagCursor < len(m.tags) {
			m.toggleTag(m.tags[m.tagCursor])
			m.applyFilters()
		}
	case "x":
		m.selected = nil
		m.applyFilters()
	case "t", "esc":
		m.tagFocus = false
	}
	return m, nil
}

func (m *browseModel) toggleTag(tag string) {
	for i, t := range m.selected {
		if t == tag {
			m.selected = append(m.selected[:i], m.selected[i+1:]...)
			return
		}
	}
	m.selected = append(m.selected, tag)
}

func (m *browseModel) tagSelected(tag string) bool {
	for _, t := range m.selected {
		if t == tag {
			return true
		}
	}
	return false
}

func (m browseModel) updateList(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.pageItems())-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "l", "right":
		if m.page < browse.TotalPages(len(m.filtered)) {
			m.page++
			m.cursor = 0
		}
	case "h", "left":
		if m.page > 1 {
			m.page--
			m.cursor = 0
		}
	case "/":
		m.searching = true
	case "x":
		m.query = ""
		m.selected = nil
		m.applyFilters()
	case "t":
		if len(m.tags) > 0 {
			m.tagFocus = true
		}
	case "enter":
		items := m.pageItems()
		if m.cursor < len(items) {
			p := items[m.cursor]
			m.detail = true
			m.current = &p
			m.imageIdx = 0
			return m, m.loadDetail(p.ID)
		}
	case "r":
		m.loading = true
		return m, m.loadProjects()
	}
	return m, nil
}

func (m browseModel) updateDetail(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	if m.commenting {
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.commentDraft)
			if text == "" {
				m.statusMsg = "comment is empty"
				return m, nil
			}
			if m.current == nil {
				return m, nil
			}
			if m.client.Token() == "" {
				m.commenting = false
				m.commentDraft = ""
				m.statusMsg = "sign in to comment -- run: powerfolio login"
				return m, nil
			}
			c, id := m.client, m.current.ID
			return m, func() tea.Msg {
				comments, err := c.CommentProject(context.Background(), id, text)
				return commentResultMsg{comments: comments, err: err}
			}
		case "esc":
			m.commenting = false
			m.commentDraft = ""
		default:
			m.commentDraft = editRune(m.commentDraft, msg.String())
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.detail = false
		m.current = nil
		m.commentDraft = ""
	case "s":
		if m.current != nil {
			if m.client.Token() == "" {
				m.statusMsg = "sign in to star projects -- run: powerfolio login"
				return m, nil
			}
			c, id := m.client, m.current.ID
			return m, func() tea.Msg {
				likes, err := c.LikeProject(context.Background(), id)
				return likeResultMsg{likes: likes, err: err}
			}
		}
	case "c":
		m.commenting = true
		m.commentDraft = ""
	case "]":
		if m.current != nil && m.imageIdx < len(m.current.Images)-1 {
			m.imageIdx++
		}
	case "[":
		if m.imageIdx > 0 {
			m.imageIdx--
		}
	case "g":
		if m.current != nil && len(m.current.Images) > 0 {
			url := m.client.ResolveMediaURL(m.current.Images[m.imageIdx])
			browser.Open(url) //nolint:errcheck // best-effort browser open
		}
	case "o":
		if m.current != nil && m.current.GitHubURL != "" {
			browser.Open(m.current.GitHubURL) //nolint:errcheck // best-effort browser open
		}
	case "v":
		if m.current != nil && m.current.LiveURL != "" {
			browser.Open(m.current.LiveURL) //nolint:errcheck // best-effort browser open
		}
	case "y":
		if m.current != nil && m.current.GitHubURL != "" {
			url := m.current.GitHubURL
			return m, func() tea.Msg {
				return copyResultMsg{err: clipboard.WriteAll(url)}
			}
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	if m.detail {
		return m.viewDetail()
	}

	var b strings.Builder

	if m.width >= 56 {
		b.WriteString(" " + sectionHeaderStyle.Render("SHOWCASE") + "  " + metaStyle.Render("every approved project, nine to a page") + "\n")
	} else {
		b.WriteString(" " + sectionHeaderStyle.Render("SHOWCASE") + "\n")
	}

	// Search box
	if m.searching {
		b.WriteString(" " + searchStyle.Render("/ "+m.query+"█"))
	} else if m.query != "" {
		b.WriteString(" " + searchStyle.Render("/ "+m.query))
	} else {
		b.WriteString(" " + dimStyle.Render("/ search..."))
	}

	// Page indicator
	total := browse.TotalPages(len(m.filtered))
	b.WriteString("   " + metaStyle.Render(fmt.Sprintf("page %d/%d", m.page, total)))
	b.WriteString("  " + metaStyle.Render(fmt.Sprintf("%d projects", len(m.filtered))))
	b.WriteString("\n")

	// Tag bar
	b.WriteString(m.viewTagBar())

	// Separator
	sepW := m.width - 2
	if sepW < 4 {
		sepW = 4
	}
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", sepW)) + "\n")

	if m.statusMsg != "" {
		b.WriteString(" " + okStyle.Render(m.statusMsg) + "\n")
	}

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + errStyle.Render(fmt.Sprintf("error: %v", m.err)))
		return b.String()
	}

	return b.String() + m.viewList()
}

func (m browseModel) viewTagBar() string {
	if len(m.tags) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(" ")
	used := 1
	shown := 0
	for i, tag := range m.tags {
		sep := "  "
		if i == 0 {
			sep = ""
		}
		marker := ""
		if m.tagSelected(tag) {
			marker = "*"
		}
		needed := len(sep) + len(tag) + len(marker) + 2
		if used+needed > m.width-2 {
			break
		}
		b.WriteString(sep)
		label := tag + marker
		switch {
		case m.tagFocus && i == m.tagCursor:
			b.WriteString(selectedRowBg.Render(TagStyle(tag).Render(label)))
		case m.tagSelected(tag):
			b.WriteString(TagStyle(tag).Render(label))
		default:
			b.WriteString(dimStyle.Render(label))
		}
		used += needed
		shown++
	}
	if shown < len(m.tags) {
		b.WriteString("  " + metaStyle.Render(fmt.Sprintf("+%d", len(m.tags)-shown)))
	}
	b.WriteString("  " + helpKeyStyle.Render("t"))
	b.WriteString("\n")
	return b.String()
}

func (m browseModel) viewList() string {
	items := m.pageItems()
	if len(items) == 0 {
		if m.query != "" || len(m.selected) > 0 {
			return " " + dimStyle.Render("no projects found · press x to clear filters")
		}
		return " " + dimStyle.Render("no projects found")
	}

	var b strings.Builder

	for i, p := range items {
		cursor := "  "
		titleStyle := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			titleStyle = normalStyle.Bold(true)
		}

		dot := CategoryStyle(p.Category).Render("●") + " "

		// Right-side columns: author(14) + stars(6), dropped as width shrinks.
		showAuthor := m.width >= 70
		var rightParts []string
		rightWidth := 0
		if showAuthor {
			name := truncStr(p.AuthorName(), 14)
			rightParts = append(rightParts, dimStyle.Render(fmt.Sprintf("%-14s", name)))
			rightWidth += 15
		}
		rightParts = append(rightParts, starStyle.Render(fmt.Sprintf("★%s", formatNum(p.StarCount()))))
		rightWidth += 7

		titleWidth := m.width - 4 - rightWidth
		if titleWidth < 10 {
			titleWidth = 10
		}
		title := truncStr(p.Title, titleWidth)
		titlePadded := fmt.Sprintf("%-*s", titleWidth, title)

		line := cursor + dot + titleStyle.Render(titlePadded) + " " + strings.Join(rightParts, " ")
		if i == m.cursor {
			padded := line + strings.Repeat(" ", max(m.width-lipgloss.Width(line), 0))
			b.WriteString(selectedRowBg.Render(padded) + "\n")
		} else {
			b.WriteString(line + "\n")
		}
	}

	// Preview of the selected card
	if m.cursor < len(items) {
		p := items[m.cursor]
		b.WriteString("\n")

		header := " " + CategoryStyle(p.Category).Render("["+p.Category+"]")
		for _, tag := range p.Tags {
			header += "  " + TagStyle(tag).Render(tag)
		}
		b.WriteString(header + "\n")

		descWidth := m.width - 4
		if descWidth < 40 {
			descWidth = 40
		}
		wrapped := lipgloss.NewStyle().Width(descWidth).Render(p.Description)
		lines := strings.Split(wrapped, "\n")
		if len(lines) > 3 {
			lines = lines[:3]
		}
		for _, line := range lines {
			b.WriteString(" " + normalStyle.Render(line) + "\n")
		}
	}

	return truncateToHeight(b.String(), m.height)
}

func (m browseModel) viewDetail() string {
	p := m.current
	if p == nil {
		return " " + dimStyle.Render("loading...")
	}

	var b strings.Builder
	b.WriteString(" " + dimStyle.Render("<- back (esc)") + "\n")
	b.WriteString(" " + selectedStyle.Render(p.Title) + "\n")

	// Meta line: author · category · ★N · date
	meta := " " + dimStyle.Render(p.AuthorName())
	meta += metaStyle.Render(" · ") + CategoryStyle(p.Category).Render(p.Category)
	starGlyph := "☆"
	if m.me != nil && p.LikedBy(m.me.ID) {
		starGlyph = "★"
	}
	meta += metaStyle.Render(" · ") + starStyle.Render(fmt.Sprintf("%s%d", starGlyph, p.StarCount()))
	if !p.CreatedAt.IsZero() {
		meta += metaStyle.Render(" · " + formatTime(p.CreatedAt))
	}
	b.WriteString(meta + "\n")

	// Tags
	if len(p.Tags) > 0 {
		tagLine := " "
		for i, tag := range p.Tags {
			if i > 0 {
				tagLine += "  "
			}
			tagLine += TagStyle(tag).Render(tag)
		}
		b.WriteString(tagLine + "\n")
	}

	// Gallery: current image URL with position indicator
	b.WriteString("\n")
	if len(p.Images) > 0 {
		idx := m.imageIdx
		if idx >= len(p.Images) {
			idx = 0
		}
		b.WriteString(" " + sectionHeaderStyle.Render(fmt.Sprintf("GALLERY %d/%d", idx+1, len(p.Images))) +
			"  " + helpKeyStyle.Render("[ ]") + " " + helpLabelStyle.Render("flip") +
			"  " + helpKeyStyle.Render("g") + " " + helpLabelStyle.Render("open") + "\n")
		b.WriteString(" " + metaStyle.Render(m.client.ResolveMediaURL(p.Images[idx])) + "\n")
	} else {
		b.WriteString(" " + metaStyle.Render(client.PlaceholderImage) + "\n")
	}

	// Long description
	b.WriteString("\n")
	detailWidth := m.width - 4
	if detailWidth < 40 {
		detailWidth = 40
	}
	wrapped := lipgloss.NewStyle().Width(detailWidth).Render(p.LongDescription)
	for _, line := range strings.Split(wrapped, "\n") {
		b.WriteString(" " + normalStyle.Render(line) + "\n")
	}

	// Links
	b.WriteString("\n")
	if p.GitHubURL != "" {
		b.WriteString(" " + helpKeyStyle.Render("o") + " " + metaStyle.Render(p.GitHubURL) + "\n")
	}
	if p.LiveURL != "" {
		b.WriteString(" " + helpKeyStyle.Render("v") + " " + metaStyle.Render(p.LiveURL) + "\n")
	}
	if p.DemoVideo != "" {
		b.WriteString(" " + metaStyle.Render("demo: "+m.client.ResolveMediaURL(p.DemoVideo)) + "\n")
	}

	// Comments
	b.WriteString("\n " + sectionHeaderStyle.Render(fmt.Sprintf("COMMENTS (%d)", len(p.Comments))) + "\n")
	for _, c := range p.Comments {
		who := normalStyle.Render(c.DisplayName())
		text := commentTextStyle.Render(c.Text)
		when := commentTimeStyle.Render(formatTime(c.Date))
		fmt.Fprintf(&b, " %s  %s  %s\n", who, text, when)
	}

	if m.commenting {
		b.WriteString("\n " + inputPromptStyle.Render("> ") + m.commentDraft + accentStyle.Render("█") + "\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n " + okStyle.Render(m.statusMsg) + "\n")
	}

	return truncateToHeight(b.String(), m.height)
}
