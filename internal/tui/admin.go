package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/powerfolio/powerfolio/pkg/client"
	"github.com/powerfolio/powerfolio/pkg/domain"
)

// adminSection identifies which admin panel the cursor is in.
type adminSection int

const (
	adminSectionProjects adminSection = iota
	adminSectionUsers
)

// -- messages --

type adminStatsMsg struct {
	stats *domain.AdminStats
	err   error
}

type adminProjectsMsg struct {
	projects []domain.Project
	err      error
}

type adminUsersMsg struct {
	users []domain.User
	err   error
}

type statusChangedMsg struct {
	id     string
	status string
	err    error
}

type userDeletedMsg struct {
	id  string
	err error
}

// adminModel is the review console: platform stats, the full project
// queue with approve/reject, and user management. Only admins get in;
// everyone else sees access denied.
type adminModel struct {
	client *client.Client
	me     *domain.User

	stats    *domain.AdminStats
	projects []domain.Project
	users    []domain.User

	section  adminSection
	filter   string // status filter for the queue, "" shows everything
	pCursor  int
	uCursor  int
	deleting bool // user delete confirmation

	denied    bool
	loading   bool
	err       error
	statusMsg string
	width     int
	height    int
}

func newAdminModel(c *client.Client) adminModel {
	return adminModel{client: c, loading: true}
}

func (m adminModel) loadAll() tea.Cmd {
	c := m.client
	return tea.Batch(
		func() tea.Msg {
			stats, err := c.AdminStats(context.Background())
			return adminStatsMsg{stats: stats, err: err}
		},
		func() tea.Msg {
			projects, err := c.AdminProjects(context.Background())
			return adminProjectsMsg{projects: projects, err: err}
		},
		func() tea.Msg {
			users, err := c.AdminUsers(context.Background())
			return adminUsersMsg{users: users, err: err}
		},
	)
}

func (m adminModel) Init() tea.Cmd {
	if m.me != nil && !m.me.IsAdmin() {
		return nil
	}
	return m.loadAll()
}

// deniedErr reports whether the API refused us as a non-admin.
func deniedErr(err error) bool {
	return client.IsStatus(err, 401) || client.IsStatus(err, 403)
}

func (m adminModel) Update(msg tea.Msg) (adminModel, tea.Cmd) {
	switch msg := msg.(type) {
	case meLoadedMsg:
		if msg.err == nil && msg.me != nil {
			m.me = msg.me
			m.denied = !msg.me.IsAdmin()
		}
		return m, nil

	case adminStatsMsg:
		if deniedErr(msg.err) {
			m.denied = true
			return m, nil
		}
		if msg.err == nil {
			m.stats = msg.stats
		}
		return m, nil

	case adminProjectsMsg:
		m.loading = false
		if deniedErr(msg.err) {
			m.denied = true
			return m, nil
		}
		m.err = msg.err
		if msg.err == nil {
			m.projects = msg.projects
			if v := len(m.visibleProjects()); m.pCursor >= v {
				m.pCursor = 0
			}
		}
		return m, nil

	case adminUsersMsg:
		if deniedErr(msg.err) {
			m.denied = true
			return m, nil
		}
		if msg.err == nil {
			m.users = msg.users
			if m.uCursor >= len(m.users) {
				m.uCursor = 0
			}
		}
		return m, nil

	case statusChangedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("review failed: %v", msg.err)
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("marked %s", msg.status)
		// The server is the authority on the queue: reload the full
		// list (and totals) rather than patching the row in place.
		c := m.client
		return m, tea.Batch(
			func() tea.Msg {
				projects, err := c.AdminProjects(context.Background())
				return adminProjectsMsg{projects: projects, err: err}
			},
			func() tea.Msg {
				stats, err := c.AdminStats(context.Background())
				return adminStatsMsg{stats: stats, err: err}
			},
		)

	case userDeletedMsg:
		m.deleting = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("delete failed: %v", msg.err)
			return m, nil
		}
		for i, u := range m.users {
			if u.ID == msg.id {
				m.users = append(m.users[:i], m.users[i+1:]...)
				break
			}
		}
		if m.uCursor >= len(m.users) && m.uCursor > 0 {
			m.uCursor = len(m.users) - 1
		}
		m.statusMsg = "user removed"
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.denied {
			return m, nil
		}
		m.statusMsg = ""
		if m.deleting {
			return m.updateDeleting(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

// visibleProjects applies the status filter to the review queue.
func (m adminModel) visibleProjects() []domain.Project {
	if m.filter == "" {
		return m.projects
	}
	var out []domain.Project
	for _, p := range m.projects {
		if p.Status == m.filter {
			out = append(out, p)
		}
	}
	return out
}

func (m adminModel) updateNormal(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	switch msg.String() {
	case "tab":
		if m.section == adminSectionProjects {
			m.section = adminSectionUsers
		} else {
			m.section = adminSectionProjects
		}
	case "j", "down":
		if m.section == adminSectionProjects && m.pCursor < len(m.visibleProjects())-1 {
			m.pCursor++
		} else if m.section == adminSectionUsers && m.uCursor < len(m.users)-1 {
			m.uCursor++
		}
	case "k", "up":
		if m.section == adminSectionProjects && m.pCursor > 0 {
			m.pCursor--
		} else if m.section == adminSectionUsers && m.uCursor > 0 {
			m.uCursor--
		}
	case "f":
		if m.section == adminSectionProjects {
			cycle := []string{"", domain.StatusPending, domain.StatusApproved, domain.StatusRejected}
			for i, s := range cycle {
				if s == m.filter {
					m.filter = cycle[(i+1)%len(cycle)]
					break
				}
			}
			m.pCursor = 0
		}
	case "a":
		return m.review(domain.StatusApproved)
	case "x":
		return m.review(domain.StatusRejected)
	case "d":
		if m.section == adminSectionUsers && m.uCursor < len(m.users) {
			m.deleting = true
		}
	case "r":
		m.loading = true
		return m, m.loadAll()
	}
	return m, nil
}

func (m adminModel) review(status string) (adminModel, tea.Cmd) {
	visible := m.visibleProjects()
	if m.section != adminSectionProjects || m.pCursor >= len(visible) {
		return m, nil
	}
	c, id := m.client, visible[m.pCursor].ID
	return m, func() tea.Msg {
		err := c.SetProjectStatus(context.Background(), id, status)
		return statusChangedMsg{id: id, status: status, err: err}
	}
}

func (m adminModel) updateDeleting(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if m.uCursor < len(m.users) {
			c, id := m.client, m.users[m.uCursor].ID
			return m, func() tea.Msg {
				err := c.DeleteUser(context.Background(), id)
				return userDeletedMsg{id: id, err: err}
			}
		}
		m.deleting = false
	case "n", "N", "esc":
		m.deleting = false
	}
	return m, nil
}

func (m adminModel) helpKeys() string {
	if m.deleting {
		return helpEntry("y", "confirm") + "  " + helpEntry("n", "cancel")
	}
	if m.section == adminSectionUsers {
		return helpEntry("tab", "section") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("d", "delete user") + "  " + helpEntry("q", "quit")
	}
	return helpEntry("tab", "section") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("f", "filter") + "  " + helpEntry("a", "approve") + "  " + helpEntry("x", "reject") + "  " + helpEntry("q", "quit")
}

func (m adminModel) View() string {
	if m.denied {
		return "\n " + rejectStyle.Render("Access Denied") + "\n " + dimStyle.Render("this area is for administrators")
	}

	var b strings.Builder

	// Stats strip
	if m.stats != nil {
		b.WriteString(" " + sectionHeaderStyle.Render("PLATFORM") + "  " +
			normalStyle.Render(fmt.Sprintf("%d users", m.stats.TotalUsers)) + metaStyle.Render(" · ") +
			normalStyle.Render(fmt.Sprintf("%d projects", m.stats.TotalProjects)) + metaStyle.Render(" · ") +
			pendingStyle.Render(fmt.Sprintf("%d pending", m.stats.PendingProjects)) + "\n")
	}

	if m.statusMsg != "" {
		b.WriteString(" " + okStyle.Render(m.statusMsg) + "\n")
	}

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + errStyle.Render(fmt.Sprintf("error: %v", m.err)) + "\n")
		return b.String()
	}

	b.WriteString(m.viewProjectsSection())
	b.WriteString(m.viewUsersSection())

	return truncateToHeight(b.String(), m.height)
}

func (m adminModel) viewProjectsSection() string {
	var b strings.Builder
	projects := m.visibleProjects()

	header := fmt.Sprintf("── REVIEW QUEUE %d ──", len(projects))
	filterLabel := dimStyle.Render("all")
	if m.filter != "" {
		filterLabel = statusStyle(m.filter).Render(m.filter)
	}
	b.WriteString("\n " + sectionHeaderStyle.Render(header) +
		"  " + helpKeyStyle.Render("f") + " " + filterLabel + "\n")

	if len(projects) == 0 {
		b.WriteString("   " + dimStyle.Render("no projects") + "\n")
		return b.String()
	}

	maxRows := len(projects)
	if maxRows > 10 {
		maxRows = 10
	}
	start := 0
	if m.section == adminSectionProjects && m.pCursor >= maxRows {
		start = m.pCursor - maxRows + 1
	}

	for i := start; i < len(projects) && i < start+maxRows; i++ {
		p := projects[i]
		cursor := "  "
		nameStyle := normalStyle
		if i == m.pCursor && m.section == adminSectionProjects {
			cursor = accentStyle.Render("▸") + " "
			nameStyle = selectedStyle
		}
		badge := statusStyle(p.Status).Render("[" + p.Status + "]")
		author := dimStyle.Render(truncStr(p.AuthorName(), 16))
		fmt.Fprintf(&b, " %s%s  %s %s\n", cursor, nameStyle.Render(truncStr(p.Title, 30)), badge, author)
	}
	return b.String()
}

func (m adminModel) viewUsersSection() string {
	var b strings.Builder
	b.WriteString("\n " + sectionHeaderStyle.Render(fmt.Sprintf("── USERS %d ──", len(m.users))) + "\n")

	if len(m.users) == 0 {
		b.WriteString("   " + dimStyle.Render("no users") + "\n")
		return b.String()
	}

	maxRows := len(m.users)
	if maxRows > 8 {
		maxRows = 8
	}
	start := 0
	if m.section == adminSectionUsers && m.uCursor >= maxRows {
		start = m.uCursor - maxRows + 1
	}

	for i := start; i < len(m.users) && i < start+maxRows; i++ {
		u := m.users[i]
		cursor := "  "
		nameStyle := normalStyle
		if i == m.uCursor && m.section == adminSectionUsers {
			cursor = accentStyle.Render("▸") + " "
			nameStyle = selectedStyle
		}
		role := ""
		if u.IsAdmin() {
			role = "  " + pendingStyle.Render("admin")
		}
		fmt.Fprintf(&b, " %s%s  %s%s\n", cursor, nameStyle.Render(truncStr(u.Name, 20)), metaStyle.Render(u.Email), role)

		if i == m.uCursor && m.deleting {
			b.WriteString("   " + rejectStyle.Render("delete this user? ") +
				accentStyle.Render("y") + dimStyle.Render("/") + dimStyle.Render("n") + "\n")
		}
	}
	return b.String()
}
