package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/powerfolio/powerfolio/pkg/client"
	"github.com/powerfolio/powerfolio/pkg/domain"
)

// dashState is the state machine for dashboard interactions.
type dashState int

const (
	dsNormal   dashState = iota
	dsDeleting           // delete confirmation on the selected row
)

// -- messages --

type myProjectsLoadedMsg struct {
	projects []domain.Project
	err      error
}

type projectDeletedMsg struct {
	id  string
	err error
}

// editProjectMsg asks the app to open the submit form pre-filled.
type editProjectMsg struct {
	project domain.Project
}

// dashboardModel lists the signed-in user's own submissions with their
// review status, and hands off editing to the submit form.
type dashboardModel struct {
	client    *client.Client
	me        *domain.User
	projects  []domain.Project
	cursor    int
	state     dashState
	loading   bool
	err       error
	statusMsg string
	width     int
	height    int
}

func newDashboardModel(c *client.Client) dashboardModel {
	return dashboardModel{client: c, loading: true}
}

func (m dashboardModel) loadMine() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		projects, err := c.MyProjects(context.Background())
		return myProjectsLoadedMsg{projects: projects, err: err}
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return m.loadMine()
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case myProjectsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.projects = msg.projects
			if m.cursor >= len(m.projects) {
				m.cursor = 0
			}
		}
		return m, nil

	case meLoadedMsg:
		if msg.err == nil && msg.me != nil {
			m.me = msg.me
		}
		return m, nil

	case projectDeletedMsg:
		m.state = dsNormal
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("delete failed: %v", msg.err)
			return m, nil
		}
		for i, p := range m.projects {
			if p.ID == msg.id {
				m.projects = append(m.projects[:i], m.projects[i+1:]...)
				break
			}
		}
		if m.cursor >= len(m.projects) && m.cursor > 0 {
			m.cursor = len(m.projects) - 1
		}
		m.statusMsg = "project deleted"
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.state == dsDeleting {
			return m.updateDeleting(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m dashboardModel) updateNormal(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.projects)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "e", "enter":
		if m.cursor < len(m.projects) {
			p := m.projects[m.cursor]
			return m, func() tea.Msg {
				return editProjectMsg{project: p}
			}
		}
	case "d":
		if m.cursor < len(m.projects) {
			m.state = dsDeleting
		}
	case "r":
		m.loading = true
		return m, m.loadMine()
	}
	return m, nil
}

func (m dashboardModel) updateDeleting(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if m.cursor < len(m.projects) {
			c, id := m.client, m.projects[m.cursor].ID
			return m, func() tea.Msg {
				err := c.DeleteProject(context.Background(), id)
				return projectDeletedMsg{id: id, err: err}
			}
		}
		m.state = dsNormal
	case "n", "N", "esc":
		m.state = dsNormal
	}
	return m, nil
}

// helpKeys returns context-sensitive help text for the app's help bar.
func (m dashboardModel) helpKeys() string {
	if m.state == dsDeleting {
		return helpEntry("y", "confirm") + "  " + helpEntry("n", "cancel")
	}
	return helpEntry("j/k", "nav") + "  " + helpEntry("e", "edit") + "  " + helpEntry("d", "delete") + "  " + helpEntry("r", "refresh") + "  " + helpEntry("q", "quit")
}

func (m dashboardModel) View() string {
	var b strings.Builder

	// Identity header
	if m.me != nil {
		b.WriteString(" " + selectedStyle.Render(m.me.Name) + "  " + metaStyle.Render(m.me.Email) + "\n")
		b.WriteString(" " + metaStyle.Render(domain.AvatarURL(m.me.Name)) + "\n")
		if m.me.IsAdmin() {
			b.WriteString("   " + pendingStyle.Render("admin") + "\n")
		}
	}

	b.WriteString("\n " + sectionHeaderStyle.Render(fmt.Sprintf("── MY PROJECTS %d ──", len(m.projects))) + "\n")

	if m.statusMsg != "" {
		b.WriteString(" " + okStyle.Render(m.statusMsg) + "\n")
	}

	if m.loading {
		b.WriteString("   " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != nil {
		if client.IsStatus(m.err, 401) {
			b.WriteString("   " + dimStyle.Render("sign in to see your projects -- run: powerfolio login") + "\n")
		} else {
			b.WriteString("   " + errStyle.Render(fmt.Sprintf("error: %v", m.err)) + "\n")
		}
		return b.String()
	}
	if len(m.projects) == 0 {
		b.WriteString("   " + dimStyle.Render("nothing submitted yet · press 2 to submit a project") + "\n")
		return b.String()
	}

	for i, p := range m.projects {
		cursor := "  "
		nameStyle := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			nameStyle = selectedStyle
		}

		badge := statusStyle(p.Status).Render("[" + p.Status + "]")
		stars := starStyle.Render(fmt.Sprintf("★%d", p.StarCount()))
		when := metaStyle.Render(formatTime(p.CreatedAt))

		fmt.Fprintf(&b, " %s%s  %s %s %s\n", cursor, nameStyle.Render(truncStr(p.Title, 32)), badge, stars, when)

		if i == m.cursor && m.state == dsDeleting {
			b.WriteString("   " + rejectStyle.Render("delete this project? ") +
				accentStyle.Render("y") + dimStyle.Render("/") + dimStyle.Render("n") + "\n")
		}
	}

	return truncateToHeight(b.String(), m.height)
}
