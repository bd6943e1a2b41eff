package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/powerfolio/powerfolio/internal/browser"
	"github.com/powerfolio/powerfolio/pkg/client"
	"github.com/powerfolio/powerfolio/pkg/domain"
)

type view int

const (
	viewBrowse view = iota
	viewSubmit
	viewDashboard
	viewAdmin
)

// meLoadedMsg carries the result of the identity lookup.
type meLoadedMsg struct {
	me  *domain.User
	err error
}

// App is the root Bubbletea model.
type App struct {
	client     *client.Client
	log        zerolog.Logger
	browse     browseModel
	submit     submitModel
	dashboard  dashboardModel
	admin      adminModel
	view       view
	helpOpen   bool
	helpCursor int
	me         *domain.User
	width      int
	height     int
	frame      int // logo shimmer animation frame
}

// NewApp creates a new TUI application.
func NewApp(c *client.Client, log zerolog.Logger) App {
	return App{
		client:    c,
		log:       log,
		browse:    newBrowseModel(c),
		submit:    newSubmitModel(c, log),
		dashboard: newDashboardModel(c),
		admin:     newAdminModel(c),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.browse.Init(), shimmerTickCmd(), a.loadMe())
}

func (a App) loadMe() tea.Cmd {
	c := a.client
	return func() tea.Msg {
		if c.Token() == "" {
			return meLoadedMsg{}
		}
		me, err := c.Me(context.Background())
		return meLoadedMsg{me: me, err: err}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + blank(1) + help(1) = 5 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 5}
		a.browse, _ = a.browse.Update(bodyMsg)
		a.submit, _ = a.submit.Update(bodyMsg)
		a.dashboard, _ = a.dashboard.Update(bodyMsg)
		a.admin, _ = a.admin.Update(bodyMsg)

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case meLoadedMsg:
		if msg.err == nil && msg.me != nil {
			a.me = msg.me
		}
		// Propagate to sub-models that need user identity
		a.browse, _ = a.browse.Update(msg)
		a.dashboard, _ = a.dashboard.Update(msg)
		a.admin, _ = a.admin.Update(msg)
		return a, nil

	case editProjectMsg:
		a.view = viewSubmit
		a.submit.beginEdit(msg.project)
		return a, nil

	case submitResultMsg:
		a.submit, _ = a.submit.Update(msg)
		if msg.err == nil && msg.project != nil {
			// Land on the freshly saved project's detail view.
			a.view = viewBrowse
			a.browse.detail = true
			a.browse.current = msg.project
			a.browse.imageIdx = 0
			a.browse.statusMsg = a.submit.statusMsg
			return a, tea.Batch(a.browse.loadProjects(), a.browse.loadDetail(msg.project.ID))
		}
		return a, nil

	case tea.KeyMsg:
		// Help overlay captures all keys when open
		if a.helpOpen {
			switch msg.String() {
			case "?", "esc":
				a.helpOpen = false
			case "q", "ctrl+c":
				return a, tea.Quit
			case "j", "down":
				if a.helpCursor < len(helpItems)-1 {
					a.helpCursor++
				}
			case "k", "up":
				if a.helpCursor > 0 {
					a.helpCursor--
				}
			case "enter":
				item := helpItems[a.helpCursor]
				if item.url != "" {
					browser.Open(item.url) //nolint:errcheck // best-effort browser open
				}
			}
			return a, nil
		}

		// Global keys (only when not editing)
		if !a.isEditing() {
			switch msg.String() {
			case "?":
				a.helpOpen = true
				a.helpCursor = 0
				return a, nil
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				if a.view != viewBrowse {
					a.view = viewBrowse
					return a, a.browse.Init()
				}
				return a, nil
			case "2":
				if a.view != viewSubmit {
					a.view = viewSubmit
					a.submit.reset()
					return a, nil
				}
				return a, nil
			case "3":
				if a.view != viewDashboard {
					a.view = viewDashboard
					return a, a.dashboard.Init()
				}
				return a, nil
			case "4":
				if a.me != nil && a.me.IsAdmin() && a.view != viewAdmin {
					a.view = viewAdmin
					return a, a.admin.Init()
				}
				return a, nil
			case "esc":
				if a.view == viewSubmit {
					a.view = viewBrowse
					return a, a.browse.Init()
				}
			}
		} else if msg.String() == "esc" && a.view == viewSubmit {
			a.view = viewBrowse
			return a, a.browse.Init()
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewBrowse:
		a.browse, cmd = a.browse.Update(msg)
	case viewSubmit:
		a.submit, cmd = a.submit.Update(msg)
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case viewAdmin:
		a.admin, cmd = a.admin.Update(msg)
	}

	return a, cmd
}

func (a App) isEditing() bool {
	switch a.view {
	case viewBrowse:
		return a.browse.searching || a.browse.commenting
	case viewSubmit:
		return true
	}
	return false
}

func (a App) View() string {
	// Header: centered shimmer logo
	logo := renderShimmerLogo(a.frame)

	// Identity line below logo
	statsLine := ""
	if a.me != nil {
		parts := []string{a.me.Name}
		if a.me.IsAdmin() {
			parts = append(parts, "admin")
		}
		statsLine = metaStyle.Render(strings.Join(parts, " . "))
	} else {
		statsLine = metaStyle.Render("browsing as guest")
	}

	logoWidth := lipgloss.Width(logo)
	logoPad := (a.width - logoWidth) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo

	statsWidth := lipgloss.Width(statsLine)
	statsPad := (a.width - statsWidth) / 2
	if statsPad < 0 {
		statsPad = 0
	}
	header += "\n" + strings.Repeat(" ", statsPad) + statsLine

	// Tab bar: equal-width columns spread across the terminal
	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Browse", viewBrowse},
		{"2", "Submit", viewSubmit},
		{"3", "Dashboard", viewDashboard},
	}
	if a.me != nil && a.me.IsAdmin() {
		tabs = append(tabs, tabEntry{"4", "Admin", viewAdmin})
	}

	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	centeredTabs := tabBar.String()

	// Body + context help
	var body string
	var help string
	switch a.view {
	case viewBrowse:
		body = a.browse.View()
		switch {
		case a.browse.commenting:
			help = " " + helpEntry("enter", "post") + "  " + helpEntry("esc", "cancel")
		case a.browse.searching:
			help = " " + helpEntry("enter", "done") + "  " + helpEntry("esc", "clear")
		case a.browse.detail:
			help = " " + helpEntry("s", "star") + "  " + helpEntry("c", "comment") + "  " + helpEntry("o", "repo") + "  " + helpEntry("v", "live") + "  " + helpEntry("y", "copy") + "  " + helpEntry("esc", "back")
		case a.browse.tagFocus:
			help = " " + helpEntry("h/l", "move") + "  " + helpEntry("space", "toggle") + "  " + helpEntry("x", "clear") + "  " + helpEntry("esc", "done")
		default:
			help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("h/l", "page") + "  " + helpEntry("/", "search") + "  " + helpEntry("t", "tags") + "  " + helpEntry("enter", "open") + "  " + helpEntry("?", "help") + "  " + helpEntry("q", "quit")
		}
	case viewSubmit:
		body = a.submit.View()
		help = " " + helpEntry("tab", "next field") + "  " + helpEntry("ctrl+s", "submit") + "  " + helpEntry("esc", "cancel")
	case viewDashboard:
		body = a.dashboard.View()
		help = " " + a.dashboard.helpKeys()
	case viewAdmin:
		body = a.admin.View()
		help = " " + a.admin.helpKeys()
	}

	if a.helpOpen {
		body = helpView(a.helpCursor)
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("esc", "close")
	}

	// Chrome budget: header(2) + tabs(1) + blank(1) + help(1) = 5 lines + body
	chrome := 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n\n%s", header, centeredTabs, body, help)
}
