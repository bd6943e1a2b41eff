package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Shimmer animation for the POWERFOLIO logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "POWERFOLIO" as a flowing wave of violet light,
// deep indigo (#2a1a4a) rising to bright violet (#a78bfa).
func renderShimmerLogo(frame int) string {
	const text = "POWERFOLIO"
	n := len(text)

	var out string

	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		// Flowing phase — one smooth wave advancing through the text
		phase := t*0.1 - x*3.0

		// Gentle speed modulation
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		// Slow breathing tide
		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		// Continuous RGB interpolation: deep indigo -> bright violet
		// Deep:   (42, 26, 74)    #2a1a4a
		// Bright: (167, 139, 250) #a78bfa
		r := clampByte(42 + b*(167-42))
		g := clampByte(26 + b*(139-26))
		bl := clampByte(74 + b*(250-74))

		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color))
		out += s.Render(string(text[i]))

		if i < n-1 {
			out += " "
		}
	}

	return out
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	// Base styles — neutral slate palette
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Search / accent
	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a78bfa")).
			Bold(true)

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8b5cf6"))

	starStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#facc15"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80"))

	rejectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#b45555"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f59e0b"))

	// Selected row background
	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	commentTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#9098a8"))

	commentTimeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#505868"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#8b5cf6")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	// Category colors
	categoryColors = map[string]lipgloss.Color{
		"Web Development":    lipgloss.Color("#60a0e0"),
		"Mobile Development": lipgloss.Color("#4ade80"),
		"UI/UX":              lipgloss.Color("#c084e0"),
		"Data Science":       lipgloss.Color("#3ecce4"),
		"Machine Learning":   lipgloss.Color("#f0944a"),
		"Other":              lipgloss.Color("#8890a0"),
	}

	// Technology tag colors — popular stacks get their brand-adjacent hue,
	// the rest hash onto a small palette.
	tagColors = map[string]lipgloss.Color{
		"React":      lipgloss.Color("#61dafb"),
		"Vue":        lipgloss.Color("#42b883"),
		"Angular":    lipgloss.Color("#dd0031"),
		"Node.js":    lipgloss.Color("#68a063"),
		"JavaScript": lipgloss.Color("#f7df1e"),
		"TypeScript": lipgloss.Color("#3178c6"),
		"Python":     lipgloss.Color("#ffd343"),
		"Django":     lipgloss.Color("#0c4b33"),
		"MongoDB":    lipgloss.Color("#4db33d"),
		"PostgreSQL": lipgloss.Color("#336791"),
		"Firebase":   lipgloss.Color("#ffca28"),
		"AWS":        lipgloss.Color("#ff9900"),
		"Docker":     lipgloss.Color("#2496ed"),
		"GraphQL":    lipgloss.Color("#e10098"),
	}

	fallbackTagPalette = []lipgloss.Color{
		lipgloss.Color("#e06060"),
		lipgloss.Color("#b080d0"),
		lipgloss.Color("#f0944a"),
		lipgloss.Color("#d4a844"),
		lipgloss.Color("#60a0e0"),
		lipgloss.Color("#3ecce4"),
	}
)

// TagStyle returns a bold style colored for the given technology tag.
func TagStyle(tag string) lipgloss.Style {
	if c, ok := tagColors[tag]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	var sum int
	for _, r := range tag {
		sum += int(r)
	}
	return lipgloss.NewStyle().Foreground(fallbackTagPalette[sum%len(fallbackTagPalette)]).Bold(true)
}

// CategoryStyle returns a bold style colored for the given category.
func CategoryStyle(category string) lipgloss.Style {
	if c, ok := categoryColors[category]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")).Bold(true)
}

// statusStyle returns the style for a moderation status badge.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case "approved":
		return okStyle
	case "rejected":
		return rejectStyle
	default:
		return pendingStyle
	}
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

var helpItems = []helpItem{
	{"GitHub", "github.com/powerfolio/powerfolio", "https://github.com/powerfolio/powerfolio"},
	{"Report an issue", "github.com/powerfolio/powerfolio/issues", "https://github.com/powerfolio/powerfolio/issues"},
}

// helpView renders the interactive help overlay with a cursor.
func helpView(cursor int) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a78bfa")).
		Bold(true).
		Render("P O W E R F O L I O")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Showcase your projects. Discover everyone else's.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a78bfa"))
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	commands := []struct{ cmd, desc string }{
		{"powerfolio", "Browse the showcase (interactive TUI)"},
		{"powerfolio login", "Sign in with email and password"},
		{"powerfolio register", "Create an account"},
		{"powerfolio whoami", "Show the signed-in account"},
		{"powerfolio logout", "Clear your session"},
		{"powerfolio update", "Check for updates"},
		{"powerfolio --version", "Show version"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n  %s\n\n", title, tagline)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-22s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Links (enter to open)"))
	for i, item := range helpItems {
		label := cmdStyle.Render(fmt.Sprintf("%-22s", item.label))
		prefix := "    "
		if i == cursor {
			label = cursorStyle.Render(fmt.Sprintf("%-22s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(item.desc))
	}
	return b.String()
}
