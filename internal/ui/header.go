package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: logo, connection state, current screen.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("playercard", styles.Logo)}

	snap := m.snapshot
	switch {
	case snap.IsOffline():
		parts = append(parts,
			bg.Render(classifyConnectionError(snap.LastError), styles.StatusStyle("offline")),
			bg.Render("Retrying...", styles.WarningText.Bold(true)))
	case snap.LastError != nil:
		parts = append(parts, bg.Render("Reconnecting...", styles.WarningText))
	case !snap.HasRecord:
		parts = append(parts, bg.Render("Connecting...", styles.WarningText.Bold(true)))
	default:
		parts = append(parts, bg.Render("Online", styles.SuccessText))
		if handle := clip(snap.Record.Handle, 24); handle != "" {
			parts = append(parts, bg.Render(handle, styles.Text.Bold(true)))
		}
	}

	if !m.lastUpdated.IsZero() {
		parts = append(parts, bg.Render("updated "+m.lastUpdated.Format("15:04:05"), styles.FaintText))
	}
	parts = append(parts, bg.Render(m.router.Current().String(), styles.AccentText))

	return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
}

// classifyConnectionError turns a transport error into a short badge.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "status 401"):
		return "UNAUTHORIZED"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the key hints for the current screen.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.router.Current() {
	case ScreenProfile:
		commands = []cmd{
			{"enter", "Save"},
			{"ctrl+p", "Play"},
			{"tab", "Field"},
			{"←/→", "Character"},
			{"esc", "Back"},
			{"ctrl+o", "Sign out"},
			{"f1", "More"},
		}
	case ScreenLobby:
		commands = []cmd{
			{"p", "Profile"},
			{"esc", "Home"},
			{"q", "Quit"},
		}
	case ScreenSignedOut:
		commands = []cmd{
			{"enter", "Sign in"},
			{"q", "Quit"},
		}
	default:
		commands = []cmd{
			{"p", "Profile"},
			{"?", "More"},
			{"q", "Quit"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("ctrl+t", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Footer.Width(m.width).Render(bg.Join(segments, "  "))
}

// renderMain lays out header, screen body and command bar.
func (m Model) renderMain() string {
	header := m.renderHeader()
	footer := m.renderCommandBar()

	body := m.renderContent()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight > 0 {
		body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// renderContent renders the body of the current screen.
func (m Model) renderContent() string {
	switch m.router.Current() {
	case ScreenProfile:
		if m.profile != nil {
			return m.renderProfile()
		}
	case ScreenLobby:
		return m.renderLobby()
	case ScreenSignedOut:
		return m.renderSignedOut()
	}
	return m.renderLanding()
}
