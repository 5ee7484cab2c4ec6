package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) renderLanding() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Logo.Render("playercard"))
	b.WriteString("\n\n")
	if handle := strings.TrimSpace(m.snapshot.Record.Handle); handle != "" {
		b.WriteString(styles.Text.Render("Welcome back, "))
		b.WriteString(styles.AccentText.Bold(true).Render(handle))
	} else {
		b.WriteString(styles.Text.Render("Welcome! Set up your profile to start playing."))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("Press p to edit your profile."))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) renderLobby() string {
	styles := m.theme.Styles()
	rec := m.snapshot.Record

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Lobby"))
	b.WriteString("\n\n")
	b.WriteString(styles.SuccessText.Render("Ready to play"))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("Handle     "))
	b.WriteString(styles.Text.Render(rec.Handle))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Character  "))
	b.WriteString(styles.ChipSelected.Render(m.catalog.Label(rec.AvatarID)))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) renderSignedOut() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Signed out"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render("You have been signed out."))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Press enter to sign in again or q to quit."))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
