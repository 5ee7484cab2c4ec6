package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/five82/playercard/internal/profile"
)

type profileFocus int

const (
	focusHandle profileFocus = iota
	focusAvatar
)

const (
	handleCharLimit = 32
	labelWidth      = 11
)

// profileView is one visit to the profile screen. A new view, with a new id and
// a new machine, is built every time the screen is entered; responses tagged
// with an older id are dropped.
type profileView struct {
	id              uint64
	machine         *profile.Machine
	catalog         profile.Catalog
	input           textinput.Model
	focus           profileFocus
	confirmSignOut  bool
	appliedRevision uint64
}

func newProfileView(id uint64, catalog profile.Catalog, log zerolog.Logger, width int) *profileView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Enter a handle"
	ti.CharLimit = handleCharLimit
	ti.Focus()

	pv := &profileView{
		id:      id,
		machine: profile.NewMachine(catalog, profile.WithLogger(log.With().Uint64("view", id).Logger())),
		catalog: catalog,
		input:   ti,
	}
	pv.resize(width)
	return pv
}

func (pv *profileView) resize(width int) {
	w := width - labelWidth - 8
	if w > handleCharLimit+1 {
		w = handleCharLimit + 1
	}
	if w < 10 {
		w = 10
	}
	pv.input.Width = w
}

// syncInput copies the draft handle into the text field when reconciliation
// changed it behind the field's back.
func (pv *profileView) syncInput() {
	if draft := pv.machine.Session().DraftHandle; pv.input.Value() != draft {
		pv.input.SetValue(draft)
	}
}

func (pv *profileView) toggleFocus() {
	if pv.focus == focusHandle {
		pv.focus = focusAvatar
		pv.input.Blur()
		return
	}
	pv.focus = focusHandle
	pv.input.Focus()
}

// cycleAvatar picks the avatar delta positions away from the current draft.
func (pv *profileView) cycleAvatar(delta int) profile.Effects {
	avatars := pv.catalog.Avatars()
	if len(avatars) == 0 {
		return profile.Effects{}
	}
	next := 0
	if i := pv.catalog.Index(pv.machine.Session().DraftAvatar); i >= 0 {
		next = (i + delta + len(avatars)) % len(avatars)
	} else if delta < 0 {
		next = len(avatars) - 1
	}
	return pv.machine.SelectAvatar(avatars[next].ID)
}

// pickAvatar selects the avatar at a 1-based position.
func (pv *profileView) pickAvatar(pos int) profile.Effects {
	avatars := pv.catalog.Avatars()
	if pos < 1 || pos > len(avatars) {
		return profile.Effects{}
	}
	return pv.machine.SelectAvatar(avatars[pos-1].ID)
}

// handleProfileKey processes keyboard input for the profile screen.
func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pv := m.profile
	if !key.Matches(msg, m.keys.SignOut) {
		pv.confirmSignOut = false
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		return m, m.perform(pv.machine.Back())

	case key.Matches(msg, m.keys.Save):
		if msg.Type == tea.KeyEnter {
			return m, m.perform(pv.machine.Confirm())
		}
		return m, m.perform(pv.machine.Save())

	case key.Matches(msg, m.keys.Play):
		return m, m.perform(pv.machine.SaveAndContinue())

	case key.Matches(msg, m.keys.SignOut):
		// Unsaved edits need a second press.
		if pv.machine.HasUnsavedEdits() && !pv.confirmSignOut {
			pv.confirmSignOut = true
			return m, nil
		}
		pv.confirmSignOut = false
		return m, m.perform(pv.machine.SignOut())

	case key.Matches(msg, m.keys.NextFocus), key.Matches(msg, m.keys.PrevFocus):
		pv.toggleFocus()
		return m, nil
	}

	if pv.focus == focusHandle {
		var cmd tea.Cmd
		pv.input, cmd = pv.input.Update(msg)
		if pv.input.Value() != pv.machine.Session().DraftHandle {
			m.perform(pv.machine.EditHandle(pv.input.Value()))
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.PrevChar):
		return m, m.perform(pv.cycleAvatar(-1))
	case key.Matches(msg, m.keys.NextChar):
		return m, m.perform(pv.cycleAvatar(1))
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9':
		return m, m.perform(pv.pickAvatar(int(msg.Runes[0] - '0')))
	}
	return m, nil
}

// renderProfile renders the profile screen.
func (m Model) renderProfile() string {
	pv := m.profile
	styles := m.theme.Styles()
	session := pv.machine.Session()

	label := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Muted)).
		Width(labelWidth)
	indent := strings.Repeat(" ", labelWidth)

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Profile"))
	b.WriteString("\n\n")

	if pv.machine.State() == profile.StateLoading {
		b.WriteString(styles.MutedText.Render("Loading profile..."))
		if err := m.snapshot.LastError; err != nil {
			b.WriteString("  ")
			b.WriteString(styles.DangerText.Render(classifyConnectionError(err)))
		}
		b.WriteString("\n\n")
	}

	email := strings.TrimSpace(pv.machine.Record().Email)
	if email == "" {
		email = "N/A"
	}
	b.WriteString(label.Render("Email"))
	b.WriteString(styles.Text.Render(email))
	b.WriteString("\n\n")

	field := styles.Field
	if pv.focus == focusHandle {
		field = styles.FieldFocused
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, label.Render("Handle"), field.Render(pv.input.View())))
	b.WriteString("\n")
	if session.HandleError != nil {
		b.WriteString(indent)
		b.WriteString(styles.DangerText.Render(session.HandleError.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(label.Render("Character"))
	b.WriteString(m.renderAvatarRow(session.DraftAvatar, pv.focus == focusAvatar))
	b.WriteString("\n")
	if session.AvatarError != nil {
		b.WriteString(indent)
		b.WriteString(styles.DangerText.Render(session.AvatarError.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if status := m.renderSaveStatus(); status != "" {
		b.WriteString(status)
		b.WriteString("\n")
	}
	if session.SignOutError != "" {
		b.WriteString(styles.DangerText.Render(session.SignOutError))
		b.WriteString("\n")
	}
	if pv.confirmSignOut {
		b.WriteString(styles.WarningText.Render("You have unsaved changes. Press ctrl+o again to sign out."))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) renderAvatarRow(selected profile.AvatarID, focused bool) string {
	styles := m.theme.Styles()
	avatars := m.profile.catalog.Avatars()
	chips := make([]string, 0, len(avatars))
	for i, a := range avatars {
		text := a.Label
		if focused && i < 9 {
			text = string(rune('1'+i)) + " " + text
		}
		style := styles.Chip
		if a.ID == selected {
			style = styles.ChipSelected
		}
		chips = append(chips, style.Render(text))
	}
	row := strings.Join(chips, " ")
	if focused {
		row = styles.AccentText.Render("› ") + row
	} else {
		row = "  " + row
	}
	return row
}

// renderSaveStatus returns the one-line save banner, or "" when there is
// nothing to report.
func (m Model) renderSaveStatus() string {
	pv := m.profile
	styles := m.theme.Styles()
	session := pv.machine.Session()

	switch {
	case pv.machine.Saving():
		text := "Saving..."
		if pv.machine.ContinuePending() {
			text = "Saving, then joining the lobby..."
		}
		return m.spinner.View() + " " + styles.InfoText.Render(text)
	case session.SaveStatus == profile.StatusSucceeded:
		return styles.SuccessText.Render("Profile saved!")
	case session.SaveError != "":
		return styles.DangerText.Render(session.SaveError)
	case pv.machine.HasUnsavedEdits():
		return styles.MutedText.Render("Unsaved changes")
	}
	return ""
}
