package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/playercard/internal/prefs"
	"github.com/five82/playercard/internal/profile"
	"github.com/five82/playercard/internal/state"
)

// Refresher fetches the remote profile into the snapshot store.
// app.Poller satisfies it.
type Refresher interface {
	Refresh(ctx context.Context)
}

// Options configures the UI.
type Options struct {
	Store          profile.Store
	Sessions       profile.SessionManager
	Snapshots      *state.Store
	Refresher      Refresher
	Catalog        profile.Catalog
	Logger         zerolog.Logger
	PollTick       time.Duration
	RequestTimeout time.Duration
	ThemeName      string
	PrefsPath      string
	StartOnLanding bool
}

const defaultRequestTimeout = 5 * time.Second

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     profile.Store
	sessions  profile.SessionManager
	snapshots *state.Store
	refresher Refresher
	catalog   profile.Catalog
	log       zerolog.Logger
	prefsPath string
	pollTick  time.Duration
	timeout   time.Duration
	keys      keyMap

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	router   router
	spinner  spinner.Model
	spinning bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time
	minEpoch    uint64

	// Profile screen; nil on every other screen
	profile *profileView
	viewSeq uint64
}

// New creates a new Bubble Tea model.
func New(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	catalog := opts.Catalog
	if catalog.Len() == 0 {
		catalog = profile.DefaultCatalog()
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		store:     opts.Store,
		sessions:  opts.Sessions,
		snapshots: opts.Snapshots,
		refresher: opts.Refresher,
		catalog:   catalog,
		log:       opts.Logger,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		timeout:   timeout,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.ThemeName),
		spinner:   spin,
	}
	if opts.StartOnLanding {
		m.router.Open(ScreenLanding)
	} else {
		m.router.Open(ScreenProfile)
		m.openProfile()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.snapshots != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.snapshots))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		if m.profile != nil {
			m.profile.resize(m.width)
		}
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.pollTick)}
		if m.snapshots != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.snapshots))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case saveDoneMsg:
		return m.handleSaveDone(msg)

	case signOutDoneMsg:
		return m.handleSignOutDone(msg)

	case spinner.TickMsg:
		if m.profile == nil || !m.profile.machine.Saving() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case prefsSavedMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Str("event", "prefs.save_failed").Msg("could not persist preferences")
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input. Printable keys go to the handle field
// first so typing never triggers a shortcut.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	typing := m.profile != nil && m.profile.focus == focusHandle && msg.Type == tea.KeyRunes

	switch {
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		return m, m.savePrefsCmd()
	case !typing && key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case m.profile == nil && key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}

	switch m.router.Current() {
	case ScreenProfile:
		return m.handleProfileKey(msg)
	case ScreenLanding:
		if key.Matches(msg, m.keys.OpenProfile) {
			return m, m.navigateTo(ScreenProfile)
		}
	case ScreenLobby:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.router.Navigate(profile.DestLanding)
			return m, m.enterScreen()
		case key.Matches(msg, m.keys.OpenProfile):
			return m, m.navigateTo(ScreenProfile)
		}
	case ScreenSignedOut:
		if key.Matches(msg, m.keys.Continue) {
			return m, m.navigateTo(ScreenLanding)
		}
	}
	return m, nil
}

// applySnapshot records a poll result and feeds new records to the open
// profile view. Snapshots read before the last save was published are ignored.
func (m *Model) applySnapshot(snap state.Snapshot) {
	if snap.Epoch < m.minEpoch {
		m.log.Debug().Uint64("epoch", snap.Epoch).Uint64("min_epoch", m.minEpoch).
			Str("event", "snapshot.stale").Msg("snapshot predates last save")
		return
	}
	m.snapshot = snap
	m.lastUpdated = time.Now()

	pv := m.profile
	if pv == nil || !snap.HasRecord || snap.Revision == pv.appliedRevision {
		return
	}
	pv.appliedRevision = snap.Revision
	m.perform(pv.machine.LoadSnapshot(snap.Record))
	pv.syncInput()
}

func (m Model) handleSaveDone(msg saveDoneMsg) (tea.Model, tea.Cmd) {
	pv := m.profile
	if pv == nil || pv.id != msg.view {
		m.log.Debug().Uint64("view", msg.view).Uint64("seq", msg.seq).
			Str("event", "save.orphaned").Msg("save finished after its view closed")
		return m, nil
	}

	if msg.err == nil && m.snapshots != nil {
		rec := m.snapshot.Record
		if !m.snapshot.HasRecord {
			rec = pv.machine.Record()
		}
		rec.Handle = msg.pair.Handle
		rec.AvatarID = msg.pair.Avatar
		m.minEpoch = m.snapshots.Publish(rec)
		m.snapshot = m.snapshots.Snapshot()
		pv.appliedRevision = m.snapshot.Revision
	}

	cmd := m.perform(pv.machine.SaveCompleted(msg.seq, msg.err))
	if m.profile != nil {
		m.profile.syncInput()
	}
	return m, cmd
}

func (m Model) handleSignOutDone(msg signOutDoneMsg) (tea.Model, tea.Cmd) {
	pv := m.profile
	if pv == nil || pv.id != msg.view {
		return m, nil
	}
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Str("event", "signout.failed").Msg("sign out failed")
	}
	return m, m.perform(pv.machine.SignOutCompleted(msg.err))
}

// perform carries out the side effects a machine transition requested.
func (m *Model) perform(eff profile.Effects) tea.Cmd {
	if eff.None() {
		return nil
	}
	var cmds []tea.Cmd
	if eff.Save != nil && m.profile != nil {
		cmds = append(cmds, m.saveCmd(m.profile.id, *eff.Save), m.startSpinner())
	}
	if eff.SignOut && m.profile != nil {
		cmds = append(cmds, m.signOutCmd(m.profile.id))
	}
	if eff.Navigate != 0 {
		m.router.Navigate(eff.Navigate)
		cmds = append(cmds, m.enterScreen())
	}
	return tea.Batch(cmds...)
}

// navigateTo opens a screen directly, closing the profile view if one is open.
func (m *Model) navigateTo(s Screen) tea.Cmd {
	m.router.Open(s)
	return m.enterScreen()
}

// enterScreen tears down or builds the profile view to match the router.
func (m *Model) enterScreen() tea.Cmd {
	if m.router.Current() != ScreenProfile {
		if m.profile != nil {
			m.profile.machine.Close()
			m.profile = nil
		}
		return nil
	}
	if m.profile == nil {
		m.openProfile()
		return m.refreshCmd()
	}
	return nil
}

// openProfile starts a fresh machine seeded from the latest snapshot.
func (m *Model) openProfile() {
	m.viewSeq++
	pv := newProfileView(m.viewSeq, m.catalog, m.log, m.width)
	m.profile = pv
	if m.snapshot.HasRecord {
		pv.appliedRevision = m.snapshot.Revision
		pv.machine.LoadSnapshot(m.snapshot.Record)
		pv.syncInput()
	}
}

func (m *Model) startSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type saveDoneMsg struct {
	view uint64
	seq  uint64
	pair profile.Pair
	err  error
}

type signOutDoneMsg struct {
	view uint64
	err  error
}

type prefsSavedMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// refreshCmd loads the profile again for a newly opened view, then hands the
// resulting snapshot back to Update.
func (m Model) refreshCmd() tea.Cmd {
	if m.snapshots == nil {
		return nil
	}
	ctx, refresher, store := m.ctx, m.refresher, m.snapshots
	return func() tea.Msg {
		if refresher != nil {
			refresher.Refresh(ctx)
		}
		return snapshotMsg(store.Snapshot())
	}
}

func (m Model) saveCmd(view uint64, req profile.SaveRequest) tea.Cmd {
	ctx, store, timeout := m.ctx, m.store, m.timeout
	m.log.Info().Uint64("view", view).Uint64("seq", req.Seq).Str("avatar", string(req.Pair.Avatar)).
		Str("event", "save.launch").Msg("saving profile")
	return func() tea.Msg {
		if store == nil {
			return saveDoneMsg{view: view, seq: req.Seq, pair: req.Pair, err: errors.New("no profile store configured")}
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		err := store.Update(ctx, req.Pair.Handle, req.Pair.Avatar)
		return saveDoneMsg{view: view, seq: req.Seq, pair: req.Pair, err: err}
	}
}

func (m Model) signOutCmd(view uint64) tea.Cmd {
	ctx, sessions, timeout := m.ctx, m.sessions, m.timeout
	return func() tea.Msg {
		if sessions == nil {
			return signOutDoneMsg{view: view}
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return signOutDoneMsg{view: view, err: sessions.SignOut(ctx)}
	}
}

func (m Model) savePrefsCmd() tea.Cmd {
	path := m.prefsPath
	p := prefs.Prefs{Theme: m.theme.Name}
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.Save(path, p)}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	m := New(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
