package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/playercard/internal/prefs"
	"github.com/five82/playercard/internal/profile"
	"github.com/five82/playercard/internal/state"
)

type fakeStore struct {
	mu        sync.Mutex
	updates   []profile.Pair
	updateErr error
}

func (f *fakeStore) Load(context.Context) (profile.Record, error) {
	return profile.Record{}, errors.New("not used")
}

func (f *fakeStore) Update(_ context.Context, handle string, avatar profile.AvatarID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, profile.Pair{Handle: handle, Avatar: avatar})
	return f.updateErr
}

func (f *fakeStore) Updates() []profile.Pair {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]profile.Pair(nil), f.updates...)
}

type fakeSessions struct {
	calls int
	err   error
}

func (f *fakeSessions) SignOut(context.Context) error {
	f.calls++
	return f.err
}

// fakeRefresher plays the poller: each Refresh publishes next, when set.
type fakeRefresher struct {
	snapshots *state.Store
	next      *profile.Record
	calls     int
}

func (f *fakeRefresher) Refresh(context.Context) {
	f.calls++
	if f.next != nil {
		f.snapshots.Update(f.snapshots.Begin(), f.next, nil)
	}
}

type harness struct {
	t         *testing.T
	m         Model
	store     *fakeStore
	sessions  *fakeSessions
	snapshots *state.Store
	refresher *fakeRefresher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:         t,
		store:     &fakeStore{},
		sessions:  &fakeSessions{},
		snapshots: &state.Store{},
	}
	h.refresher = &fakeRefresher{snapshots: h.snapshots}
	h.m = New(context.Background(), Options{
		Store:     h.store,
		Sessions:  h.sessions,
		Snapshots: h.snapshots,
		Refresher: h.refresher,
		Logger:    zerolog.Nop(),
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})
	return h
}

// send delivers msg and returns the command without running it.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

// press delivers a key and returns the effect messages its command produces.
// Only call it for keys whose commands never block on timers.
func (h *harness) press(k tea.KeyMsg) []tea.Msg {
	h.t.Helper()
	return collect(h.send(k))
}

func (h *harness) typeText(s string) {
	h.t.Helper()
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// poll publishes rec through the snapshot store the way the poller does and
// hands the resulting snapshot to the model.
func (h *harness) poll(rec profile.Record) state.Snapshot {
	h.t.Helper()
	h.snapshots.Update(h.snapshots.Begin(), &rec, nil)
	snap := h.snapshots.Snapshot()
	h.send(snapshotMsg(snap))
	return snap
}

func (h *harness) session() profile.Session {
	h.t.Helper()
	if h.m.profile == nil {
		h.t.Fatalf("profile view is not open (screen %s)", h.m.router.Current())
	}
	return h.m.profile.machine.Session()
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func savesIn(msgs []tea.Msg) []saveDoneMsg {
	var out []saveDoneMsg
	for _, msg := range msgs {
		if s, ok := msg.(saveDoneMsg); ok {
			out = append(out, s)
		}
	}
	return out
}

func keyPress(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var aliceRecord = profile.Record{ID: "u1", Email: "alice@example.com", Handle: "alice", AvatarID: "C2"}

func TestModel_SnapshotSeedsDraftsUntilEdited(t *testing.T) {
	h := newHarness(t)
	if h.m.profile.machine.State() != profile.StateLoading {
		t.Fatalf("state = %v, want loading before any snapshot", h.m.profile.machine.State())
	}

	h.poll(aliceRecord)
	if got := h.m.profile.input.Value(); got != "alice" {
		t.Fatalf("input = %q, want alice", got)
	}
	if got := h.session().DraftAvatar; got != "C2" {
		t.Fatalf("DraftAvatar = %q, want C2", got)
	}

	h.typeText("x")
	h.poll(profile.Record{ID: "u1", Handle: "bob", AvatarID: "C3"})
	if got := h.m.profile.input.Value(); got != "alicex" {
		t.Fatalf("input after remote change = %q, want local edit kept", got)
	}
	if got := h.session().DraftAvatar; got != "C2" {
		t.Fatalf("DraftAvatar after remote change = %q, want C2", got)
	}
}

func TestModel_EnterSavesAndPublishes(t *testing.T) {
	h := newHarness(t)
	h.poll(aliceRecord)
	h.typeText("x")

	saves := savesIn(h.press(keyPress(tea.KeyEnter)))
	if len(saves) != 1 {
		t.Fatalf("launched %d saves, want 1", len(saves))
	}
	if got := h.store.Updates(); len(got) != 1 || got[0] != (profile.Pair{Handle: "alicex", Avatar: "C2"}) {
		t.Fatalf("store updates = %+v", got)
	}
	if !strings.Contains(h.m.View(), "Saving...") {
		t.Fatalf("view does not show saving banner:\n%s", h.m.View())
	}

	h.send(saves[0])
	if got := h.session().SaveStatus; got != profile.StatusSucceeded {
		t.Fatalf("SaveStatus = %v, want succeeded", got)
	}
	if !strings.Contains(h.m.View(), "Profile saved!") {
		t.Fatalf("view does not show saved banner:\n%s", h.m.View())
	}
	if snap := h.snapshots.Snapshot(); snap.Record.Handle != "alicex" || snap.Record.Email != "alice@example.com" {
		t.Fatalf("published record = %+v, want saved handle with original email", snap.Record)
	}
}

func TestModel_PollReadBeforeSaveIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.poll(aliceRecord)

	h.typeText("x")
	saves := savesIn(h.press(keyPress(tea.KeyEnter)))
	stale := h.snapshots.Snapshot()

	h.send(saves[0])
	h.send(snapshotMsg(stale))

	if got := h.m.profile.input.Value(); got != "alicex" {
		t.Fatalf("input = %q, stale snapshot reverted the saved handle", got)
	}
	if got := h.session().LastPersisted.Handle; got != "alicex" {
		t.Fatalf("LastPersisted = %q, want alicex", got)
	}
}

func TestModel_ShortHandleIsRejectedLocally(t *testing.T) {
	h := newHarness(t)
	h.poll(profile.Record{ID: "u1"})
	h.typeText("ab")

	if saves := savesIn(h.press(keyPress(tea.KeyEnter))); len(saves) != 0 {
		t.Fatalf("launched %d saves for a short handle", len(saves))
	}
	if len(h.store.Updates()) != 0 {
		t.Fatalf("store called for a short handle")
	}
	if !strings.Contains(h.m.View(), "Handle must be at least 3 characters") {
		t.Fatalf("view does not show validation error:\n%s", h.m.View())
	}
}

func TestModel_AvatarAutosaveThenEnterUpdatesOnce(t *testing.T) {
	h := newHarness(t)
	h.poll(aliceRecord)

	h.send(keyPress(tea.KeyTab))
	if h.m.profile.focus != focusAvatar {
		t.Fatalf("focus = %v, want avatar row", h.m.profile.focus)
	}
	saves := savesIn(h.press(keyPress(tea.KeyRight)))
	if len(saves) != 1 || saves[0].pair.Avatar != "C3" {
		t.Fatalf("autosave = %+v, want one save of C3", saves)
	}

	h.send(keyPress(tea.KeyTab))
	if more := savesIn(h.press(keyPress(tea.KeyEnter))); len(more) != 0 {
		t.Fatalf("explicit save launched %d more calls, want it to join the autosave", len(more))
	}

	h.send(saves[0])
	if got := h.store.Updates(); len(got) != 1 {
		t.Fatalf("store updates = %+v, want exactly one", got)
	}
	if got := h.session().SaveStatus; got != profile.StatusSucceeded {
		t.Fatalf("SaveStatus = %v, want succeeded", got)
	}
}

func TestModel_NumberKeysPickAvatar(t *testing.T) {
	h := newHarness(t)
	h.poll(aliceRecord)
	h.send(keyPress(tea.KeyTab))

	saves := savesIn(h.press(runes("4")))
	if len(saves) != 1 || saves[0].pair.Avatar != "C4" {
		t.Fatalf("saves = %+v, want C4", saves)
	}
	if saves := savesIn(h.press(runes("9"))); len(saves) != 0 {
		t.Fatalf("out-of-range pick launched a save")
	}
}

func TestModel_SaveFailureShowsServiceMessage(t *testing.T) {
	h := newHarness(t)
	h.store.updateErr = &profile.SaveError{Message: "Handle is taken", Err: errors.New("422")}
	h.poll(aliceRecord)
	h.typeText("x")

	saves := savesIn(h.press(keyPress(tea.KeyEnter)))
	h.send(saves[0])

	if got := h.session().SaveStatus; got != profile.StatusFailed {
		t.Fatalf("SaveStatus = %v, want failed", got)
	}
	if !strings.Contains(h.m.View(), "Handle is taken") {
		t.Fatalf("view does not show service message:\n%s", h.m.View())
	}
	if snap := h.snapshots.Snapshot(); snap.Record.Handle != "alice" {
		t.Fatalf("failed save was published: %+v", snap.Record)
	}
}

func TestModel_SaveForClosedViewIsDropped(t *testing.T) {
	h := newHarness(t)
	h.poll(aliceRecord)
	h.typeText("x")
	saves := savesIn(h.press(keyPress(tea.KeyEnter)))

	h.press(keyPress(tea.KeyEsc))
	if h.m.router.Current() != ScreenLanding || h.m.profile != nil {
		t.Fatalf("esc did not return to landing")
	}

	h.send(saves[0])
	if snap := h.snapshots.Snapshot(); snap.Record.Handle != "alice" {
		t.Fatalf("orphaned save was published: %+v", snap.Record)
	}

	h.press(runes("p"))
	if h.m.profile == nil || h.m.profile.id != 2 {
		t.Fatalf("reopening profile did not build a new view")
	}
	if got := h.m.profile.input.Value(); got != "alice" {
		t.Fatalf("new view input = %q, want seeded from latest snapshot", got)
	}
}

func TestModel_PlayWithoutChangesGoesStraightToLobby(t *testing.T) {
	h := newHarness(t)
	h.poll(aliceRecord)

	if saves := savesIn(h.press(keyPress(tea.KeyCtrlP))); len(saves) != 0 {
		t.Fatalf("play with nothing to save launched %d saves", len(saves))
	}
	if h.m.router.Current() != ScreenLobby {
		t.Fatalf("screen = %s, want lobby", h.m.router.Current())
	}
	if !strings.Contains(h.m.View(), "Ready to play") {
		t.Fatalf("lobby not rendered:\n%s", h.m.View())
	}
}

func TestModel_PlayWaitsForSave(t *testing.T) {
	h := newHarness(t)
	h.poll(aliceRecord)
	h.typeText("x")

	saves := savesIn(h.press(keyPress(tea.KeyCtrlP)))
	if len(saves) != 1 {
		t.Fatalf("launched %d saves, want 1", len(saves))
	}
	if h.m.router.Current() != ScreenProfile {
		t.Fatalf("left before the save finished")
	}

	h.send(saves[0])
	if h.m.router.Current() != ScreenLobby {
		t.Fatalf("screen = %s, want lobby after save", h.m.router.Current())
	}
	if !strings.Contains(h.m.View(), "alicex") {
		t.Fatalf("lobby does not show saved handle:\n%s", h.m.View())
	}
}

func TestModel_SignOutConfirmsUnsavedEdits(t *testing.T) {
	h := newHarness(t)
	h.poll(aliceRecord)
	h.typeText("x")

	if msgs := h.press(keyPress(tea.KeyCtrlO)); len(msgs) != 0 {
		t.Fatalf("first ctrl+o produced %v, want a confirmation prompt", msgs)
	}
	if !strings.Contains(h.m.View(), "Press ctrl+o again") {
		t.Fatalf("confirmation not shown:\n%s", h.m.View())
	}

	msgs := h.press(keyPress(tea.KeyCtrlO))
	if len(msgs) != 1 {
		t.Fatalf("second ctrl+o produced %d messages, want 1", len(msgs))
	}
	h.send(msgs[0])
	if h.sessions.calls != 1 {
		t.Fatalf("SignOut calls = %d, want 1", h.sessions.calls)
	}
	if h.m.router.Current() != ScreenSignedOut {
		t.Fatalf("screen = %s, want signed out", h.m.router.Current())
	}
}

func TestModel_SignOutFailureStays(t *testing.T) {
	h := newHarness(t)
	h.sessions.err = errors.New("boom")
	h.poll(aliceRecord)

	msgs := h.press(keyPress(tea.KeyCtrlO))
	h.send(msgs[0])

	if h.m.router.Current() != ScreenProfile {
		t.Fatalf("screen = %s, want profile after failed sign out", h.m.router.Current())
	}
	if !strings.Contains(h.m.View(), "Sign out failed") {
		t.Fatalf("sign out error not shown:\n%s", h.m.View())
	}
}

func TestModel_QuestionMarkTypesIntoHandle(t *testing.T) {
	h := newHarness(t)
	h.poll(aliceRecord)

	h.send(runes("?"))
	if h.m.showHelp {
		t.Fatalf("? opened help while typing")
	}
	if got := h.m.profile.input.Value(); got != "alice?" {
		t.Fatalf("input = %q, want alice?", got)
	}

	h.send(keyPress(tea.KeyF1))
	if !h.m.showHelp {
		t.Fatalf("f1 did not open help")
	}
	if !strings.Contains(h.m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help not rendered")
	}
	h.send(runes("x"))
	if h.m.showHelp {
		t.Fatalf("key did not close help")
	}
}

func TestModel_CycleThemePersists(t *testing.T) {
	h := newHarness(t)

	msgs := h.press(keyPress(tea.KeyCtrlT))
	if h.m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", h.m.theme.Name)
	}
	if len(msgs) != 1 {
		t.Fatalf("ctrl+t produced %d messages, want 1", len(msgs))
	}
	if saved, ok := msgs[0].(prefsSavedMsg); !ok || saved.err != nil {
		t.Fatalf("prefs save = %#v", msgs[0])
	}

	p, err := prefs.Load(h.m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.Theme != "Kanagawa" {
		t.Fatalf("persisted theme = %q, want Kanagawa", p.Theme)
	}
}

func TestModel_QuitFromLanding(t *testing.T) {
	h := newHarness(t)
	h.press(keyPress(tea.KeyEsc))

	msgs := h.press(runes("q"))
	if len(msgs) != 1 {
		t.Fatalf("q produced %d messages, want quit", len(msgs))
	}
	if _, ok := msgs[0].(tea.QuitMsg); !ok {
		t.Fatalf("q produced %#v, want tea.QuitMsg", msgs[0])
	}
}

func TestModel_OfflineHeader(t *testing.T) {
	h := newHarness(t)
	h.snapshots.Update(h.snapshots.Begin(), nil, errors.New("dial tcp: connection refused"))
	h.snapshots.Update(h.snapshots.Begin(), nil, errors.New("dial tcp: connection refused"))
	h.send(snapshotMsg(h.snapshots.Snapshot()))

	view := h.m.View()
	if !strings.Contains(view, "OFFLINE") || !strings.Contains(view, "Loading profile...") {
		t.Fatalf("offline state not rendered:\n%s", view)
	}
}

func TestRouter_MapsDestinations(t *testing.T) {
	var r router
	tests := []struct {
		dest profile.Destination
		want Screen
	}{
		{profile.DestContinue, ScreenLobby},
		{profile.DestSignIn, ScreenSignedOut},
		{profile.DestLanding, ScreenLanding},
	}
	for _, tt := range tests {
		r.Navigate(tt.dest)
		if r.Current() != tt.want {
			t.Fatalf("Navigate(%v) -> %v, want %v", tt.dest, r.Current(), tt.want)
		}
	}
}

func TestClassifyConnectionError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{errors.New("dial tcp 127.0.0.1:7610: connect: connection refused"), "OFFLINE"},
		{errors.New("lookup nope: no such host"), "HOST NOT FOUND"},
		{context.DeadlineExceeded, "TIMEOUT"},
		{errors.New("api /api/profile returned status 401"), "UNAUTHORIZED"},
		{errors.New("weird"), "ERROR"},
	}
	for _, tt := range tests {
		if got := classifyConnectionError(tt.err); got != tt.want {
			t.Fatalf("classifyConnectionError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestModel_ReopeningProfileLoadsAgain(t *testing.T) {
	h := newHarness(t)
	h.poll(aliceRecord)
	h.press(keyPress(tea.KeyEsc))

	h.refresher.next = &profile.Record{ID: "u1", Email: "alice@example.com", Handle: "alice2", AvatarID: "C4"}
	msgs := h.press(runes("p"))
	if h.refresher.calls != 1 {
		t.Fatalf("Refresh calls = %d, want 1 on opening the profile", h.refresher.calls)
	}
	if got := h.m.profile.input.Value(); got != "alice" {
		t.Fatalf("input = %q, want cached snapshot until the fetch lands", got)
	}
	for _, msg := range msgs {
		h.send(msg)
	}
	if got := h.m.profile.input.Value(); got != "alice2" {
		t.Fatalf("input = %q, want freshly loaded alice2", got)
	}
	if got := h.session().DraftAvatar; got != "C4" {
		t.Fatalf("DraftAvatar = %q, want C4", got)
	}
}
