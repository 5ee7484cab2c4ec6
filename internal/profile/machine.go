package profile

import (
	"fmt"

	"github.com/rs/zerolog"
)

// State is the lifecycle phase of a profile view.
type State int

const (
	StateLoading State = iota
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return "loading"
	}
}

// Effects lists the side effects a transition asks its host to perform.
type Effects struct {
	Save     *SaveRequest
	Navigate Destination
	SignOut  bool
}

// None reports whether the transition requested nothing.
func (e Effects) None() bool {
	return e.Save == nil && e.Navigate == 0 && !e.SignOut
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger attaches a logger for transition tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Machine) { m.log = l }
}

// Machine owns the edit session of one profile view. It is not safe for
// concurrent use; the host calls it from a single event loop and performs the
// returned Effects asynchronously.
type Machine struct {
	catalog Catalog
	state   State
	record  Record
	session Session
	coord   Coordinator

	// continueAfter is the sequence a pending continuation waits for; zero when none.
	continueAfter uint64

	log zerolog.Logger
}

// NewMachine starts a session in the Loading state.
func NewMachine(catalog Catalog, opts ...Option) *Machine {
	m := &Machine{
		catalog: catalog,
		state:   StateLoading,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the lifecycle phase.
func (m *Machine) State() State { return m.state }

// Session returns a copy of the edit session.
func (m *Machine) Session() Session { return m.session }

// Record returns the latest remote snapshot.
func (m *Machine) Record() Record { return m.record }

// Catalog returns the avatar catalog in use.
func (m *Machine) Catalog() Catalog { return m.catalog }

// Saving reports whether a store update is outstanding.
func (m *Machine) Saving() bool { return m.coord.Busy() }

// ContinuePending reports whether a continuation waits on a save.
func (m *Machine) ContinuePending() bool { return m.continueAfter != 0 }

// HasUnsavedEdits reports whether leaving now could drop the user's edits.
func (m *Machine) HasUnsavedEdits() bool {
	if m.state != StateReady {
		return false
	}
	if m.coord.Busy() {
		return true
	}
	return m.session.UserHasEdited && m.session.DraftPair() != m.session.LastPersisted
}

// LoadSnapshot applies a freshly loaded remote record.
func (m *Machine) LoadSnapshot(r Record) Effects {
	if m.state == StateClosed {
		return Effects{}
	}
	m.record = r
	before := m.session.UserHasEdited
	m.session = Reconcile(r, m.session, m.catalog.Default())
	if m.state == StateLoading {
		m.state = StateReady
	}
	m.log.Debug().
		Str("event", "profile.snapshot").
		Str("profile_id", r.ID).
		Bool("ignored", before).
		Msg("remote snapshot received")
	return Effects{}
}

// EditHandle replaces the draft handle with text typed by the user.
func (m *Machine) EditHandle(text string) Effects {
	if m.state == StateClosed {
		return Effects{}
	}
	m.session.DraftHandle = text
	m.session.UserHasEdited = true
	m.session.HandleError = nil
	// A failure stays visible while typing; only the saved indicator goes away.
	if m.session.SaveStatus == StatusSucceeded {
		m.session.SaveStatus = StatusIdle
	}
	return Effects{}
}

// SelectAvatar picks an avatar and autosaves it when the draft handle is valid.
// The save carries id directly so it never depends on a previously stored pick.
func (m *Machine) SelectAvatar(id AvatarID) Effects {
	if m.state == StateClosed || !m.catalog.Contains(id) {
		return Effects{}
	}
	m.session.DraftAvatar = id
	m.session.UserHasEdited = true
	m.session.AvatarError = nil
	m.settleToIdle()
	if m.state != StateReady || ValidateHandle(m.session.DraftHandle) != nil {
		return Effects{}
	}
	m.log.Debug().Str("event", "profile.autosave").Str("avatar", string(id)).Msg("avatar picked")
	return m.submit(Pair{Handle: m.session.DraftPair().Handle, Avatar: id}, false)
}

// Save validates the draft and persists it.
func (m *Machine) Save() Effects {
	pair, ok := m.validate()
	if !ok {
		return Effects{}
	}
	if m.session.SaveStatus == StatusSucceeded && pair == m.session.LastPersisted {
		return Effects{}
	}
	return m.submit(pair, false)
}

// Confirm is the single-line submit action of the handle field.
func (m *Machine) Confirm() Effects {
	return m.Save()
}

// SaveAndContinue persists the draft when needed and then leaves for the
// continuation screen. Nothing happens past a validation or save failure.
func (m *Machine) SaveAndContinue() Effects {
	pair, ok := m.validate()
	if !ok {
		return Effects{}
	}
	if pair == m.session.LastPersisted && !m.coord.Busy() {
		return m.leave(DestContinue)
	}
	return m.submit(pair, true)
}

// SaveCompleted feeds back the outcome of the store call numbered seq.
func (m *Machine) SaveCompleted(seq uint64, err error) Effects {
	if m.state == StateClosed {
		m.log.Debug().Str("event", "profile.save_discarded").Uint64("seq", seq).Msg("view closed")
		return Effects{}
	}
	req, _ := m.coord.InFlight()
	outcome, next := m.coord.Complete(seq)
	switch outcome {
	case CompletionStale:
		m.log.Debug().Str("event", "profile.save_discarded").Uint64("seq", seq).Msg("stale save response")
		return Effects{}
	case CompletionSuperseded:
		m.log.Debug().
			Str("event", "profile.save_superseded").
			Uint64("seq", seq).
			Uint64("next_seq", next.Seq).
			Err(err).
			Msg("newer save queued")
		return Effects{Save: next}
	}

	// Applied is the newest request, so a pending continuation is decided here
	// whatever the outcome.
	waiting := m.continueAfter != 0
	m.continueAfter = 0

	if err != nil {
		m.session.SaveStatus = StatusFailed
		m.session.SaveError = saveErrorMessage(err)
		m.log.Warn().Str("event", "profile.save_failed").Uint64("seq", seq).Err(err).Msg("save failed")
		return Effects{}
	}

	m.session.LastPersisted = req.Pair
	m.session.SaveError = ""
	if m.session.DraftPair() == req.Pair {
		m.session.SaveStatus = StatusSucceeded
		m.session.UserHasEdited = false
	} else {
		// The user kept editing while the save ran; those edits are still unsaved.
		m.session.SaveStatus = StatusIdle
	}
	m.log.Info().
		Str("event", "profile.saved").
		Uint64("seq", seq).
		Str("avatar", string(req.Pair.Avatar)).
		Msg("profile saved")

	if waiting {
		return m.leave(DestContinue)
	}
	return Effects{}
}

// SignOut asks the host to end the session. Unsaved edits are the host's call.
func (m *Machine) SignOut() Effects {
	if m.state == StateClosed {
		return Effects{}
	}
	m.session.SignOutError = ""
	return Effects{SignOut: true}
}

// SignOutCompleted navigates to sign-in once the session collaborator is done.
func (m *Machine) SignOutCompleted(err error) Effects {
	if m.state == StateClosed {
		return Effects{}
	}
	if err != nil {
		m.session.SignOutError = fmt.Sprintf("Sign out failed: %v", err)
		return Effects{}
	}
	return m.leave(DestSignIn)
}

// Back leaves for the landing screen.
func (m *Machine) Back() Effects {
	if m.state == StateClosed {
		return Effects{}
	}
	return m.leave(DestLanding)
}

// Close tears the session down. Outstanding store responses are discarded.
func (m *Machine) Close() {
	if m.state == StateClosed {
		return
	}
	m.state = StateClosed
	m.coord.Cancel()
	m.continueAfter = 0
}

func (m *Machine) leave(dest Destination) Effects {
	m.Close()
	m.log.Debug().Str("event", "profile.navigate").Stringer("destination", dest).Msg("leaving profile view")
	return Effects{Navigate: dest}
}

func (m *Machine) validate() (Pair, bool) {
	switch m.state {
	case StateClosed:
		return Pair{}, false
	case StateLoading:
		m.session.SaveError = ErrNotLoaded.Error()
		return Pair{}, false
	}
	if err := ValidateHandle(m.session.DraftHandle); err != nil {
		m.session.HandleError = err.(*ValidationError)
		return Pair{}, false
	}
	if err := ValidateAvatar(m.session.DraftAvatar); err != nil {
		m.session.AvatarError = err.(*ValidationError)
		return Pair{}, false
	}
	return m.session.DraftPair(), true
}

func (m *Machine) submit(p Pair, continueAfter bool) Effects {
	req, launch := m.coord.Submit(p)
	m.session.SaveStatus = StatusInFlight
	m.session.SaveError = ""
	// A pending continuation follows whichever request now carries the outcome;
	// joining or replacing may have dropped the one it was waiting for.
	if continueAfter || m.continueAfter != 0 {
		m.continueAfter = req.Seq
	}
	if !launch {
		m.log.Debug().Str("event", "profile.save_coalesced").Uint64("seq", req.Seq).Msg("save coalesced")
		return Effects{}
	}
	m.log.Debug().Str("event", "profile.save_launch").Uint64("seq", req.Seq).Msg("save launched")
	return Effects{Save: &req}
}

// settleToIdle hides a settled save outcome once the draft changes again.
func (m *Machine) settleToIdle() {
	switch m.session.SaveStatus {
	case StatusSucceeded, StatusFailed:
		m.session.SaveStatus = StatusIdle
		m.session.SaveError = ""
	}
}
