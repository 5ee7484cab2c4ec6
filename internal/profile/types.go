package profile

import (
	"context"
	"errors"
	"strings"
)

// ErrNotLoaded reports that no profile snapshot is available yet.
var ErrNotLoaded = errors.New("profile not loaded")

// Record is the persisted profile as the remote store reports it.
type Record struct {
	ID       string
	Email    string
	Handle   string // empty when never saved
	AvatarID AvatarID
}

// Pair is the (handle, avatar) tuple that a save persists.
type Pair struct {
	Handle string
	Avatar AvatarID
}

// SaveStatus tracks the most recent save attempt.
type SaveStatus int

const (
	StatusIdle SaveStatus = iota
	StatusInFlight
	StatusSucceeded
	StatusFailed
)

func (s SaveStatus) String() string {
	switch s {
	case StatusInFlight:
		return "in_flight"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Session is the local edit state of one profile view.
type Session struct {
	DraftHandle   string
	DraftAvatar   AvatarID
	UserHasEdited bool

	// HandleError only ever carries ReasonTooShort.
	HandleError *ValidationError
	AvatarError *ValidationError
	SaveError   string

	SignOutError string

	SaveStatus    SaveStatus
	LastPersisted Pair
}

// DraftPair returns the trimmed draft as it would be saved.
func (s Session) DraftPair() Pair {
	return Pair{Handle: strings.TrimSpace(s.DraftHandle), Avatar: s.DraftAvatar}
}

// Store is the remote profile store.
type Store interface {
	Load(ctx context.Context) (Record, error)
	Update(ctx context.Context, handle string, avatar AvatarID) error
}

// SessionManager terminates the authenticated session.
type SessionManager interface {
	SignOut(ctx context.Context) error
}

// Destination names a screen outside the profile view.
type Destination int

const (
	DestLanding Destination = iota + 1
	DestContinue
	DestSignIn
)

func (d Destination) String() string {
	switch d {
	case DestLanding:
		return "landing"
	case DestContinue:
		return "continue"
	case DestSignIn:
		return "sign_in"
	default:
		return "none"
	}
}

// Navigator owns routing between screens.
type Navigator interface {
	Navigate(Destination)
}
