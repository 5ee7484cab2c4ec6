package ui

import "github.com/five82/playercard/internal/profile"

// Screen is a top-level page of the TUI.
type Screen int

const (
	ScreenLanding Screen = iota
	ScreenProfile
	ScreenLobby
	ScreenSignedOut
)

func (s Screen) String() string {
	switch s {
	case ScreenProfile:
		return "Profile"
	case ScreenLobby:
		return "Lobby"
	case ScreenSignedOut:
		return "Signed out"
	default:
		return "Home"
	}
}

// router tracks the current screen and maps profile destinations onto screens.
type router struct {
	current Screen
}

var _ profile.Navigator = (*router)(nil)

// Navigate implements profile.Navigator.
func (r *router) Navigate(d profile.Destination) {
	switch d {
	case profile.DestLanding:
		r.current = ScreenLanding
	case profile.DestContinue:
		r.current = ScreenLobby
	case profile.DestSignIn:
		r.current = ScreenSignedOut
	}
}

// Open switches to s directly.
func (r *router) Open(s Screen) {
	r.current = s
}

// Current returns the active screen.
func (r router) Current() Screen {
	return r.current
}
