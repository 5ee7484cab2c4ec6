// Package ui provides the terminal interface for playercard.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model is the root tea.Model; it owns a
// router, the latest state.Snapshot and, while the profile screen is open, a
// profileView wrapping a profile.Machine. The machine decides what happens;
// the model performs the effects it returns (store calls, sign out,
// navigation) as tea.Cmds and feeds the results back.
//
// # Package Structure
//
//   - app.go: Model, Update loop, effect execution and the Run function
//   - router.go: Screen enumeration and the profile.Navigator implementation
//   - profile_view.go: handle field, avatar picker and save banner
//   - screens.go: landing, lobby and signed-out screens
//   - header.go: connection status bar and per-screen command bar
//   - help.go, keys.go: key bindings and the help overlay
//   - theme.go, style_helpers.go: color palettes and background-aware styling
//
// # Views
//
// Each visit to the profile screen builds a new profileView with its own id.
// Save and sign-out results carry that id and are dropped once the view has
// been closed, so a late response never touches a newer view.
//
// # Snapshots
//
// A poller in package app refreshes state.Store in the background; the model
// reads it on every tick. After a successful save the model publishes the
// saved record into the store and ignores any snapshot from an older epoch,
// so a poll that raced the save cannot revert the screen.
//
// # Key Bindings
//
//   - enter / ctrl+s: Save the profile
//   - ctrl+p: Save if needed, then join the lobby
//   - tab / shift+tab: Move between handle and character
//   - ←/→ or 1-9: Pick a character (saved immediately)
//   - ctrl+o: Sign out (press twice with unsaved changes)
//   - esc: Back to the home screen
//   - ctrl+t: Cycle theme
//   - f1 or ?: Help
//   - q: Quit (outside the profile screen); ctrl+c always quits
package ui
