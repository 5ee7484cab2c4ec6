// Package profile implements the profile edit session: validation, reconciliation
// of remote snapshots against local edits, and save coordination.
//
// # Overview
//
// A Machine owns one Session for the lifetime of a profile view. The host (the
// bubbletea model in package ui) feeds it events in arrival order and performs
// the Effects it returns: launching a store update, navigating away, or signing
// out. The Machine never performs I/O itself.
//
// # Lifecycle
//
//	Loading ──LoadSnapshot──> Ready ──Back/Continue/SignOutCompleted──> Closed
//
// Within Ready the save status cycles:
//
//	Idle ──Save/SelectAvatar──> InFlight ──> Succeeded | Failed ──edit──> Idle
//
// # Reconciliation
//
// Reconcile seeds the drafts from each remote snapshot until the user edits the
// handle or picks an avatar. From then on snapshots are ignored until a save of
// exactly the current draft succeeds.
//
// # Save Coordination
//
// Coordinator keeps at most one store update in flight. Submissions made while one
// runs replace a single queued slot, so the newest parameters always win. When the
// running call returns it is classified:
//
//   - Applied: it was the newest request, its result reaches the session
//   - Superseded: a newer request is queued, the result is dropped and the queued
//     request is launched
//   - Stale: the request was cancelled or already accounted for
//
// Submitting the pair that is already in flight joins that call instead of queuing
// a duplicate, which is what keeps an avatar autosave followed by an explicit Save
// down to a single store update.
//
// # Errors
//
// ValidationError (TooShort, NoAvatarSelected) is reported on the session and
// never reaches the store. Store failures land in Session.SaveError; drafts are
// left untouched so the user can retry. Nothing is retried automatically.
package profile
