// Package app is the composition root of the playercard client.
//
// # Overview
//
// Run wires configuration, logging, the profile service client, the shared
// state.Store and the terminal UI, then blocks until the user quits or the
// context is cancelled.
//
// # Components
//
//   - app.go: Run and the errgroup that ties the poller's lifetime to the UI
//   - poller.go: background refresh of the remote profile with backoff
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()          Read config.toml + PLAYERCARD_* env
//	       ├─────> logging.New()          zerolog to the log file
//	       ├─────> profileapi.NewClient() HTTP client for the profile service
//	       ├─────> Poller.Refresh()       Initial fetch
//	       └─────> errgroup
//	                ├─> Poller.Run()      Periodic refresh
//	                └─> ui.Run()          TUI (blocks; quitting cancels the group)
//
// # Polling Behavior
//
// Each refresh takes a ticket from state.Store before fetching. A save
// published by the UI while the fetch is in flight starts a new epoch, and the
// late fetch is dropped instead of reverting the saved profile. Consecutive
// failures double the interval up to 30 seconds; two or more failures mark the
// snapshot offline.
//
// # Error Handling
//
// Configuration, log file and client construction errors are returned from
// Run. Poll failures are logged and recorded in the snapshot; the UI shows
// them in the header and polling continues.
package app
