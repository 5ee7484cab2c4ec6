// Package state shares the latest remote profile snapshot between the background
// poller and the UI.
//
// # Concurrency Model
//
// Store uses a readers-writer lock. The poller is the single writer; the UI
// reads snapshots on its own tick. Snapshots are returned by value.
//
// # Epochs
//
// A fetch takes a ticket with Begin before calling the service and hands it
// back to Update. After a successful save the UI calls Publish with the saved
// record, which starts a new epoch and returns it. Update drops results whose
// ticket is older than the current epoch, and the UI ignores snapshots whose
// Epoch is older than the one Publish returned:
//
//	poller: Begin()=3 ─────── GET /api/profile (old data) ─────── Update(3) -> dropped
//	ui:             PUT ok -> Publish(saved)=4
//
// # Update Semantics
//
//	store.Update(ticket, &rec, nil) -> Record = rec, Revision++, failures reset
//	store.Update(ticket, nil, err)  -> Record kept, LastError = err, failures++
//
// IsOffline reports two or more consecutive failures.
package state
