// Package server implements the reference profile service behind
// `playercard serve`.
//
// Routes:
//
//   - GET  /api/profile          current profile for the bearer token
//   - PUT  /api/profile          set handle and avatar; 422 on a short handle or unknown avatar
//   - POST /api/session/signout  record a sign-out event
//   - GET  /healthz              liveness
//   - GET  /metrics              Prometheus metrics
//
// /api routes are rate limited per client IP and require a bearer token that
// matches a seeded account. Writing the stored handle and avatar again is a
// no-op. Profiles and session events live in SQLite (modernc.org/sqlite).
package server
