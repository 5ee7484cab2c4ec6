// Package profileapi is the HTTP client for the profile service.
//
// Client implements profile.Store and profile.SessionManager:
//
//	GET  /api/profile          -> Load
//	PUT  /api/profile          -> Update
//	POST /api/session/signout  -> SignOut
//
// Every request carries "Authorization: Bearer <token>". Non-2xx answers become
// *APIError; a 401 also matches ErrUnauthorized, and a 422 with a message is
// wrapped in *profile.SaveError so the message reaches the user unchanged.
//
// The wire types in types.go are shared with package server.
package profileapi
