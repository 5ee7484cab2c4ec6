// Package config loads playercard's TOML configuration.
//
// # Resolution Order
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/playercard/config.toml
//  3. If the file doesn't exist, start from Default()
//  4. Empty or missing fields keep their defaults
//  5. PLAYERCARD_* environment variables win over the file
//
// # TOML Format
//
//	api_url = "127.0.0.1:7610"
//	token = "dev-token"
//	default_avatar = "C1"
//	log_file = "~/.local/state/playercard/playercard.log"
//	log_level = "info"
//	poll_seconds = 30
//	request_timeout_seconds = 5
//
//	[[avatars]]
//	id = "C1"
//	label = "Trader"
//
//	[server]
//	listen = "127.0.0.1:7610"
//	database = "~/.local/share/playercard/profiles.db"
//	rate_limit_per_minute = 120
//
//	[[server.accounts]]
//	token = "dev-token"
//	email = "player@example.com"
//
// Supplying any [[avatars]] replaces the built-in catalog; default_avatar then
// falls back to the first entry. Load fails when the catalog is empty, has
// duplicate ids, or names an unknown default.
//
// # Environment
//
//   - PLAYERCARD_API_URL, PLAYERCARD_TOKEN
//   - PLAYERCARD_LOG_FILE, PLAYERCARD_LOG_LEVEL
//   - PLAYERCARD_LISTEN, PLAYERCARD_DATABASE
package config
