// Package config loads the server configuration from the `server:` section
// of a YAML file.
//
// Config fields:
//   - HTTPPort                  — port for the exchange, /metrics and /ws/stats (default 8080)
//   - Pins.TTL                  — entry time-to-live (default 10m, hot-reloadable)
//   - Pins.ReapInterval         — background expiry sweep cadence (default 10s)
//   - Pins.KeyLength            — pin length (default 4)
//   - Pins.Alphabet             — pin symbol set (default 0-9A-Z)
//   - Pins.MaxPayloadBytes      — submission size ceiling (default 3000, hot-reloadable)
//   - Pins.MaxGenerateRetries   — unique-pin retry bound (default 8)
//   - Pins.Shards               — store shard count (default 16)
//   - Stats.Interval            — WebSocket stats broadcast interval (default 5s)
//
// Load(path) applies defaults before unmarshalling, then validates.
// Default() returns the built-in configuration for running without a file.
// Watch(ctx, path, onChange) hot-reloads the file via fsnotify: onChange
// fires only when a hot-reloadable limit changed, and edits to
// startup-only fields are logged as requiring a restart.
package config
