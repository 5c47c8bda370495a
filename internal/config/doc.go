// Package config loads, normalizes, and validates animeta configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ANIMETA_CACHE_PATH. The Config type centralizes every knob the CLI and the
// JSON API need, so provider endpoints, request pacing, cache location and log
// routing are discovered in one pass.
package config
