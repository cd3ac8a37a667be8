// Package config loads, normalizes, and validates trackscribe configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TRACKSCRIBE_SOURCE_URL. The Config type centralizes every knob the CLI
// needs, allowing artifact directories and external tool settings to be
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
