// Package config loads, normalizes, and validates the TOML configuration
// that drives the CLI and the document pipeline.
package config
