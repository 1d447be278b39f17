// Package logging configures structured slog output with console and JSON
// handlers and the shared attribute vocabulary used across components.
package logging
