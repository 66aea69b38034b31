// Package slog wraps wikiscrape services with structured logging.
package slog
