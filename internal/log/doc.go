// Package log provides slog helpers for newsbrief.
//
// The handler in this package redacts model-service credentials before a
// record reaches the underlying handler. API keys are loaded from the
// environment and would otherwise show up in debug output of HTTP errors.
package log
