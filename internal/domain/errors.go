package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.
// Read/aggregation paths never surface errors to callers; they degrade to
// documented defaults. These sentinels cover the write and lookup paths.

var (
	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("username already registered")
	ErrEmptyName    = errors.New("username must not be empty")

	// Activity errors
	ErrUnknownTaskType = errors.New("unknown task type")

	// Completion errors — the only path allowed to fail outward
	ErrCompletionWrite = errors.New("completion marker write failed")

	// Schedule errors
	ErrBadDay = errors.New("day must be formatted YYYY-MM-DD")
)
