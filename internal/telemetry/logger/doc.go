// Package logger provides structured logging for the Plume client.
//
// It wraps the standard library log/slog to provide structured JSON or
// text logging with automatic credential redaction.
//
// Features:
//
//   - JSON structured logging (default), text for interactive use
//   - Automatic redaction of bearer tokens, passwords and other secrets
//   - Context-aware logging with request ID propagation
//   - Dynamic log level adjustment
//
// A session token must never reach a log sink in the clear; the redaction
// pass runs on every attribute, including nested groups.
package logger
