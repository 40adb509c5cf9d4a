// Package logging provides structured logging for portalmcp, built on Go's
// standard slog package.
//
// All log entries carry a subsystem identifier ("Auth", "Portal", "Tools",
// "Config", "Bootstrap") so output can be filtered by component. Output is
// written to the writer passed to Init. For the stdio MCP server this must
// be stderr, because stdout carries the protocol stream.
//
// Token values and other credentials must never be logged. Security-relevant
// lifecycle events (session stored, session cleared, re-authentication) are
// logged as SECURITY_AUDIT events with non-sensitive metadata only.
package logging
