// Package tools exposes the AppForge portal management API as MCP tools.
//
// Every tool resolves to one of three JSON result shapes so the host can
// render them uniformly: {"success":true,"data":...} on success,
// {"success":false,"error":{"code","message"}} on failure, and
// {"success":false,"requiresConfirmation":true,"confirmationPhrase","warning"}
// when a gated mutation needs the caller to echo a confirmation phrase.
//
// Destructive operations (credential rotation, redirect URI changes,
// application deletion) are gated behind fixed confirmation phrases; the
// gate is a pure decision function in confirm.go and runs before any
// network call.
package tools
