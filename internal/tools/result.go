package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"portalmcp/internal/auth"
	"portalmcp/internal/portal"

	"github.com/mark3labs/mcp-go/mcp"
)

// Every tool resolves to one of three JSON payloads so the host can render
// them uniformly: a success envelope with data, a failure envelope with a
// structured error, or a confirmation request.

type successEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   toolError `json:"error"`
}

type toolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type confirmationEnvelope struct {
	Success bool `json:"success"`
	ConfirmationRequest
}

func marshalEnvelope(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":{"code":"internal","message":"failed to encode result: %v"}}`, err)
	}
	return string(data)
}

// dataResult wraps a successful payload.
func dataResult(data interface{}) *mcp.CallToolResult {
	return mcp.NewToolResultText(marshalEnvelope(successEnvelope{Success: true, Data: data}))
}

// errorResult wraps a structured failure. The result is flagged as an MCP
// error and still carries the uniform JSON envelope as its text.
func errorResult(code, message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(marshalEnvelope(errorEnvelope{Error: toolError{Code: code, Message: message}}))
}

// confirmationResult wraps a confirmation request. Not an error: the caller
// is expected to resubmit with the phrase.
func confirmationResult(req *ConfirmationRequest) *mcp.CallToolResult {
	return mcp.NewToolResultText(marshalEnvelope(confirmationEnvelope{ConfirmationRequest: *req}))
}

// errorFrom classifies an error from the portal or auth layers into the
// failure envelope.
func errorFrom(err error) *mcp.CallToolResult {
	if apiErr, ok := portal.AsAPIError(err); ok {
		code := apiErr.Code
		if code == "" {
			code = fmt.Sprintf("http_%d", apiErr.Status)
		}
		return errorResult(code, apiErr.Message)
	}

	var authErr *auth.AuthenticationError
	if errors.As(err, &authErr) {
		return errorResult(authErr.Code, authErr.Message)
	}

	if errors.Is(err, auth.ErrNotAuthenticated) {
		return errorResult("not_authenticated", "Not signed in to the portal. Run the login or invoke any portal tool to start it.")
	}

	return errorResult("internal", err.Error())
}
