package tools

import (
	"context"

	"portalmcp/internal/portal"

	"github.com/mark3labs/mcp-go/mcp"
)

func (m *MCPServer) handleCreateApplication(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	orgID, err := request.RequireString("organization_id")
	if err != nil {
		return errorResult("invalid_arguments", "organization_id argument is required"), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return errorResult("invalid_arguments", "name argument is required"), nil
	}
	environment, result := requireEnvironment(request)
	if result != nil {
		return result, nil
	}

	app, err := m.portal.CreateApplication(ctx, portal.CreateApplicationRequest{
		OrganizationID: orgID,
		Name:           name,
		Description:    request.GetString("description", ""),
		Environment:    environment,
		RedirectURIs:   stringSliceArg(request, "redirect_uris"),
	})
	if err != nil {
		return errorFrom(err), nil
	}
	return dataResult(app), nil
}

func (m *MCPServer) handleUpdateApplication(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	appID, err := request.RequireString("application_id")
	if err != nil {
		return errorResult("invalid_arguments", "application_id argument is required"), nil
	}

	var req portal.UpdateApplicationRequest
	if name := request.GetString("name", ""); name != "" {
		req.Name = &name
	}
	if description := request.GetString("description", ""); description != "" {
		req.Description = &description
	}
	if req.Name == nil && req.Description == nil {
		return errorResult("invalid_arguments", "provide at least one of name or description"), nil
	}

	app, err := m.portal.UpdateApplication(ctx, appID, req)
	if err != nil {
		return errorFrom(err), nil
	}
	return dataResult(app), nil
}

func (m *MCPServer) handleDeleteApplication(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	appID, err := request.RequireString("application_id")
	if err != nil {
		return errorResult("invalid_arguments", "application_id argument is required"), nil
	}
	environment, result := requireEnvironment(request)
	if result != nil {
		return result, nil
	}

	if confirmation := Confirm(OpDeleteApplication, environment, request.GetString("confirm", "")); confirmation != nil {
		return confirmationResult(confirmation), nil
	}

	if err := m.portal.DeleteApplication(ctx, appID); err != nil {
		return errorFrom(err), nil
	}
	return dataResult(map[string]interface{}{
		"deleted":       true,
		"applicationId": appID,
	}), nil
}

func (m *MCPServer) handleRotateCredentials(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	appID, err := request.RequireString("application_id")
	if err != nil {
		return errorResult("invalid_arguments", "application_id argument is required"), nil
	}
	environment, result := requireEnvironment(request)
	if result != nil {
		return result, nil
	}

	if confirmation := Confirm(OpRotateCredentials, environment, request.GetString("confirm", "")); confirmation != nil {
		return confirmationResult(confirmation), nil
	}

	creds, err := m.portal.RotateCredentials(ctx, appID)
	if err != nil {
		return errorFrom(err), nil
	}
	return dataResult(creds), nil
}

func (m *MCPServer) handleAddRedirectURI(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.handleRedirectURIChange(ctx, request, OpAddRedirectURI)
}

func (m *MCPServer) handleRemoveRedirectURI(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.handleRedirectURIChange(ctx, request, OpRemoveRedirectURI)
}

func (m *MCPServer) handleRedirectURIChange(ctx context.Context, request mcp.CallToolRequest, op Operation) (*mcp.CallToolResult, error) {
	appID, err := request.RequireString("application_id")
	if err != nil {
		return errorResult("invalid_arguments", "application_id argument is required"), nil
	}
	uri, err := request.RequireString("uri")
	if err != nil {
		return errorResult("invalid_arguments", "uri argument is required"), nil
	}
	environment, result := requireEnvironment(request)
	if result != nil {
		return result, nil
	}

	if confirmation := Confirm(op, environment, request.GetString("confirm", "")); confirmation != nil {
		return confirmationResult(confirmation), nil
	}

	var app *portal.Application
	if op == OpAddRedirectURI {
		app, err = m.portal.AddRedirectURI(ctx, appID, uri)
	} else {
		app, err = m.portal.RemoveRedirectURI(ctx, appID, uri)
	}
	if err != nil {
		return errorFrom(err), nil
	}
	return dataResult(app), nil
}

// requireEnvironment extracts and validates the environment argument. The
// second return value is non-nil when the handler should return early.
func requireEnvironment(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	environment, err := request.RequireString("environment")
	if err != nil {
		return "", errorResult("invalid_arguments", "environment argument is required")
	}
	if !portal.ValidEnvironment(environment) {
		return "", errorResult("invalid_arguments", "environment must be \"test\" or \"live\"")
	}
	return environment, nil
}

// stringSliceArg extracts an optional string-array argument.
func stringSliceArg(request mcp.CallToolRequest, key string) []string {
	raw, ok := request.GetArguments()[key]
	if !ok {
		return nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}

	var values []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			values = append(values, s)
		}
	}
	return values
}
