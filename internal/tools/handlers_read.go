package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (m *MCPServer) handleListOrganizations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	orgs, err := m.portal.ListOrganizations(ctx)
	if err != nil {
		return errorFrom(err), nil
	}
	return dataResult(orgs), nil
}

func (m *MCPServer) handleListApplications(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	orgID, err := request.RequireString("organization_id")
	if err != nil {
		return errorResult("invalid_arguments", "organization_id argument is required"), nil
	}

	apps, err := m.portal.ListApplications(ctx, orgID)
	if err != nil {
		return errorFrom(err), nil
	}
	return dataResult(apps), nil
}

func (m *MCPServer) handleGetApplication(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	appID, err := request.RequireString("application_id")
	if err != nil {
		return errorResult("invalid_arguments", "application_id argument is required"), nil
	}

	app, err := m.portal.GetApplication(ctx, appID)
	if err != nil {
		return errorFrom(err), nil
	}
	return dataResult(app), nil
}
