package tools

import (
	"context"
	"os"

	"portalmcp/internal/auth"
	"portalmcp/internal/config"
	"portalmcp/internal/portal"
	"portalmcp/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer exposes the AppForge portal management API as MCP tools for AI
// assistants, over stdio transport.
type MCPServer struct {
	cfg       config.Config
	store     *auth.SessionStore
	portal    *portal.Client
	mcpServer *server.MCPServer
}

// NewMCPServer creates the MCP server and registers all portal tools.
func NewMCPServer(cfg config.Config, store *auth.SessionStore, client *portal.Client, version string) *MCPServer {
	mcpServer := server.NewMCPServer(
		"portalmcp",
		version,
		server.WithToolCapabilities(false),
	)

	m := &MCPServer{
		cfg:       cfg,
		store:     store,
		portal:    client,
		mcpServer: mcpServer,
	}
	m.registerTools()

	return m
}

// Start serves MCP over stdio. It blocks until the client closes the
// connection or the context is cancelled.
func (m *MCPServer) Start(ctx context.Context) error {
	logging.Info("Tools", "Starting MCP server for portal %s (%s environment)", m.cfg.PortalURL, m.cfg.Environment)
	return server.NewStdioServer(m.mcpServer).Listen(ctx, os.Stdin, os.Stdout)
}

func (m *MCPServer) registerTools() {
	listOrganizationsTool := mcp.NewTool("list_organizations",
		mcp.WithDescription("List the organizations the authenticated user belongs to"),
	)
	m.mcpServer.AddTool(listOrganizationsTool, m.handleListOrganizations)

	listApplicationsTool := mcp.NewTool("list_applications",
		mcp.WithDescription("List the applications within an organization"),
		mcp.WithString("organization_id",
			mcp.Required(),
			mcp.Description("ID of the organization"),
		),
	)
	m.mcpServer.AddTool(listApplicationsTool, m.handleListApplications)

	getApplicationTool := mcp.NewTool("get_application",
		mcp.WithDescription("Get detailed information about an application, including its redirect URIs"),
		mcp.WithString("application_id",
			mcp.Required(),
			mcp.Description("ID of the application"),
		),
	)
	m.mcpServer.AddTool(getApplicationTool, m.handleGetApplication)

	createApplicationTool := mcp.NewTool("create_application",
		mcp.WithDescription("Register a new application in an organization"),
		mcp.WithString("organization_id",
			mcp.Required(),
			mcp.Description("ID of the organization the application belongs to"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Display name for the application"),
		),
		mcp.WithString("environment",
			mcp.Required(),
			mcp.Description("Application environment: test or live"),
		),
		mcp.WithString("description",
			mcp.Description("Optional description"),
		),
		mcp.WithArray("redirect_uris",
			mcp.Description("Initial OAuth redirect URIs"),
			mcp.Items(map[string]interface{}{"type": "string"}),
		),
	)
	m.mcpServer.AddTool(createApplicationTool, m.handleCreateApplication)

	updateApplicationTool := mcp.NewTool("update_application",
		mcp.WithDescription("Update an application's name or description"),
		mcp.WithString("application_id",
			mcp.Required(),
			mcp.Description("ID of the application"),
		),
		mcp.WithString("name",
			mcp.Description("New display name"),
		),
		mcp.WithString("description",
			mcp.Description("New description"),
		),
	)
	m.mcpServer.AddTool(updateApplicationTool, m.handleUpdateApplication)

	deleteApplicationTool := mcp.NewTool("delete_application",
		mcp.WithDescription("Permanently delete an application. Requires a confirmation phrase."),
		mcp.WithString("application_id",
			mcp.Required(),
			mcp.Description("ID of the application"),
		),
		mcp.WithString("environment",
			mcp.Required(),
			mcp.Description("Application environment: test or live"),
		),
		mcp.WithString("confirm",
			mcp.Description("Confirmation phrase echoed back from a previous confirmation request"),
		),
	)
	m.mcpServer.AddTool(deleteApplicationTool, m.handleDeleteApplication)

	rotateCredentialsTool := mcp.NewTool("rotate_credentials",
		mcp.WithDescription("Rotate an application's client secret. The old secret stops working immediately. Requires a confirmation phrase."),
		mcp.WithString("application_id",
			mcp.Required(),
			mcp.Description("ID of the application"),
		),
		mcp.WithString("environment",
			mcp.Required(),
			mcp.Description("Application environment: test or live"),
		),
		mcp.WithString("confirm",
			mcp.Description("Confirmation phrase echoed back from a previous confirmation request"),
		),
	)
	m.mcpServer.AddTool(rotateCredentialsTool, m.handleRotateCredentials)

	addRedirectURITool := mcp.NewTool("add_redirect_uri",
		mcp.WithDescription("Add an OAuth redirect URI to an application. Requires a confirmation phrase."),
		mcp.WithString("application_id",
			mcp.Required(),
			mcp.Description("ID of the application"),
		),
		mcp.WithString("environment",
			mcp.Required(),
			mcp.Description("Application environment: test or live"),
		),
		mcp.WithString("uri",
			mcp.Required(),
			mcp.Description("Redirect URI to add"),
		),
		mcp.WithString("confirm",
			mcp.Description("Confirmation phrase echoed back from a previous confirmation request"),
		),
	)
	m.mcpServer.AddTool(addRedirectURITool, m.handleAddRedirectURI)

	removeRedirectURITool := mcp.NewTool("remove_redirect_uri",
		mcp.WithDescription("Remove an OAuth redirect URI from an application. Requires a confirmation phrase."),
		mcp.WithString("application_id",
			mcp.Required(),
			mcp.Description("ID of the application"),
		),
		mcp.WithString("environment",
			mcp.Required(),
			mcp.Description("Application environment: test or live"),
		),
		mcp.WithString("uri",
			mcp.Required(),
			mcp.Description("Redirect URI to remove"),
		),
		mcp.WithString("confirm",
			mcp.Description("Confirmation phrase echoed back from a previous confirmation request"),
		),
	)
	m.mcpServer.AddTool(removeRedirectURITool, m.handleRemoveRedirectURI)

	whoamiTool := mcp.NewTool("whoami",
		mcp.WithDescription("Show the currently authenticated portal user and session expiry"),
	)
	m.mcpServer.AddTool(whoamiTool, m.handleWhoami)

	decodeTokenTool := mcp.NewTool("decode_token",
		mcp.WithDescription("Decode a JWT for inspection. The signature is NOT verified; output is for display only."),
		mcp.WithString("token",
			mcp.Required(),
			mcp.Description("The JWT to decode"),
		),
	)
	m.mcpServer.AddTool(decodeTokenTool, m.handleDecodeToken)

	getCodeSampleTool := mcp.NewTool("get_code_sample",
		mcp.WithDescription("Generate a code sample showing how an application authenticates against the portal"),
		mcp.WithString("language",
			mcp.Required(),
			mcp.Description("Sample language: node, python, go, or curl"),
		),
		mcp.WithString("client_id",
			mcp.Description("Application client ID to embed in the sample"),
		),
	)
	m.mcpServer.AddTool(getCodeSampleTool, m.handleGetCodeSample)
}
