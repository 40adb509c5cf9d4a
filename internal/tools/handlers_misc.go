package tools

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mark3labs/mcp-go/mcp"
)

func (m *MCPServer) handleWhoami(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	session := m.store.Load()
	if session == nil {
		return dataResult(map[string]interface{}{
			"authenticated": false,
			"environment":   m.cfg.Environment,
			"portalUrl":     m.cfg.PortalURL,
		}), nil
	}

	return dataResult(map[string]interface{}{
		"authenticated": true,
		"user":          session.User,
		"expiresAt":     session.ExpiresAt.Format(time.RFC3339),
		"environment":   m.cfg.Environment,
		"portalUrl":     m.cfg.PortalURL,
	}), nil
}

// handleDecodeToken decodes a JWT without verifying its signature. This is
// a display aid, never an authenticity check.
func (m *MCPServer) handleDecodeToken(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("token")
	if err != nil {
		return errorResult("invalid_arguments", "token argument is required"), nil
	}

	claims := jwt.MapClaims{}
	token, _, err := jwt.NewParser().ParseUnverified(raw, claims)
	if err != nil {
		return errorResult("invalid_token", "could not decode token: "+err.Error()), nil
	}

	data := map[string]interface{}{
		"header":            token.Header,
		"claims":            claims,
		"signatureVerified": false,
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		data["expiresAt"] = exp.Time.Format(time.RFC3339)
		data["expired"] = exp.Time.Before(time.Now())
	}

	return dataResult(data), nil
}

func (m *MCPServer) handleGetCodeSample(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	language, err := request.RequireString("language")
	if err != nil {
		return errorResult("invalid_arguments", "language argument is required"), nil
	}

	clientID := request.GetString("client_id", "YOUR_CLIENT_ID")

	sample, err := renderCodeSample(language, sampleParams{
		PortalURL: m.cfg.PortalURL,
		ClientID:  clientID,
	})
	if err != nil {
		return errorResult("invalid_arguments", err.Error()), nil
	}

	return dataResult(map[string]string{
		"language": language,
		"code":     sample,
	}), nil
}
