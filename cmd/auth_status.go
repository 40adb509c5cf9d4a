package cmd

import (
	"context"
	"errors"
	"time"

	"portalmcp/internal/auth"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// DefaultStatusCheckTimeout bounds the server-side session verification so
// a slow portal cannot hang the status command.
const DefaultStatusCheckTimeout = 10 * time.Second

// Status-specific flags
var (
	statusLocal bool
)

// authStatusCmd represents the auth status command
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Long: `Show the status of the cached portal session.

By default the session is also verified against the portal, which catches
tokens revoked server side before their local expiry passes. Use --local
to skip the network call and inspect only the cached session.

Examples:
  portalmcp auth status                # Show and verify session status
  portalmcp auth status --local        # Show cached session only`,
	RunE: runAuthStatus,
}

func init() {
	authStatusCmd.Flags().BoolVar(&statusLocal, "local", false, "Skip server-side verification of the session")
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime(authConfigPath)
	if err != nil {
		return err
	}

	authPrintln("AppForge Portal")
	authPrint("  Endpoint:    %s (%s)\n", rt.cfg.PortalURL, rt.cfg.Environment)

	session := rt.store.Load()
	if session == nil {
		authPrint("  Status:      %s\n", text.FgYellow.Sprint("Not authenticated"))
		authPrintln("\nTo authenticate, run:")
		authPrintln("  portalmcp auth login")
		return nil
	}

	if statusLocal {
		printSessionStatus(session, text.FgGreen.Sprint("Authenticated (not verified)"))
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), DefaultStatusCheckTimeout)
	defer cancel()

	if _, err := rt.authenticator.VerifyStoredSession(ctx); err != nil {
		return handleVerificationError(rt, session, err)
	}

	printSessionStatus(session, text.FgGreen.Sprint("Authenticated"))
	return nil
}

// handleVerificationError distinguishes a portal-rejected session from a
// portal that simply could not be reached.
func handleVerificationError(rt *runtime, session *auth.Session, err error) error {
	var authErr *auth.AuthenticationError
	if errors.As(err, &authErr) && authErr.Code == auth.CodeVerifyFailed && authErr.Err == nil {
		// The portal answered and rejected the token. Drop the session so
		// the next tool invocation triggers a fresh login.
		_ = rt.store.Clear()
		authPrint("  Status:      %s\n", text.FgYellow.Sprint("Session invalidated"))
		authPrintln("               Your session was revoked by the portal.")
		authPrintln("               Run: portalmcp auth login")
		return nil
	}

	// Network trouble. The cached session may still be fine.
	printSessionStatus(session, text.FgYellow.Sprint("Authenticated (verification unreachable)"))
	authPrint("               Could not reach the portal: %v\n", err)
	return nil
}

func printSessionStatus(session *auth.Session, status string) {
	authPrint("  Status:      %s\n", status)
	authPrint("  Identity:    %s\n", session.User.Email)
	authPrint("  Expires:     %s\n", formatExpiry(session.ExpiresAt))
}

// formatExpiry renders an expiry time with a human relative direction.
func formatExpiry(expiresAt time.Time) string {
	remaining := time.Until(expiresAt).Round(time.Minute)
	if remaining < 0 {
		return expiresAt.Format(time.RFC822) + text.FgRed.Sprint(" (expired)")
	}
	return expiresAt.Format(time.RFC822) + " (in " + remaining.String() + ")"
}
