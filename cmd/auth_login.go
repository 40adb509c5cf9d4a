package cmd

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// Login-specific flags
var (
	loginForce bool
)

// authLoginCmd represents the auth login command
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate to the AppForge portal",
	Long: `Authenticate to the AppForge portal using the OAuth device flow.

This command opens a browser for approval and polls the portal until the
login is approved, denied, or times out. The resulting session is cached
locally and reused by the MCP server.

Examples:
  portalmcp auth login                 # Login if no valid session exists
  portalmcp auth login --force         # Discard the session and login again`,
	RunE: runAuthLogin,
}

func init() {
	authLoginCmd.Flags().BoolVar(&loginForce, "force", false, "Discard any cached session and run the device flow again")
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime(authConfigPath)
	if err != nil {
		return err
	}

	if loginForce {
		if err := rt.store.Clear(); err != nil {
			return err
		}
	} else if session := rt.store.Load(); session != nil {
		authPrint("Already logged in as %s (session expires %s).\n",
			session.User.Email, session.ExpiresAt.Format(time.RFC822))
		authPrintln("Use --force to login again.")
		return nil
	}

	authPrint("Logging in to %s\n", rt.cfg.PortalURL)

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Waiting for approval in the browser..."
	if !authQuiet {
		s.Start()
	}
	session, err := rt.authenticator.Authenticate(cmd.Context())
	s.Stop()

	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	authPrint("Logged in as %s (session expires %s).\n",
		session.User.Name(), session.ExpiresAt.Format(time.RFC822))
	return nil
}
