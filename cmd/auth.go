package cmd

import (
	"fmt"
	"os"

	"portalmcp/internal/config"
	"portalmcp/pkg/logging"

	"github.com/spf13/cobra"
)

// Common flags for auth commands
var (
	authConfigPath string
	authQuiet      bool
)

// authCmd represents the auth command group
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication to the AppForge portal",
	Long: `Manage authentication to the AppForge portal.

The auth command group provides subcommands to login, logout, and check
the status of the cached portal session used by the MCP server.

Examples:
  portalmcp auth login                 # Run the device-flow login
  portalmcp auth status                # Show session status
  portalmcp auth logout                # Clear the cached session`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.LevelWarn, os.Stderr)
	},
}

// authLogoutCmd represents the auth logout command
var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the cached portal session",
	Long: `Remove the cached session file.

The next tool invocation or 'portalmcp auth login' will run the device
flow again. Logging out when no session exists is not an error.`,
	RunE: runAuthLogout,
}

// authPrint prints output only if the --quiet flag is not set.
func authPrint(format string, args ...interface{}) {
	if !authQuiet {
		fmt.Printf(format, args...)
	}
}

// authPrintln prints a line only if the --quiet flag is not set.
func authPrintln(a ...interface{}) {
	if !authQuiet {
		fmt.Println(a...)
	}
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)

	authCmd.PersistentFlags().StringVar(&authConfigPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	authCmd.PersistentFlags().BoolVarP(&authQuiet, "quiet", "q", false, "Suppress non-essential output")
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime(authConfigPath)
	if err != nil {
		return err
	}

	hadSession := rt.store.IsAuthenticated()
	if err := rt.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	if hadSession {
		authPrintln("Logged out.")
	} else {
		authPrintln("No session to clear.")
	}
	return nil
}
