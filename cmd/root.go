package cmd

import (
	"errors"
	"os"

	"portalmcp/internal/auth"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands. These follow common conventions so scripts
// can branch on the failure class.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates authentication is required but not available.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates the device-flow login failed.
	ExitCodeAuthFailed = 3
)

// rootCmd represents the base command for the portalmcp application.
var rootCmd = &cobra.Command{
	Use:   "portalmcp",
	Short: "Manage AppForge portal applications from your AI assistant",
	Long: `portalmcp exposes the AppForge developer portal's application
management API as MCP tools over stdio, so AI assistants can list
organizations, manage applications, and rotate credentials on your behalf.

Authentication uses the OAuth device flow: the first request opens a
browser for approval and the resulting session is cached locally.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. Called from the main
// package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application. It is called by
// main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "portalmcp version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if errors.Is(err, auth.ErrNotAuthenticated) {
		return ExitCodeAuthRequired
	}

	var authErr *auth.AuthenticationError
	if errors.As(err, &authErr) {
		return ExitCodeAuthFailed
	}

	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
