package cmd

import (
	"os"

	"portalmcp/internal/auth"
	"portalmcp/internal/config"
	"portalmcp/internal/tools"
	"portalmcp/pkg/logging"

	"github.com/spf13/cobra"
)

// Serve-specific flags
var (
	serveConfigPath string
	serveDebug      bool
)

// serveCmd starts the MCP server on stdio. This is the command MCP hosts
// configure as the server executable.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve AppForge portal tools over MCP stdio",
	Long: `Start the MCP server on standard input and output.

MCP hosts (Claude Desktop, Cursor, and similar) launch this command and
speak the MCP protocol over the process pipes. All log output goes to
stderr since stdout carries the protocol stream.

Examples:
  portalmcp serve                      # Serve with the default config
  portalmcp serve --debug              # Serve with debug logging`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveConfigPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
}

func runServe(cmd *cobra.Command, args []string) error {
	level := logging.LevelInfo
	if serveDebug {
		level = logging.LevelDebug
	}
	// Stdout is the MCP transport, so logs must go to stderr.
	logging.Init(level, os.Stderr)

	rt, err := buildRuntime(serveConfigPath)
	if err != nil {
		return err
	}

	// Watch the session file so a login or logout performed by another
	// process (for example `portalmcp auth login` in a terminal) is picked
	// up without restarting the server.
	watcher, err := auth.StartSessionWatcher(rt.store)
	if err != nil {
		logging.Warn("Serve", "Session file watching unavailable: %v", err)
	} else {
		defer watcher.Close()
	}

	server := tools.NewMCPServer(rt.cfg, rt.store, rt.portal, GetVersion())
	return server.Start(cmd.Context())
}
