package cmd

import (
	"context"
	"fmt"
	"os"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/itzcole03/sessionlens/internal/telemetry"
	"github.com/itzcole03/sessionlens/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server over stdio",
	Long: `Run the Model Context Protocol server over stdin/stdout so AI
assistants can query the session archive and index directly.

Tools: session-summary, list-sessions, agent-performance, lint-report.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServer(ctx context.Context) error {
	archive, err := GetStore()
	if err != nil {
		return fmt.Errorf("failed to initialize archive: %w", err)
	}
	defer func() { _ = archive.Close() }()

	index, err := GetIndex()
	if err != nil {
		return fmt.Errorf("failed to open session index: %w", err)
	}
	defer func() { _ = index.Close() }()

	mcp.ConfigureHooks(mcp.Hooks{
		GetVersion: func() string { return version },
		LogInfo: func(msg string) {
			if verbose {
				fmt.Fprintln(os.Stderr, "[mcp]", msg)
			}
		},
		LogError: func(err error) {
			fmt.Fprintln(os.Stderr, "[mcp] error:", err)
		},
		LogToolCall: func(name string, params interface{}) {
			if verbose {
				fmt.Fprintf(os.Stderr, "[mcp] tool %s %+v\n", name, params)
			}
		},
	})

	impl := &mcpsdk.Implementation{
		Name:    "sessionlens",
		Version: version,
	}
	server := mcpsdk.NewServer(impl, &mcpsdk.ServerOptions{})

	if err := mcp.RegisterTools(server, archive, index); err != nil {
		return fmt.Errorf("failed to register MCP tools: %w", err)
	}

	trackEvent(telemetry.NewEvent(telemetry.EventMCPServerStarted))

	if err := server.Run(ctx, mcpsdk.NewStdioTransport()); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
