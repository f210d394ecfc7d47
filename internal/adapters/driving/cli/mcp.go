package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/asdzza/RACG-Defense/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so coding assistants can check
the code they generate.

Tools: validate_imports, check_code, repair_code.
Resources: racg://runs/recent, racg://runs/{runId}.

By default the server communicates over stdio. Use --port to serve
streamable HTTP instead.

Examples:
  # Stdio mode (default)
  racg mcp serve

  # HTTP mode on localhost (MCP Inspector)
  racg mcp serve --port 8080

  # HTTP mode reachable from other hosts
  racg mcp serve --port 8080 --host 0.0.0.0

Client configuration:
  {
    "mcpServers": {
      "racg": {
        "command": "/path/to/racg",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().String("host", "127.0.0.1", "HTTP bind address, used with --port")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, _ := cmd.Flags().GetInt("port")    //nolint:errcheck // flag is registered in init
	host, _ := cmd.Flags().GetString("host") //nolint:errcheck // flag is registered in init
	if port < 0 || port > 65535 {
		return fmt.Errorf("invalid port %d", port)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Validator: validatorService,
		Compiler:  compileService,
		Repair:    repairService,
		History:   historyService,
	})
	if err != nil {
		return err
	}

	var addr string
	if port > 0 {
		addr = net.JoinHostPort(host, strconv.Itoa(port))
		cmd.PrintErrf("MCP server listening on http://%s\n", addr)
	}
	return server.Serve(cmd.Context(), addr)
}
