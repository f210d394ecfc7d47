package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/asdzza/RACG-Defense/internal/adapters/driving/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve import validation, compile checks, repairs and run history
as a JSON API.

Endpoints:
  GET    /healthz
  POST   /v1/validate   {"language": "python", "code": "..."}
  POST   /v1/compile    {"language": "rust", "code": "..."}
  POST   /v1/repair     {"language": "js", "code": "...", "max_rounds": 3}
  GET    /v1/runs
  GET    /v1/runs/:id
  DELETE /v1/runs/:id
  GET    /metrics       Prometheus metrics`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", httpapi.DefaultAddr, "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if validatorService == nil {
		return errors.New("import validator not configured")
	}
	addr, _ := cmd.Flags().GetString("addr") //nolint:errcheck // flag is registered in init

	server, err := httpapi.NewServer(httpapi.Services{
		Validator: validatorService,
		Compiler:  compileService,
		Repair:    repairService,
		History:   historyService,
	}, instrumentation)
	if err != nil {
		return err
	}

	cmd.Printf("HTTP API listening on http://%s\n", addr)
	return server.ListenAndServe(cmd.Context(), addr)
}
