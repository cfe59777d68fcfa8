package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskdesk/internal/infrastructure/config"
	inframcp "github.com/felixgeelhaar/taskdesk/internal/infrastructure/mcp"
	"github.com/felixgeelhaar/taskdesk/internal/infrastructure/wiring"
)

var (
	mcpTransport string
	mcpAddr      string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Taskdesk MCP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		transport := strings.ToLower(mcpTransport)
		switch transport {
		case "", "stdio", "http", "ws", "websocket":
		default:
			return fmt.Errorf("unsupported transport: %s", mcpTransport)
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		services, err := wiring.BuildAppServices(cfg, slog.Default())
		if err != nil {
			return err
		}
		if os.Getenv("TASKDESK_SKIP_MCP_START") == "true" {
			return nil
		}

		inframcp.Version = Version
		inframcp.BuildCommit = Commit
		inframcp.BuildDate = Date
		server := inframcp.NewServer(services.Assist)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		switch transport {
		case "http":
			return server.ServeHTTP(ctx, mcpAddr)
		case "ws", "websocket":
			return server.ServeWebSocket(ctx, mcpAddr)
		default:
			return server.ServeStdio(ctx)
		}
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "stdio", "Transport to use (stdio, http, ws)")
	mcpCmd.Flags().StringVar(&mcpAddr, "addr", ":8090", "Address for http/ws transports")
	RootCmd.AddCommand(mcpCmd)
}
