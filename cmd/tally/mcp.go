package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the labeling session as an MCP Server.
This lets AI agents drive the annotation flow through tools like
current_item, submit_label and skip_item.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		if !cmd.Flags().Changed("file") && len(args) > 0 {
			cfg.File = args[0]
		}

		transport, _ := cmd.Flags().GetString("transport")

		// Logs must stay off Stdout; stdio transport speaks JSON-RPC there.
		logger := logging.New(slog.LevelDebug)
		slog.SetDefault(logger)

		ctrl, err := tally.New(cfg.File,
			tally.WithStore(buildStore(cfg)),
			tally.WithSeed(cfg.Seed),
			tally.WithLogger(logger),
		)
		if err != nil {
			log.Fatalf("Error initializing tally: %v", err)
		}

		srv := mcp.NewServer(ctrl)

		switch transport {
		case "stdio":
			log.SetOutput(os.Stderr)
			slog.Info("Starting Tally MCP Server (Stdio)...")
			if err := srv.ServeStdio(); err != nil {
				slog.Error("MCP Server execution failed", "error", err)
				os.Exit(1)
			}
		case "sse":
			port, err := strconv.Atoi(cfg.Port)
			if err != nil {
				log.Fatalf("Invalid port %q: %v", cfg.Port, err)
			}
			slog.Info("Starting Tally MCP Server (SSE)", "port", port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil {
				if err != http.ErrServerClosed {
					slog.Error("MCP Server execution failed", "error", err)
					os.Exit(1)
				}
			}
			slog.Info("MCP Server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().StringP("port", "p", "8080", "Port to listen on (only for SSE)")
	mcpCmd.Flags().Int64("seed", 0, "Shuffle seed for the visitation order")
}
