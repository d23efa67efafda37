package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/tally"
	httpAdapter "github.com/aretw0/tally/internal/adapters/http"
	"github.com/aretw0/tally/internal/logging"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the labeling HTTP server",
	Long: `Starts the labeling session behind a JSON API over HTTP, for driving the
annotation flow from a browser or another process. The server hosts a single
annotator session; Prometheus metrics are exposed on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		level := slog.LevelInfo
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			level = slog.LevelDebug
		}
		logger := logging.New(level)

		ctrl, err := tally.New(cfg.File,
			tally.WithStore(buildStore(cfg)),
			tally.WithSeed(cfg.Seed),
			tally.WithLogger(logger),
		)
		if err != nil {
			fmt.Printf("Error initializing tally: %v\n", err)
			os.Exit(1)
		}

		handler := httpAdapter.NewHandler(ctrl, logger)

		srv := &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Tally Server on %s\n", srv.Addr)
			fmt.Printf("Serving dataset: %s\n", cfg.File)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Tally Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Int64("seed", 0, "Shuffle seed for the visitation order")
}
