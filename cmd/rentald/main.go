/*
main.go - Application entry point

PURPOSE:
  CLI for the rental billing engine. Three commands:

    rentald serve              Run the HTTP API server
    rentald export [file]      Write a snapshot of all collections
    rentald import <file>      Replace all collections from a snapshot

CONFIGURATION:
  Flags override environment, environment overrides defaults. A .env
  file in the working directory is loaded if present.

    --db    / RENTAL_DB    SQLite database path (default: rental.db,
                           ":memory:" for in-memory)
    --port  / RENTAL_PORT  HTTP server port (default: 8080)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM the server stops accepting connections, waits up to
  30s for active requests, then closes the database.
*/
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/warp/rental-engine/api"
	"github.com/warp/rental-engine/snapshot"
	"github.com/warp/rental-engine/store/sqlite"
)

func main() {
	_ = godotenv.Load()

	var dbPath string

	rootCmd := &cobra.Command{
		Use:   "rentald",
		Short: "Rental billing engine",
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", envOr("RENTAL_DB", "rental.db"),
		`SQLite database path (":memory:" for in-memory)`)

	rootCmd.AddCommand(
		serveCmd(&dbPath),
		exportCmd(&dbPath),
		importCmd(&dbPath),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd(dbPath *string) *cobra.Command {
	port := envOrInt("RENTAL_PORT", 8080)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := sqlite.New(*dbPath)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer store.Close()

			router := api.NewRouter(api.NewHandler(store))

			server := &http.Server{
				Addr:         fmt.Sprintf(":%d", port),
				Handler:      router,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				log.Printf("Server starting on http://localhost:%d", port)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errc <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errc:
				return err
			case <-quit:
			}

			log.Println("Shutting down server...")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			log.Println("Server stopped")
			return nil
		},
	}
	cmd.Flags().IntVar(&port, "port", port, "HTTP server port")
	return cmd
}

func exportCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write a snapshot of all collections (stdout if no file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := sqlite.New(*dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer store.Close()

			data, err := snapshot.Export(cmd.Context(), store)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			return os.WriteFile(args[0], data, 0o644)
		},
	}
}

func importCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all collections from a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read snapshot: %w", err)
			}

			store, err := sqlite.New(*dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer store.Close()

			if err := snapshot.Import(cmd.Context(), store, data); err != nil {
				return err
			}
			log.Printf("Imported snapshot from %s", args[0])
			return nil
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
