package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-mcp/internal/tools"
	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultUserAgent  = "arxiv-mcp/0.1"
	defaultMaxResults = 50
	defaultMaxRetries = 3
	defaultAddr       = ":8643"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Serve starts the MCP server on the selected transport. stdio is the
default and speaks the protocol over stdin/stdout, so all logging goes
to stderr. http and sse listen on --addr.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("transport", "stdio", "transport: stdio, http, or sse")
	serveCmd.Flags().String("addr", defaultAddr, "listen address for http and sse transports")
	serveCmd.Flags().String("storage-root", "", "directory for downloaded papers (default ~/.arxiv-mcp/papers)")
	serveCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout for arXiv calls")
	serveCmd.Flags().String("log-level", "info", "log level: debug, info, warn, or error")

	viper.BindPFlag("server.transport", serveCmd.Flags().Lookup("transport"))
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("store.root", serveCmd.Flags().Lookup("storage-root"))
	viper.BindPFlag("arxiv.timeout", serveCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("log.level", serveCmd.Flags().Lookup("log-level"))

	viper.SetDefault("arxiv.max_results", defaultMaxResults)
	viper.SetDefault("arxiv.max_retries", defaultMaxRetries)

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	root := viper.GetString("store.root")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory for storage root: %w", err)
		}
		root = filepath.Join(home, ".arxiv-mcp", "papers")
	}

	cfg := types.Config{
		Arxiv: types.ArxivConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("arxiv.timeout"),
				UserAgent: defaultUserAgent,
			},
			MaxResults: viper.GetInt("arxiv.max_results"),
			MaxRetries: viper.GetInt("arxiv.max_retries"),
		},
		Store: types.StoreConfig{
			RootDir: root,
		},
		Server: types.ServerConfig{
			Transport: viper.GetString("server.transport"),
			Addr:      viper.GetString("server.addr"),
		},
	}

	logger := newLogger(viper.GetString("log.level"))

	srv, err := tools.New(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("starting arxiv-mcp",
		"version", version,
		"transport", cfg.Server.Transport,
		"storage_root", cfg.Store.RootDir,
	)
	return srv.Run(cfg.Server.Transport, cfg.Server.Addr)
}

// newLogger builds a text logger on stderr. stdout stays clean for the
// stdio transport.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
