package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jcdickinson/uiuadoc/internal/cas"
	"github.com/jcdickinson/uiuadoc/internal/config"
	"github.com/jcdickinson/uiuadoc/internal/db"
	"github.com/jcdickinson/uiuadoc/internal/mcp"
	"github.com/jcdickinson/uiuadoc/internal/preview"
	"github.com/jcdickinson/uiuadoc/internal/search"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	debug  bool
	libDir string
)

var rootCmd = &cobra.Command{
	Use:              "uiuadoc",
	Short:            "Static documentation sites for Uiua libraries",
	Version:          version,
	PersistentPreRun: setupLogging,
	Run:              runBuild,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose log output")
	rootCmd.PersistentFlags().StringVarP(&libDir, "dir", "C", ".", "library directory")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(clearCacheCmd)
}

func setupLogging(cmd *cobra.Command, args []string) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func loadConfig() *config.Config {
	dir, err := filepath.Abs(libDir)
	if err != nil {
		log.Fatalf("resolving library directory: %v", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func openDB() *db.DB {
	database, err := db.New(config.DBPath())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	return database
}

// connectBackend answers index queries through a running preview server,
// which holds the database, and opens the index directly otherwise. The
// returned function releases the backend.
func connectBackend(cfg *config.Config) (mcp.Backend, func()) {
	client := preview.NewClient(cfg.Serve.Addr)
	if client.IsAvailable(context.Background()) {
		slog.Debug("using preview server", "addr", cfg.Serve.Addr)
		return client, func() {}
	}

	database := openDB()
	return mcp.LocalBackend(search.NewSearcher(database, cas.Default())), func() { database.Close() }
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the documentation site and rebuild it when the assembly changes",
	Example: `  uiuadoc serve
  uiuadoc serve --addr :9000 --watch=false`,
	Run: runServe,
}

var (
	serveAddr  string
	serveWatch bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from serve.addr)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", true, "rebuild when the assembly dump changes")
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if serveAddr != "" {
		cfg.Serve.Addr = serveAddr
	}
	if cmd.Flags().Changed("watch") {
		cfg.Serve.Watch = serveWatch
	}

	srv := preview.NewServer(cfg, openDB(), cas.Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	if err := waitForSignal(errCh); err != nil {
		log.Fatalf("server error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Warn("shutdown incomplete", "error", err)
	}
}

func waitForSignal(errCh chan error) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		log.Printf("received signal: %s", sig)
		return nil
	case err := <-errCh:
		return err
	}
}
