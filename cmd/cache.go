package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jcdickinson/uiuadoc/internal/cas"
	"github.com/jcdickinson/uiuadoc/internal/preview"
	"github.com/spf13/cobra"
)

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Drop the search index and stored binding documents",
	Run:   runClearCache,
}

func runClearCache(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if preview.NewClient(cfg.Serve.Addr).IsAvailable(context.Background()) {
		fmt.Println("preview server is running; stop it first")
		os.Exit(1)
	}

	database := openDB()
	err := database.Reset()
	database.Close()
	if err != nil {
		slog.Error("failed to reset index", "error", err)
		os.Exit(1)
	}

	if err := cas.Default().Clear(); err != nil {
		slog.Error("failed to clear document store", "error", err)
		os.Exit(1)
	}
	fmt.Println("index cleared")
}
