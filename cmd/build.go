package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jcdickinson/uiuadoc/internal/cas"
	"github.com/jcdickinson/uiuadoc/internal/generate"
	"github.com/jcdickinson/uiuadoc/internal/preview"
	"github.com/jcdickinson/uiuadoc/internal/rpc"
	"github.com/jcdickinson/uiuadoc/internal/search"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the documentation site of a library",
	Long: `Generate index.html, style.css and script.js for the library's main file
from its assembly dump, and index its bindings for search.`,
	Example: `  uiuadoc build
  uiuadoc build -C path/to/lib --no-index`,
	Run: runBuild,
}

var buildNoIndex bool

func init() {
	buildCmd.Flags().BoolVar(&buildNoIndex, "no-index", false, "skip updating the search index")
}

func runBuild(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	ctx := context.Background()

	var result *rpc.BuildResult
	client := preview.NewClient(cfg.Serve.Addr)
	switch {
	case buildNoIndex:
		r, err := generate.NewBuilder(cfg, nil).Build(ctx)
		if err != nil {
			log.Fatalf("build failed: %v", err)
		}
		result = r
	case client.IsAvailable(ctx):
		// The preview server owns the index; let it rebuild.
		r, err := client.Rebuild(ctx)
		if err != nil {
			log.Fatalf("build failed: %v", err)
		}
		result = r
	default:
		database := openDB()
		defer database.Close()
		r, err := generate.NewBuilder(cfg, search.NewIndex(database, cas.Default())).Build(ctx)
		if err != nil {
			database.Close()
			log.Fatalf("build failed: %v", err)
		}
		result = r
	}

	fmt.Printf("  %s: %d files, %d items indexed in %s\n", result.Library, result.Files, result.Items, result.Duration)
	fmt.Printf("  wrote %s\n", result.Output)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show indexed libraries",
	Run:   runStatus,
}

var statusJSON bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	var resp *rpc.StatusResponse
	client := preview.NewClient(cfg.Serve.Addr)
	if client.IsAvailable(context.Background()) {
		r, err := client.Status(context.Background())
		if err != nil {
			log.Fatalf("status failed: %v", err)
		}
		resp = r
	} else {
		database := openDB()
		defer database.Close()
		libs, err := database.ListLibraries()
		if err != nil {
			database.Close()
			log.Fatalf("status failed: %v", err)
		}
		resp = &rpc.StatusResponse{}
		for _, l := range libs {
			ls := rpc.LibraryStatus{Name: l.Name, Dir: l.Dir}
			ls.Items, _ = database.CountItems(l.ID)
			if l.BuiltAt != nil {
				ls.BuiltAt = l.BuiltAt.Format("2006-01-02 15:04:05")
			}
			resp.Libraries = append(resp.Libraries, ls)
		}
	}

	if statusJSON {
		out, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(out))
		return
	}

	if len(resp.Libraries) == 0 {
		fmt.Println("no libraries indexed")
		return
	}
	for _, l := range resp.Libraries {
		fmt.Printf("  %s (%d items) %s\n", l.Name, l.Items, l.Dir)
	}
	if resp.LastBuild != nil && resp.LastBuild.Error != "" {
		fmt.Printf("  last build failed: %s\n", resp.LastBuild.Error)
	}
}
