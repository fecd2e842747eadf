package cmd

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/jcdickinson/uiuadoc/internal/docs"
	"github.com/jcdickinson/uiuadoc/internal/generate"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the extracted documentation model as JSON",
	Example: `  uiuadoc dump
  uiuadoc dump --main | jq '.items[].type'`,
	Args: cobra.NoArgs,
	Run:  runDump,
}

var dumpMainOnly bool

func init() {
	dumpCmd.Flags().BoolVar(&dumpMainOnly, "main", false, "only print the main file")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	builder := generate.NewBuilder(cfg, nil)

	d, err := builder.Load()
	if err != nil {
		log.Fatalf("failed to load assembly: %v", err)
	}
	files, err := builder.Files(context.Background(), d)
	if err != nil {
		log.Fatalf("extraction failed: %v", err)
	}

	var out any = files
	if dumpMainOnly {
		mainFile, ok := generate.Main(files)
		if !ok {
			log.Fatalf("assembly has no main file")
		}
		out = mainFile
	} else if files == nil {
		out = []*docs.FileContent{}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("writing JSON: %v", err)
	}
}
