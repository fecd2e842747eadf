package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/jcdickinson/uiuadoc/internal/rpc"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed bindings",
	Example: `  uiuadoc search Area
  uiuadoc search --library geo "bounding box"
  uiuadoc search --limit 5 parse`,
	Args: cobra.ExactArgs(1),
	Run:  runSearch,
}

var (
	searchLibraries []string
	searchLimit     int
)

func init() {
	searchCmd.Flags().StringSliceVar(&searchLibraries, "library", nil, "filter to specific libraries (repeatable)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "max results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	backend, release := connectBackend(loadConfig())
	defer release()

	resp, err := backend.Search(context.Background(), rpc.SearchRequest{
		Query:     args[0],
		Libraries: searchLibraries,
		Limit:     searchLimit,
	})
	if err != nil {
		release()
		log.Fatalf("search failed: %v", err)
	}

	if len(resp.Results) == 0 {
		fmt.Println("no results")
		return
	}

	for i, r := range resp.Results {
		sig := ""
		if r.Signature != "" {
			sig = " " + r.Signature
		}
		fmt.Printf("%d. [%.2f] %s%s (%s) %s\n", i+1, r.Score, r.Path, sig, r.Kind, r.URI)
		if r.Snippet != "" {
			fmt.Printf("   %s\n", r.Snippet)
		}
	}
}
