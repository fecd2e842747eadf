package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/jcdickinson/uiuadoc/internal/rpc"
	"github.com/jcdickinson/uiuadoc/internal/search"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <uadoc://library/path>",
	Short: "Read a documentation item by URI",
	Example: `  uiuadoc get uadoc://mylib/Add
  uiuadoc get mylib/Geo.Area`,
	Args: cobra.ExactArgs(1),
	Run:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) {
	library, path, err := search.ParseURI(args[0])
	if err != nil {
		log.Fatalf("%v", err)
	}

	backend, release := connectBackend(loadConfig())
	defer release()

	resp, err := backend.GetDoc(context.Background(), rpc.GetDocRequest{Library: library, Path: path})
	if err != nil {
		release()
		log.Fatalf("get doc failed: %v", err)
	}

	fmt.Print(resp.Markdown)
}
