package cmd

import (
	"log"

	"github.com/jcdickinson/uiuadoc/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server over stdio exposing the binding index",
	Run:   runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) {
	backend, release := connectBackend(loadConfig())
	defer release()

	if err := mcp.NewServer(backend, version).Run(); err != nil {
		release()
		log.Fatalf("mcp server error: %v", err)
	}
}
