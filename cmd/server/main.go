package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is overridden by ldflags at build time
	Version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "jira-mcp",
	Short: "MCP server for Jira",
	Long: `jira-mcp exposes a Jira site as MCP tools: issues, comments, transitions,
links and the Epic -> Story -> Task hierarchy, with automatic Story status
updates from the status of linked Tasks.

Run "jira-mcp setup" once to register the server with Claude Desktop or Cursor.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "jira-mcp version %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, setupCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
