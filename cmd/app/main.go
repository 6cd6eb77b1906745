package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "app",
	Short: "mediamgr content lifecycle and campaign scheduling service",
	Long: `mediamgr generates social media posts from a theme, moves them through
review (pending, approved, rejected, published) and expands campaigns
into bounded batches of posts.

Subcommands:
  serve      - run the HTTP API
  migrate    - create or update the posts table (mysql store)
  publisher  - publish approved posts when their schedule time is due`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, publisherCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
