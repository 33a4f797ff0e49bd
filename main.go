package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "levelup",
	Short: "Sync and notification engine for the LevelUp progression service",
	Long: `levelup keeps a local session with the LevelUp progression service,
polls the dashboard in the background and serves the resulting view state
and user actions on a local HTTP API for a renderer to consume.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default .env when present)")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
