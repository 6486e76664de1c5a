// Package main is the quote-reader entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var profile string

var rootCmd = &cobra.Command{
	Use:   "quote-reader",
	Short: "Generate inspiring quotes and read them aloud",
	Long: `quote-reader serves a small web app that asks a language model for quotes
about a topic or by a person, falls back to a built-in catalog when the model
fails, and converts quotes to speech.

Without a subcommand it runs the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	defaultProfile := os.Getenv("APP_ENVIRONMENT")
	if defaultProfile == "" {
		defaultProfile = "local"
	}

	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", defaultProfile,
		"config profile, loads configs/<profile>.yaml")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
