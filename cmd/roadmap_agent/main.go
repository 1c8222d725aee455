// Package main provides the entry point for the upskilling roadmap API server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "roadmap_agent",
	Short: "Job upskilling roadmap service",
	Long: "roadmap_agent extracts the skills a job description asks for, enriches them with company insights, " +
		"and turns the candidate's skill gap into a three-stage learning roadmap.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Optional YAML or JSON config file (environment overrides it)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
