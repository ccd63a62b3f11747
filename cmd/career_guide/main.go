// Package main provides the entry point for the career-guide terminal client.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "career_guide",
	Short: "Career guidance terminal client",
	Long: `career_guide talks to the career-guidance backend: take the career quiz, browse ranked
career recommendations, print a career report, leave feedback, and manage the quiz as an admin.

Configuration is read from --config (JSON or YAML) and CAREER_GUIDE_* environment variables.
Command-line flags override both.`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
