// Package main provides the ojt_agent command: the OJT matching API server and
// offline scoring tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "ojt_agent",
	Short:         "OJT internship matching and lifecycle engine",
	Long:          "ojt_agent matches students to internship listings, tracks applications and weekly time records, and serves the REST API used by students, advisers and coordinators.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
