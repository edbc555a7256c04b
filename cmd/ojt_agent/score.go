package main

import (
	"fmt"

	"github.com/jonathan/ojt-matcher/internal/matching"
	"github.com/jonathan/ojt-matcher/internal/observability"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one internship listing for a student",
	Long:  "Computes the compatibility score between a student profile and one internship listing, both read from JSON files validated against the embedded schemas.",
	RunE:  runScore,
}

var (
	scoreStudent    string
	scoreInternship string
	scoreStrategy   string
	scoreVerbose    bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreStudent, "student", "s", "", "Path to student profile JSON file (required)")
	scoreCmd.Flags().StringVarP(&scoreInternship, "internship", "i", "", "Path to internship JSON file (required)")
	scoreCmd.Flags().StringVar(&scoreStrategy, "strategy", matching.StrategyListing, "Scoring strategy: listing or candidate")
	scoreCmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Print the full score breakdown")

	if err := scoreCmd.MarkFlagRequired("student"); err != nil {
		panic(fmt.Sprintf("failed to mark student flag as required: %v", err))
	}
	if err := scoreCmd.MarkFlagRequired("internship"); err != nil {
		panic(fmt.Sprintf("failed to mark internship flag as required: %v", err))
	}

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	strategy, ok := matching.StrategyByName(scoreStrategy)
	if !ok {
		return fmt.Errorf("unknown strategy %q: use %s or %s", scoreStrategy, matching.StrategyListing, matching.StrategyCandidate)
	}

	student, err := loadStudent(scoreStudent)
	if err != nil {
		return err
	}
	internship, err := loadInternship(scoreInternship)
	if err != nil {
		return err
	}

	b := strategy.Score(student, internship)
	if scoreVerbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintBreakdown(student, internship, b)
		return nil
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Score: %d (%s)\n", b.Score, strategy.Name())
	return nil
}
