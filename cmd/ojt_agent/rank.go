package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/ojt-matcher/internal/apperrors"
	"github.com/jonathan/ojt-matcher/internal/matching"
	"github.com/jonathan/ojt-matcher/internal/observability"
	"github.com/jonathan/ojt-matcher/internal/types"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank internship listings for a student",
	Long:  "Ranks every active listing the student has not applied to, best match first, and prints one page of candidates or writes it as JSON.",
	RunE:  runRank,
}

var (
	rankStudent     string
	rankInternships string
	rankApplied     []string
	rankPage        int
	rankPageSize    int
	rankOutput      string
)

func init() {
	rankCmd.Flags().StringVarP(&rankStudent, "student", "s", "", "Path to student profile JSON file (required)")
	rankCmd.Flags().StringVarP(&rankInternships, "internships", "i", "", "Path to internships JSON array file (required)")
	rankCmd.Flags().StringSliceVar(&rankApplied, "applied", nil, "Comma-separated internship IDs the student already applied to")
	rankCmd.Flags().IntVarP(&rankPage, "page", "p", 1, "Page number")
	rankCmd.Flags().IntVar(&rankPageSize, "page-size", matching.DefaultPageSize, "Candidates per page")
	rankCmd.Flags().StringVarP(&rankOutput, "out", "o", "", "Write the page as JSON to this file instead of printing it")

	if err := rankCmd.MarkFlagRequired("student"); err != nil {
		panic(fmt.Sprintf("failed to mark student flag as required: %v", err))
	}
	if err := rankCmd.MarkFlagRequired("internships"); err != nil {
		panic(fmt.Sprintf("failed to mark internships flag as required: %v", err))
	}

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	applied, err := parseApplied(rankApplied)
	if err != nil {
		return err
	}

	var (
		student  *types.StudentProfile
		listings []*types.Internship
	)
	var g errgroup.Group
	g.Go(func() (err error) {
		student, err = loadStudent(rankStudent)
		return err
	})
	g.Go(func() (err error) {
		listings, err = loadInternships(rankInternships)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if !student.IsCompleteForMatching() {
		return apperrors.Denied(apperrors.ReasonProfileIncomplete)
	}

	page := matching.Paginate(matching.Rank(student, listings, applied), rankPage, rankPageSize)

	if rankOutput != "" {
		if err := writeJSON(rankOutput, page); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote page %d of %d (%d candidates) to %s\n",
			page.Number, page.TotalPages, page.TotalItems, rankOutput)
		return nil
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintCandidates(page)
	return nil
}

func parseApplied(ids []string) (map[uuid.UUID]bool, error) {
	applied := make(map[uuid.UUID]bool, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid --applied internship ID %q: %w", raw, err)
		}
		applied[id] = true
	}
	return applied, nil
}
