// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/ojt-matcher/internal/matching"
	"github.com/jonathan/ojt-matcher/internal/progress"
	"github.com/jonathan/ojt-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintBreakdown outputs a score and the components it was built from.
func (p *Printer) PrintBreakdown(student *types.StudentProfile, internship *types.Internship, b matching.Breakdown) {
	if student == nil || internship == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Student:   %s\n", strings.TrimSpace(student.FullName()))
	fmt.Fprintf(&sb, "Listing:   %s @ %s\n", internship.Title, internship.Company.Name)
	fmt.Fprintf(&sb, "Strategy:  %s\n\n", b.Strategy)
	fmt.Fprintf(&sb, "Score:     %d / 100\n", b.Score)
	fmt.Fprintf(&sb, "  Skills:  %d%%\n", b.SkillPct())
	fmt.Fprintf(&sb, "  Course:  %d%%\n", b.CoursePct())
	fmt.Fprintf(&sb, "  Map:     %d%%", b.MapPct())
	if b.DistanceKm != nil {
		fmt.Fprintf(&sb, " (%.1f km)", *b.DistanceKm)
	}
	sb.WriteString("\n")
	if len(b.MatchedSkills) > 0 {
		fmt.Fprintf(&sb, "Matched:   %s\n", strings.Join(b.MatchedSkills, ", "))
	}

	p.printBox("MATCH SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidates outputs one page of a student's ranked candidates.
func (p *Printer) PrintCandidates(page matching.Page[matching.Candidate]) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Page %d of %d (%d listings)\n", page.Number, page.TotalPages, page.TotalItems)

	if len(page.Items) == 0 {
		sb.WriteString("\nNo matching internships.")
		p.printBox("RECOMMENDED INTERNSHIPS", sb.String())
		return
	}

	offset := (page.Number - 1) * page.Size
	for i, c := range page.Items {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "#%d  %s (%s)\n", offset+i+1, c.Internship.Title, c.Internship.Company.Name)
		fmt.Fprintf(&sb, "    Score: %d  skills %d%%  course %d%%  map %d%%\n", c.Score, c.SkillPct, c.CoursePct, c.MapPct)
		if c.DistanceKm != nil {
			fmt.Fprintf(&sb, "    Distance: %.1f km\n", *c.DistanceKm)
		}
		if c.Notes != "" {
			fmt.Fprintf(&sb, "    %s\n", c.Notes)
		}
	}

	p.printBox("RECOMMENDED INTERNSHIPS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProgress outputs a student's OJT progress summary.
func (p *Printer) PrintProgress(s progress.Summary) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Status:    %s\n", s.Status.Label())
	fmt.Fprintf(&sb, "Hours:     %d / %d (%d%%)\n", s.HoursCompleted, s.HoursRequired, s.Progress)
	fmt.Fprintf(&sb, "Remaining: %d\n", s.HoursRemaining)
	fmt.Fprintf(&sb, "Profile:   %d%%\n", s.ProfileCompletion)
	fmt.Fprintf(&sb, "Documents: %d%%\n", s.DocumentCompletion)

	missing := 0
	for _, d := range s.Documents {
		if d.Uploaded {
			continue
		}
		if missing < maxItemsToShow {
			fmt.Fprintf(&sb, "  • missing %s\n", d.Name)
		}
		missing++
	}
	if missing > maxItemsToShow {
		fmt.Fprintf(&sb, "  ... and %d more\n", missing-maxItemsToShow)
	}

	p.printBox("OJT PROGRESS", strings.TrimSuffix(sb.String(), "\n"))
}
