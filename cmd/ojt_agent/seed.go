package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/ojt-matcher/internal/db"
	"github.com/jonathan/ojt-matcher/internal/registry"
	"github.com/jonathan/ojt-matcher/internal/schemas"
	"github.com/jonathan/ojt-matcher/internal/types"
	rootschemas "github.com/jonathan/ojt-matcher/schemas"
	"github.com/spf13/cobra"
)

var (
	seedFile   string
	seedDryRun bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import courses, listings, advisers and students from a JSON file",
	Long: `Import reference data from a seed file. Courses are matched by code, checklist
entries by name and listings by ID, so a seed can be imported more than once.
With --dry-run the file is only validated.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Path to the seed JSON file")
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "Validate the file without touching the database")
	_ = seedCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(seedCmd)
}

// loadSeed reads and validates a seed file.
func loadSeed(path string) (*types.Seed, error) {
	data, err := schemas.ValidateFile(rootschemas.Seed, path)
	if err != nil {
		return nil, err
	}
	var seed types.Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed JSON: %w", err)
	}
	return &seed, nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	seed, err := loadSeed(seedFile)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if seedDryRun {
		_, _ = fmt.Fprintf(out, "Seed is valid: %d courses, %d documents, %d advisers, %d internships, %d students\n",
			len(seed.Courses), len(seed.Documents), len(seed.Advisers), len(seed.Internships), len(seed.Students))
		return nil
	}

	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}
	if err := requireDatabaseURL(cfg); err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	res, err := registry.NewService(database, nil, logger).Import(ctx, seed)
	if err != nil {
		return fmt.Errorf("seed import failed: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Imported %d courses, %d documents, %d advisers, %d internships, %d students\n",
		res.Courses, res.Documents, res.Advisers, res.Internships, res.Students)
	return nil
}
