package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/ojt-matcher/internal/schemas"
	"github.com/jonathan/ojt-matcher/internal/types"
	rootschemas "github.com/jonathan/ojt-matcher/schemas"
)

// loadStudent reads and validates a student profile fixture.
func loadStudent(path string) (*types.StudentProfile, error) {
	data, err := schemas.ValidateFile(rootschemas.StudentProfile, path)
	if err != nil {
		return nil, err
	}
	var student types.StudentProfile
	if err := json.Unmarshal(data, &student); err != nil {
		return nil, fmt.Errorf("failed to unmarshal student profile JSON: %w", err)
	}
	return &student, nil
}

// loadInternship reads and validates a single listing fixture.
func loadInternship(path string) (*types.Internship, error) {
	data, err := schemas.ValidateFile(rootschemas.Internship, path)
	if err != nil {
		return nil, err
	}
	var internship types.Internship
	if err := json.Unmarshal(data, &internship); err != nil {
		return nil, fmt.Errorf("failed to unmarshal internship JSON: %w", err)
	}
	return &internship, nil
}

// loadInternships reads and validates a fixture holding an array of listings.
func loadInternships(path string) ([]*types.Internship, error) {
	data, err := schemas.ValidateFile(rootschemas.InternshipsList, path)
	if err != nil {
		return nil, err
	}
	var listings []*types.Internship
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal internships JSON: %w", err)
	}
	return listings, nil
}

// writeJSON writes v to path, creating the parent directory when needed.
func writeJSON(path string, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
