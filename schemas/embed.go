// Package schemas embeds the JSON Schemas for CLI fixture files.
package schemas

import "embed"

// Schema file names.
const (
	StudentProfile  = "student_profile.schema.json"
	Internship      = "internship.schema.json"
	InternshipsList = "internships.schema.json"
	Seed            = "seed.schema.json"
)

//go:embed *.schema.json
var FS embed.FS
