package schemas

import (
	"encoding/json"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	names, err := fs.Glob(FS, "*.schema.json")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			data, err := FS.ReadFile(name)
			require.NoError(t, err)

			var doc map[string]any
			require.NoError(t, json.Unmarshal(data, &doc), "schema file should be valid JSON")
			assert.Equal(t, "http://json-schema.org/draft-07/schema#", doc["$schema"])

			id, _ := doc["$id"].(string)
			assert.True(t, strings.HasSuffix(id, "/"+name), "$id should end with the file name")
		})
	}
}

func TestNamedSchemasAreEmbedded(t *testing.T) {
	for _, name := range []string{StudentProfile, Internship, InternshipsList, Seed} {
		_, err := FS.ReadFile(name)
		assert.NoError(t, err, name)
	}
}
