package schemas

import (
	"encoding/json"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestAllSchemaFiles_ValidJSONSchema(t *testing.T) {
	files, err := fs.Glob(FS, "*.schema.json")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{MatchRequestFile, MatchResponseFile}, files)

	for _, name := range files {
		t.Run(name, func(t *testing.T) {
			data, err := Load(name)
			require.NoError(t, err)

			var v map[string]any
			require.NoError(t, json.Unmarshal(data, &v), "schema file should be valid JSON")
			assert.Equal(t, "http://json-schema.org/draft-07/schema#", v["$schema"])

			_, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
			assert.NoError(t, err, "schema should compile")
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load("nope.schema.json")
	assert.Error(t, err)
}
