// Package schemas embeds the JSON Schemas for the offline match command's input and output.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

// Schema file names within FS.
const (
	MatchRequestFile  = "match_request.schema.json"
	MatchResponseFile = "match_response.schema.json"
)

// Load returns the contents of a schema embedded in FS.
func Load(name string) ([]byte, error) {
	return FS.ReadFile(name)
}
