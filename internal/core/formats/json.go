package formats

import (
	"github.com/JonMunkholm/matrixdiff/internal/core"
)

func init() {
	core.RegisterFormat(core.FormatDefinition{
		Info: core.FormatInfo{
			Key:        "json",
			Label:      "JSON",
			Extensions: []string{".json"},
		},
		Decode: decodeJSON,
	})
}

// decodeJSON accepts a folder -> forms object or an array of row objects.
func decodeJSON(data []byte) (core.Candidate, error) {
	c, ok := core.NormalizeCandidateJSON(data)
	if !ok {
		return core.Candidate{}, core.ErrUnrecognizedCandidate
	}
	return c, nil
}
