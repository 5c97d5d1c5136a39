package formats

import (
	"github.com/JonMunkholm/matrixdiff/internal/core"
)

func init() {
	core.RegisterFormat(core.FormatDefinition{
		Info: core.FormatInfo{
			Key:        "csv",
			Label:      "CSV",
			Extensions: []string{".csv", ".txt"},
		},
		Decode: decodeCSV,
	})
}

func decodeCSV(data []byte) (core.Candidate, error) {
	text := string(core.CleanBytes(data))
	return core.CandidateFromRecords(core.ParseDelimited(text)), nil
}
