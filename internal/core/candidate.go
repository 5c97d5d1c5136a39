package core

// candidate.go turns SSD input (pasted text or an uploaded file) into a
// FolderFormMap plus the candidate-side display names.

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Candidate is normalized SSD data.
type Candidate struct {
	Map    FolderFormMap
	Names  NameSet
	Source string   // file name, or "text" for pasted input
	Lines  []string // preview lines, see PreviewLines
}

// CandidateFromRecords maps tabular SSD rows.
func CandidateFromRecords(records []Record) Candidate {
	return Candidate{
		Map:   BuildFolderFormMap(records),
		Names: BuildNameMaps(records),
	}
}

// ParseCandidateText normalizes pasted SSD text. Input that parses as JSON is
// handled by NormalizeCandidateJSON; anything else is read as delimited text.
// ok is false for blank input, for malformed JSON and for JSON that is
// neither an object nor an array, in which case callers keep their previous
// diff.
func ParseCandidateText(text string) (Candidate, bool) {
	if strings.TrimSpace(text) == "" {
		return Candidate{}, false
	}

	data := bytes.TrimSpace(CleanBytes([]byte(text)))
	if len(data) == 0 {
		// Only a byte order mark, or whitespace after one.
		return Candidate{}, false
	}
	if json.Valid(data) {
		c, ok := NormalizeCandidateJSON(data)
		if ok {
			c.Source = "text"
			c.Lines = PreviewLines(text)
		}
		return c, ok
	}
	if data[0] == '{' || data[0] == '[' {
		// Malformed JSON is not retried as delimited text.
		return Candidate{}, false
	}

	c := CandidateFromRecords(ParseDelimited(text))
	c.Source = "text"
	c.Lines = PreviewLines(text)
	return c, true
}

// NormalizeCandidateJSON accepts either an object mapping folder codes to
// arrays of form codes, or an array of row objects resolved through the
// column aliases. Object input carries no names.
func NormalizeCandidateJSON(data []byte) (Candidate, bool) {
	var raw any
	if err := json.Unmarshal(CleanBytes(data), &raw); err != nil {
		return Candidate{}, false
	}

	switch v := raw.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		lists := make(map[string][]string, len(v))
		for k, val := range v {
			arr, ok := val.([]any)
			if !ok {
				continue
			}
			keys = append(keys, k)
			for _, item := range arr {
				lists[k] = append(lists[k], stringify(item))
			}
		}
		slices.Sort(keys)
		return Candidate{Map: MapFromLists(keys, lists), Names: EmptyNameSet()}, true

	case []any:
		records := make([]Record, 0, len(v))
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			row := make(map[string]string, len(obj))
			for k, val := range obj {
				row[k] = stringify(val)
			}
			records = append(records, RecordFromMap(row))
		}
		return CandidateFromRecords(records), true
	}
	return Candidate{}, false
}

// stringify renders a decoded JSON scalar the way it appeared in the source.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

// ParseCandidateFile decodes an uploaded SSD file using the format registered
// for its extension.
func ParseCandidateFile(fileName string, data []byte) (Candidate, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Candidate{}, ErrEmptyFile
	}
	def, ok := FormatForFile(fileName)
	if !ok {
		return Candidate{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, fileName)
	}
	c, err := def.Decode(data)
	if err != nil {
		return Candidate{}, err
	}
	if c.Names.Folders == nil || c.Names.Forms == nil {
		c.Names = EmptyNameSet()
	}
	if c.Lines == nil {
		c.Lines = PreviewLines(string(CleanBytes(data)))
	}
	c.Source = fileName
	return c, nil
}
