package core

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// DecodeFunc turns an uploaded SSD file into candidate data.
type DecodeFunc func(data []byte) (Candidate, error)

// FormatInfo contains display information about a candidate format.
type FormatInfo struct {
	Key        string   `json:"key"`        // Unique identifier: "csv"
	Label      string   `json:"label"`      // Display name: "CSV"
	Extensions []string `json:"extensions"` // Lowercase, with dot: ".csv"
}

// FormatDefinition contains everything needed to decode one SSD file type.
type FormatDefinition struct {
	Info   FormatInfo
	Decode DecodeFunc
}

var (
	formats   = make(map[string]FormatDefinition)
	formatsMu sync.RWMutex
)

// RegisterFormat adds a format definition to the registry.
// Panics if the key or one of its extensions is already registered.
func RegisterFormat(def FormatDefinition) {
	formatsMu.Lock()
	defer formatsMu.Unlock()

	if _, exists := formats[def.Info.Key]; exists {
		panic(fmt.Sprintf("format already registered: %s", def.Info.Key))
	}
	for _, existing := range formats {
		for _, ext := range existing.Info.Extensions {
			for _, e := range def.Info.Extensions {
				if strings.EqualFold(ext, e) {
					panic(fmt.Sprintf("extension %s already registered by %s", e, existing.Info.Key))
				}
			}
		}
	}

	formats[def.Info.Key] = def
}

// FormatForFile returns the definition handling fileName's extension.
func FormatForFile(fileName string) (FormatDefinition, bool) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		return FormatDefinition{}, false
	}

	formatsMu.RLock()
	defer formatsMu.RUnlock()

	for _, def := range formats {
		for _, e := range def.Info.Extensions {
			if e == ext {
				return def, true
			}
		}
	}
	return FormatDefinition{}, false
}

// Formats returns all registered formats sorted by key.
func Formats() []FormatInfo {
	formatsMu.RLock()
	defer formatsMu.RUnlock()

	out := make([]FormatInfo, 0, len(formats))
	for _, def := range formats {
		out = append(out, def.Info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ClearFormats removes all registered formats.
// Primarily useful for testing.
func ClearFormats() {
	formatsMu.Lock()
	defer formatsMu.Unlock()
	formats = make(map[string]FormatDefinition)
}
