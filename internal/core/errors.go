package core

import "errors"

// Sentinel errors. Callers use errors.Is; MapError turns them into coded
// user messages.
var (
	ErrNoWorkbook            = errors.New("no workbook provided")
	ErrNoMatrix              = errors.New("no matrix sheets found in ALS")
	ErrMatrixNotFound        = errors.New("matrix not found")
	ErrNoHierarchy           = errors.New("no master hierarchy loaded")
	ErrUnrecognizedCandidate = errors.New("unrecognized SSD input")
	ErrUnsupportedFormat     = errors.New("unsupported SSD file format")
	ErrSessionNotFound       = errors.New("session not found")
	ErrFileTooLarge          = errors.New("file too large")
	ErrEmptyFile             = errors.New("empty file")
	ErrStaleHierarchy        = errors.New("master hierarchy changed during comparison")
	ErrDictionaryNotFound    = errors.New("data dictionary not found")
)
