package core

// streaming.go provides reader wrappers applied to every uploaded or pasted
// text before parsing. Excel "CSV UTF-8" exports start with a BOM and
// hand-edited files regularly contain stray Latin-1 bytes; both would
// otherwise leak into the first header name or a form code.

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// newCleaner returns a fresh transformer: BOM removal, then replacement of
// ill-formed UTF-8 with U+FFFD. Transformers are stateful, so one per stream.
func newCleaner() transform.Transformer {
	return transform.Chain(unicode.UTF8BOM.NewDecoder(), runes.ReplaceIllFormed())
}

// CleanReader strips a UTF-8 BOM and sanitizes invalid UTF-8 on the fly.
func CleanReader(r io.Reader) io.Reader {
	return transform.NewReader(r, newCleaner())
}

// CleanBytes applies the same cleaning to an in-memory buffer.
func CleanBytes(data []byte) []byte {
	out, _, err := transform.Bytes(newCleaner(), data)
	if err != nil {
		return bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	}
	return out
}

// ReadAllLimited reads r fully, failing with ErrFileTooLarge once more than
// max bytes are available. A non-positive max disables the limit.
func ReadAllLimited(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrFileTooLarge, max)
	}
	return data, nil
}
