package core

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	json "github.com/goccy/go-json"
)

// DefaultSelectionKey is the store key holding the last folder selection.
const DefaultSelectionKey = "als-matrix-folder-selection"

// KeyValue is the persistence a SelectionStore needs. found is false when
// the key has never been written.
type KeyValue interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// SelectionStore saves and restores the folder selection as a single JSON
// entry {"selected": [...], "auto": bool}.
type SelectionStore struct {
	kv  KeyValue
	key string
}

// NewSelectionStore returns a store writing under key (DefaultSelectionKey
// when empty).
func NewSelectionStore(kv KeyValue, key string) *SelectionStore {
	if key == "" {
		key = DefaultSelectionKey
	}
	return &SelectionStore{kv: kv, key: key}
}

// Save writes sel as one unit.
func (s *SelectionStore) Save(ctx context.Context, sel Selection) error {
	if sel.Selected == nil {
		sel.Selected = []string{}
	}
	data, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("selection store: encode: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("selection store: %w", err)
	}
	return nil
}

// Restore intersects the saved selection with folders, keeping saved order.
//
// With nothing saved, active is returned unchanged. An unreadable entry is
// logged and also yields active.
func (s *SelectionStore) Restore(ctx context.Context, folders []string, active Selection) (Selection, error) {
	data, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return active, fmt.Errorf("selection store: %w", err)
	}
	if !found {
		return active, nil
	}

	var saved Selection
	if err := json.Unmarshal(data, &saved); err != nil {
		slog.Warn("discarding unreadable saved selection", "key", s.key, "error", err)
		return active, nil
	}

	return RestoreSelection(saved, folders, active), nil
}

// RestoreSelection applies a saved selection to the current folder codes.
// When no saved code survives, active's folders are kept but the saved Auto
// flag still applies.
func RestoreSelection(saved Selection, folders []string, active Selection) Selection {
	valid := make([]string, 0, len(saved.Selected))
	for _, code := range saved.Selected {
		if slices.Contains(folders, code) && !slices.Contains(valid, code) {
			valid = append(valid, code)
		}
	}
	if len(valid) == 0 {
		return Selection{Selected: slices.Clone(active.Selected), Auto: saved.Auto}
	}
	return Selection{Selected: valid, Auto: saved.Auto}
}
