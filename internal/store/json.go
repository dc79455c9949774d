// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/toeirei/railbook/internal/logging"
)

// JSONFile stores a collection as a JSON array in a single file.
type JSONFile[T any] struct {
	Path string
}

// NewJSONFile returns a collection backed by the file at path.
func NewJSONFile[T any](path string) *JSONFile[T] {
	return &JSONFile[T]{Path: path}
}

// Load reads the file. A missing or empty file yields an empty list.
func (f *JSONFile[T]) Load(_ context.Context) ([]T, error) {
	records := []T{}
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Debugf("store: %s does not exist, starting empty", f.Path)
		return records, nil
	}
	if err != nil {
		logging.Errorf("store: reading %s failed, starting empty: %v", f.Path, err)
		return records, fmt.Errorf("read %s: %w", f.Path, err)
	}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		logging.Errorf("store: %s is malformed, starting empty: %v", f.Path, err)
		return []T{}, fmt.Errorf("%w: %s: %v", ErrMalformed, f.Path, err)
	}
	if records == nil {
		// a literal "null" in the file
		records = []T{}
	}
	return records, nil
}

// Save writes the complete list, creating the parent directory if needed.
func (f *JSONFile[T]) Save(_ context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.Path, err)
	}
	if dir := filepath.Dir(f.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(f.Path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	return nil
}

// *JSONFile implements Collection
var _ Collection[struct{}] = (*JSONFile[struct{}])(nil)
