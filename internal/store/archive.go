// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/toeirei/railbook/internal/model"
)

// ArchiveVersion is written into every archive.
const ArchiveVersion = 1

// Archive is a snapshot of both collections.
type Archive struct {
	Version   int           `json:"version"`
	CreatedAt time.Time     `json:"created_at"`
	Trains    []model.Train `json:"trains"`
	Users     []model.User  `json:"users"`
}

// WriteArchive writes a as zstd-compressed JSON.
func WriteArchive(w io.Writer, a Archive) error {
	if a.Version == 0 {
		a.Version = ArchiveVersion
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		_ = zw.Close()
		return fmt.Errorf("encode archive: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush archive: %w", err)
	}
	return nil
}

// ReadArchive decodes an archive written by WriteArchive.
func ReadArchive(r io.Reader) (*Archive, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()

	var a Archive
	if err := json.NewDecoder(zr).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}
	if a.Version > ArchiveVersion {
		return nil, fmt.Errorf("archive version %d is newer than supported version %d", a.Version, ArchiveVersion)
	}
	return &a, nil
}
