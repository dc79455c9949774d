// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/toeirei/railbook/internal/config"
	"github.com/toeirei/railbook/internal/logging"
	"github.com/toeirei/railbook/internal/model"
	"github.com/toeirei/railbook/internal/store"
)

// ImportResult summarises an ImportTrains run.
type ImportResult struct {
	// Added counts trains that were not in the catalog before.
	Added int
	// Updated counts trains that replaced an existing entry.
	Updated int
}

// ImportTrains reads a YAML or JSON list of trains from r and upserts each
// one. It stops at the first invalid train; trains before it stay imported.
func ImportTrains(ctx context.Context, r io.Reader, a *App) (ImportResult, error) {
	var res ImportResult
	data, err := io.ReadAll(r)
	if err != nil {
		return res, fmt.Errorf("read trains: %w", err)
	}
	var trains []model.Train
	if err := yaml.Unmarshal(data, &trains); err != nil {
		return res, fmt.Errorf("%w: parse trains: %v", ErrInvalidInput, err)
	}
	for _, t := range trains {
		_, exists := a.Catalog.Get(t.TrainNo)
		if err := a.Catalog.Upsert(ctx, t); err != nil {
			return res, fmt.Errorf("import train %q: %w", t.TrainNo, err)
		}
		if exists {
			res.Updated++
		} else {
			res.Added++
		}
	}
	logging.Infof("imported trains: %d added, %d updated", res.Added, res.Updated)
	return res, nil
}

// Backup snapshots both collections.
func Backup(a *App) store.Archive {
	return store.Archive{
		Version:   store.ArchiveVersion,
		CreatedAt: time.Now().UTC(),
		Trains:    a.Catalog.All(),
		Users:     a.Directory.All(),
	}
}

// WriteBackup writes a zstd-compressed JSON snapshot of a to w.
func WriteBackup(a *App, w io.Writer) error {
	return store.WriteArchive(w, Backup(a))
}

// RestoreOptions controls restore behavior used by Restore.
type RestoreOptions struct {
	// Full replaces both collections with the archive. Otherwise the archive
	// is merged: trains are upserted and unknown users appended.
	Full bool
}

// RestoreResult reports how many records a restore wrote.
type RestoreResult struct {
	Trains int
	Users  int
	// SkippedUsers counts merged users whose email or phone was taken.
	SkippedUsers int
}

// Restore reads an archive written by WriteBackup and applies it to a.
func Restore(ctx context.Context, r io.Reader, opts RestoreOptions, a *App) (RestoreResult, error) {
	arc, err := store.ReadArchive(r)
	if err != nil {
		return RestoreResult{}, err
	}
	if opts.Full {
		if err := a.Catalog.ReplaceAll(ctx, arc.Trains); err != nil {
			return RestoreResult{}, fmt.Errorf("restore trains: %w", err)
		}
		if err := a.Directory.ReplaceAll(ctx, arc.Users); err != nil {
			return RestoreResult{Trains: len(arc.Trains)}, fmt.Errorf("restore users: %w", err)
		}
		return RestoreResult{Trains: len(arc.Trains), Users: len(arc.Users)}, nil
	}
	return integrate(ctx, arc, a)
}

// integrate merges arc into a. Trains are upserted with every seat booked
// here kept booked; users are appended unless their id, email or phone is
// already registered.
func integrate(ctx context.Context, arc *store.Archive, a *App) (RestoreResult, error) {
	var res RestoreResult
	for _, t := range arc.Trains {
		if current, ok := a.Catalog.Get(t.TrainNo); ok {
			t = keepHeldSeats(current.Seats, t)
		}
		if err := a.Catalog.Upsert(ctx, t); err != nil {
			return res, fmt.Errorf("restore train %q: %w", t.TrainNo, err)
		}
		res.Trains++
	}
	added, skipped, err := a.Directory.Merge(ctx, arc.Users)
	res.Users, res.SkippedUsers = added, skipped
	if err != nil {
		return res, fmt.Errorf("restore users: %w", err)
	}
	return res, nil
}

// keepHeldSeats marks every seat booked in current as booked in t when both
// grids have the same shape.
func keepHeldSeats(current model.SeatGrid, t model.Train) model.Train {
	t = t.Clone()
	cr, cc := current.Dimensions()
	tr, tc := t.Seats.Dimensions()
	if cr != tr || cc != tc || !t.Seats.IsRectangular() {
		return t
	}
	for r, cells := range current {
		for s, v := range cells {
			if v != model.SeatFree {
				t.Seats[r][s] = v
			}
		}
	}
	return t
}

// Migrate copies both collections from a into the storage described by
// target, replacing whatever target held.
func Migrate(ctx context.Context, a *App, target config.StorageConfig) error {
	backend, err := store.OpenBackend(ctx, target)
	if err != nil {
		return fmt.Errorf("init target store: %w", err)
	}
	defer func() { _ = backend.Close() }()

	if err := store.Open[model.Train](backend, store.TrainsCollection).Save(ctx, a.Catalog.All()); err != nil {
		return fmt.Errorf("migrate trains: %w", err)
	}
	if err := store.Open[model.User](backend, store.UsersCollection).Save(ctx, a.Directory.All()); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	logging.Infof("migrated %d train(s) and %d user(s) to %s storage", a.Catalog.Len(), a.Directory.Len(), storageLabel(target))
	return nil
}
