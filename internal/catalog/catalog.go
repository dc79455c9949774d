// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

// Package catalog owns the list of trains: their station sequences and seat
// grids. It answers route searches and persists every change through a
// store.Collection. Callers receive copies; the only way to change a train
// is Upsert.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/toeirei/railbook/internal/logging"
	"github.com/toeirei/railbook/internal/model"
	"github.com/toeirei/railbook/internal/store"
	"github.com/toeirei/railbook/util/slicest"
)

// Default grid assigned to trains stored without seats.
const (
	DefaultRows = 10
	DefaultCols = 6
)

// ErrInvalidTrain is returned by Upsert for trains that cannot be booked.
var ErrInvalidTrain = errors.New("invalid train")

// Catalog is the in-memory train list backed by a collection.
type Catalog struct {
	coll   store.Collection[model.Train]
	trains []model.Train
	rows   int
	cols   int
}

// Load reads all trains from coll. Trains without a seat grid get a
// rows x cols free grid; non-positive sizes select the defaults. The repair
// is not written back until the next Upsert.
//
// A read error is returned together with a usable, empty catalog.
func Load(ctx context.Context, coll store.Collection[model.Train], rows, cols int) (*Catalog, error) {
	if rows <= 0 {
		rows = DefaultRows
	}
	if cols <= 0 {
		cols = DefaultCols
	}
	c := &Catalog{coll: coll, rows: rows, cols: cols}

	trains, err := coll.Load(ctx)
	if err != nil {
		logging.Warnf("train catalog: starting with an empty list: %v", err)
		c.trains = []model.Train{}
		return c, err
	}
	repaired := 0
	for i := range trains {
		if len(trains[i].Seats) == 0 {
			trains[i].Seats = model.NewSeatGrid(rows, cols)
			repaired++
		}
	}
	if repaired > 0 {
		logging.Debugf("train catalog: assigned default %dx%d grid to %d train(s)", rows, cols, repaired)
	}
	c.trains = trains
	return c, nil
}

// Search returns the trains that stop at source and later at destination.
// Station names are compared trimmed and case-insensitively. The result is
// in catalog order and never nil.
func (c *Catalog) Search(source, destination string) []model.Train {
	src := normalizeStation(source)
	dst := normalizeStation(destination)
	if src == "" || dst == "" {
		return []model.Train{}
	}
	matches := slicest.Filter(c.trains, func(t model.Train) bool {
		return servesRoute(t, src, dst)
	})
	return slicest.Map(matches, model.Train.Clone)
}

func servesRoute(t model.Train, src, dst string) bool {
	srcIdx, dstIdx := -1, -1
	for i, st := range t.Stations {
		name := strings.ToLower(st)
		if srcIdx < 0 && name == src {
			srcIdx = i
		}
		if dstIdx < 0 && name == dst {
			dstIdx = i
		}
	}
	return srcIdx != -1 && dstIdx != -1 && srcIdx < dstIdx
}

func normalizeStation(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Get returns a copy of the train with the given number (case-insensitive).
func (c *Catalog) Get(trainNo string) (model.Train, bool) {
	if i := c.indexOf(trainNo); i >= 0 {
		return c.trains[i].Clone(), true
	}
	return model.Train{}, false
}

// All returns copies of every train in catalog order.
func (c *Catalog) All() []model.Train {
	return slicest.Map(c.trains, model.Train.Clone)
}

// Len returns the number of trains.
func (c *Catalog) Len() int { return len(c.trains) }

// Upsert replaces the train with the same number in place, or appends it,
// then writes the whole list. A new train without seats receives the default
// grid; an existing one keeps its stored grid. An update may book seats but
// never resize the grid or free a booked seat. If the write fails the
// in-memory change is kept and the error is returned.
func (c *Catalog) Upsert(ctx context.Context, train model.Train) error {
	train = train.Clone()
	i := c.indexOf(train.TrainNo)
	if len(train.Seats) == 0 {
		if i >= 0 {
			train.Seats = c.trains[i].Seats.Clone()
		} else {
			train.Seats = model.NewSeatGrid(c.rows, c.cols)
		}
	}
	if err := validate(train); err != nil {
		return err
	}

	if i >= 0 {
		if err := checkGridUpdate(c.trains[i].Seats, train.Seats); err != nil {
			return fmt.Errorf("%w: train %s: %v", ErrInvalidTrain, train.TrainNo, err)
		}
		c.trains[i] = train
	} else {
		c.trains = append(c.trains, train)
	}
	return c.persist(ctx)
}

// ReleaseSeat frees a booked seat and writes the whole list. Freeing a seat
// that is already free does not write.
func (c *Catalog) ReleaseSeat(ctx context.Context, trainNo string, row, seat int) error {
	i := c.indexOf(trainNo)
	if i < 0 {
		return fmt.Errorf("train %s not found", trainNo)
	}
	grid := c.trains[i].Seats
	if !grid.InBounds(row, seat) {
		return fmt.Errorf("seat %d/%d out of range on train %s", row, seat, trainNo)
	}
	if grid.IsFree(row, seat) {
		return nil
	}
	grid[row][seat] = model.SeatFree
	return c.persist(ctx)
}

func checkGridUpdate(current, next model.SeatGrid) error {
	curRows, curCols := current.Dimensions()
	nextRows, nextCols := next.Dimensions()
	if curRows != nextRows || curCols != nextCols {
		return fmt.Errorf("seat grid is %dx%d, got %dx%d", curRows, curCols, nextRows, nextCols)
	}
	for r, cells := range current {
		for s, v := range cells {
			if v != model.SeatFree && next.IsFree(r, s) {
				return fmt.Errorf("seat %d/%d is booked", r, s)
			}
		}
	}
	return nil
}

// ReplaceAll swaps the whole list, used by restore. Every train must be valid.
func (c *Catalog) ReplaceAll(ctx context.Context, trains []model.Train) error {
	next := make([]model.Train, 0, len(trains))
	for _, t := range trains {
		t = t.Clone()
		if len(t.Seats) == 0 {
			t.Seats = model.NewSeatGrid(c.rows, c.cols)
		}
		if err := validate(t); err != nil {
			return err
		}
		next = append(next, t)
	}
	c.trains = next
	return c.persist(ctx)
}

func (c *Catalog) persist(ctx context.Context) error {
	if err := c.coll.Save(ctx, c.trains); err != nil {
		logging.Errorf("train catalog: save failed: %v", err)
		return fmt.Errorf("save trains: %w", err)
	}
	return nil
}

func (c *Catalog) indexOf(trainNo string) int {
	for i, t := range c.trains {
		if strings.EqualFold(t.TrainNo, trainNo) {
			return i
		}
	}
	return -1
}

func validate(t model.Train) error {
	if strings.TrimSpace(t.TrainNo) == "" {
		return fmt.Errorf("%w: missing train number", ErrInvalidTrain)
	}
	if len(t.Stations) < 2 {
		return fmt.Errorf("%w: train %s needs at least two stations", ErrInvalidTrain, t.TrainNo)
	}
	if !t.Seats.IsRectangular() {
		return fmt.Errorf("%w: train %s has rows of different length", ErrInvalidTrain, t.TrainNo)
	}
	return nil
}
