// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/toeirei/railbook/internal/model"
	"github.com/toeirei/railbook/internal/store"
	"github.com/toeirei/railbook/internal/testutil"
)

func trainNos(ts []model.Train) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.TrainNo)
	}
	return out
}

func newCatalog(t *testing.T, trains ...model.Train) (*Catalog, *testutil.FakeCollection[model.Train]) {
	t.Helper()
	coll := testutil.NewFakeCollection(trains...)
	c, err := Load(context.Background(), coll, 0, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c, coll
}

func fixture() []model.Train {
	return []model.Train{
		{TrainNo: "12051", TrainName: "Jan Shatabdi", Stations: []string{"Mumbai", "Pune", "Hyderabad"}, Seats: model.NewSeatGrid(2, 2)},
		{TrainNo: "22691", TrainName: "Rajdhani", Stations: []string{"Bangalore", "Hyderabad", "Nagpur", "Delhi"}, Seats: model.NewSeatGrid(2, 2)},
		{TrainNo: "12952", TrainName: "Mumbai Rajdhani", Stations: []string{"Delhi", "Kota", "Mumbai"}, Seats: model.NewSeatGrid(2, 2)},
	}
}

func TestLoad_RepairsMissingGrid(t *testing.T) {
	c, coll := newCatalog(t, model.Train{TrainNo: "1", Stations: []string{"A", "B"}})
	tr, ok := c.Get("1")
	if !ok {
		t.Fatalf("train not found")
	}
	rows, cols := tr.Seats.Dimensions()
	if rows != DefaultRows || cols != DefaultCols || tr.Seats.FreeCount() != DefaultRows*DefaultCols {
		t.Fatalf("expected free %dx%d grid, got %dx%d", DefaultRows, DefaultCols, rows, cols)
	}
	if coll.Saves != 0 {
		t.Fatalf("load must not write, saw %d saves", coll.Saves)
	}
}

func TestLoad_ConfiguredGridSize(t *testing.T) {
	coll := testutil.NewFakeCollection(model.Train{TrainNo: "1", Stations: []string{"A", "B"}})
	c, err := Load(context.Background(), coll, 3, 4)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tr, _ := c.Get("1")
	if r, s := tr.Seats.Dimensions(); r != 3 || s != 4 {
		t.Fatalf("expected 3x4 grid, got %dx%d", r, s)
	}
}

func TestLoad_ReadErrorYieldsEmptyCatalog(t *testing.T) {
	coll := testutil.NewFakeCollection[model.Train]()
	coll.LoadErr = errors.New("disk on fire")
	c, err := Load(context.Background(), coll, 0, 0)
	if err == nil {
		t.Fatalf("expected error")
	}
	if c == nil || c.Len() != 0 || c.Search("a", "b") == nil {
		t.Fatalf("expected usable empty catalog")
	}
}

func TestLoad_MalformedFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trains.json")
	if err := writeFile(path, "[{"); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(context.Background(), store.NewJSONFile[model.Train](path), 0, 0)
	if !errors.Is(err, store.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty catalog")
	}
}

func TestSearch(t *testing.T) {
	c, _ := newCatalog(t, fixture()...)

	tests := []struct {
		name     string
		src, dst string
		want     []string
	}{
		{"forward", "Mumbai", "Hyderabad", []string{"12051"}},
		{"intermediate stations", "Pune", "Hyderabad", []string{"12051"}},
		{"reversed order", "Hyderabad", "Mumbai", []string{}},
		{"shared station both directions", "Delhi", "Mumbai", []string{"12952"}},
		{"case insensitive", "delhi", "MUMBAI", []string{"12952"}},
		{"trimmed", "  Hyderabad ", "delhi\t", []string{"22691"}},
		{"unknown station", "Mumbai", "Chennai", []string{}},
		{"same station", "Pune", "Pune", []string{}},
		{"empty input", "", "Pune", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := trainNos(c.Search(tc.src, tc.dst))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Search(%q,%q) = %v, want %v", tc.src, tc.dst, got, tc.want)
			}
		})
	}
}

func TestSearch_CaseVariantsIdentical(t *testing.T) {
	c, _ := newCatalog(t, fixture()...)
	a := c.Search("Delhi", "Mumbai")
	b := c.Search("delhi", "mumbai")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("case variants differ: %v vs %v", a, b)
	}
}

func TestSearch_PreservesCatalogOrder(t *testing.T) {
	trains := []model.Train{
		{TrainNo: "B", Stations: []string{"X", "Y"}, Seats: model.NewSeatGrid(1, 1)},
		{TrainNo: "A", Stations: []string{"X", "Z", "Y"}, Seats: model.NewSeatGrid(1, 1)},
	}
	c, _ := newCatalog(t, trains...)
	if got := trainNos(c.Search("x", "y")); !reflect.DeepEqual(got, []string{"B", "A"}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestSearch_ReturnsCopies(t *testing.T) {
	c, _ := newCatalog(t, fixture()...)
	res := c.Search("Mumbai", "Pune")
	res[0].Seats[0][0] = model.SeatBooked
	tr, _ := c.Get("12051")
	if !tr.Seats.IsFree(0, 0) {
		t.Fatalf("mutating a search result changed the catalog")
	}
}

func TestUpsert_ReplacesInPlace(t *testing.T) {
	c, coll := newCatalog(t, fixture()...)
	updated := fixture()[1]
	updated.TrainNo = "22691"
	updated.TrainName = "Rajdhani Express"
	updated.Seats[1][1] = model.SeatBooked

	if err := c.Upsert(context.Background(), updated); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if got := trainNos(c.All()); !reflect.DeepEqual(got, []string{"12051", "22691", "12952"}) {
		t.Fatalf("order changed: %v", got)
	}
	stored := coll.Stored()
	if len(stored) != 3 || stored[1].TrainName != "Rajdhani Express" || stored[1].Seats[1][1] != model.SeatBooked {
		t.Fatalf("full list not persisted: %#v", stored)
	}
}

func TestUpsert_MatchesTrainNumberCaseInsensitively(t *testing.T) {
	c, _ := newCatalog(t, model.Train{TrainNo: "ab12", Stations: []string{"A", "B"}, Seats: model.NewSeatGrid(1, 1)})
	if err := c.Upsert(context.Background(), model.Train{TrainNo: "AB12", TrainName: "new", Stations: []string{"A", "B"}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected replace, got %d trains", c.Len())
	}
	tr, _ := c.Get("ab12")
	if tr.TrainName != "new" {
		t.Fatalf("train not replaced: %+v", tr)
	}
}

func TestUpsert_AppendsAndAssignsGrid(t *testing.T) {
	c, coll := newCatalog(t, fixture()...)
	if err := c.Upsert(context.Background(), model.Train{TrainNo: "999", Stations: []string{"A", "B"}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if c.Len() != 4 || trainNos(c.All())[3] != "999" {
		t.Fatalf("train not appended: %v", trainNos(c.All()))
	}
	tr, _ := c.Get("999")
	if r, s := tr.Seats.Dimensions(); r != DefaultRows || s != DefaultCols {
		t.Fatalf("expected default grid, got %dx%d", r, s)
	}
	if coll.Saves != 1 {
		t.Fatalf("expected one save, got %d", coll.Saves)
	}
}

func TestUpsert_RejectsInvalidTrains(t *testing.T) {
	c, coll := newCatalog(t)
	cases := []model.Train{
		{TrainNo: "", Stations: []string{"A", "B"}},
		{TrainNo: "1", Stations: []string{"A"}},
		{TrainNo: "2", Stations: []string{"A", "B"}, Seats: model.SeatGrid{{0, 0}, {0}}},
	}
	for _, tr := range cases {
		if err := c.Upsert(context.Background(), tr); !errors.Is(err, ErrInvalidTrain) {
			t.Fatalf("Upsert(%+v) = %v, want ErrInvalidTrain", tr, err)
		}
	}
	if c.Len() != 0 || coll.Saves != 0 {
		t.Fatalf("invalid trains must not be stored")
	}
}

func TestUpsert_SaveErrorKeepsChange(t *testing.T) {
	c, coll := newCatalog(t, fixture()...)
	coll.SaveErr = errors.New("read-only")
	err := c.Upsert(context.Background(), model.Train{TrainNo: "X", Stations: []string{"A", "B"}})
	if err == nil {
		t.Fatalf("expected save error")
	}
	if _, ok := c.Get("X"); !ok {
		t.Fatalf("in-memory change should be kept after a failed save")
	}
}

func TestReplaceAll(t *testing.T) {
	c, coll := newCatalog(t, fixture()...)
	next := []model.Train{{TrainNo: "N", Stations: []string{"A", "B"}}}
	if err := c.ReplaceAll(context.Background(), next); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if got := trainNos(coll.Stored()); !reflect.DeepEqual(got, []string{"N"}) {
		t.Fatalf("stored = %v", got)
	}
	if err := c.ReplaceAll(context.Background(), []model.Train{{TrainNo: "bad"}}); !errors.Is(err, ErrInvalidTrain) {
		t.Fatalf("expected ErrInvalidTrain, got %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("failed ReplaceAll must leave catalog untouched")
	}
}

func bookedFixture(t *testing.T) (*Catalog, *testutil.FakeCollection[model.Train]) {
	t.Helper()
	tr := fixture()[0]
	tr.Seats[0][1] = model.SeatBooked
	return newCatalog(t, tr)
}

func TestUpsert_ExistingTrainKeepsStoredGrid(t *testing.T) {
	c, _ := bookedFixture(t)
	err := c.Upsert(context.Background(), model.Train{TrainNo: "12051", TrainName: "renamed", Stations: []string{"Mumbai", "Hyderabad"}})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	tr, _ := c.Get("12051")
	if r, s := tr.Seats.Dimensions(); r != 2 || s != 2 || tr.Seats.IsFree(0, 1) {
		t.Fatalf("stored grid not kept: %v", tr.Seats)
	}
	if tr.TrainName != "renamed" {
		t.Fatalf("other fields not updated: %+v", tr)
	}
}

func TestUpsert_RejectsResizeAndFreedSeats(t *testing.T) {
	c, coll := bookedFixture(t)
	cases := map[string]model.SeatGrid{
		"resized":    model.NewSeatGrid(3, 2),
		"seat freed": model.NewSeatGrid(2, 2),
	}
	for name, grid := range cases {
		tr := fixture()[0]
		tr.Seats = grid
		if err := c.Upsert(context.Background(), tr); !errors.Is(err, ErrInvalidTrain) {
			t.Fatalf("%s: Upsert = %v, want ErrInvalidTrain", name, err)
		}
	}
	if coll.Saves != 0 {
		t.Fatalf("rejected updates must not write, saw %d saves", coll.Saves)
	}
	tr, _ := c.Get("12051")
	if tr.Seats.IsFree(0, 1) {
		t.Fatalf("booked seat was freed")
	}

	// Booking more seats is still an allowed update.
	more := tr.Clone()
	more.Seats[1][0] = model.SeatBooked
	if err := c.Upsert(context.Background(), more); err != nil {
		t.Fatalf("Upsert with an extra booking: %v", err)
	}
}

func TestReleaseSeat(t *testing.T) {
	c, coll := bookedFixture(t)
	ctx := context.Background()
	if err := c.ReleaseSeat(ctx, "12051", 0, 0); err != nil || coll.Saves != 0 {
		t.Fatalf("releasing a free seat: err=%v saves=%d", err, coll.Saves)
	}
	if err := c.ReleaseSeat(ctx, "12051", 0, 1); err != nil {
		t.Fatalf("ReleaseSeat: %v", err)
	}
	if !coll.Stored()[0].Seats.IsFree(0, 1) || coll.Saves != 1 {
		t.Fatalf("release not persisted")
	}
	if err := c.ReleaseSeat(ctx, "nope", 0, 0); err == nil {
		t.Fatalf("expected error for unknown train")
	}
	if err := c.ReleaseSeat(ctx, "12051", 5, 0); err == nil {
		t.Fatalf("expected error for out-of-range seat")
	}
}
