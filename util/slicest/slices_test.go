// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

package slicest

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func TestFilter(t *testing.T) {
	got := Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
	if !reflect.DeepEqual(got, []int{2, 4}) {
		t.Fatalf("Filter = %v", got)
	}
	none := Filter([]int{1}, func(int) bool { return false })
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", none)
	}
}

func TestFilterI(t *testing.T) {
	got := FilterI([]string{"a", "b", "c"}, func(i int, _ string) bool { return i != 1 })
	if !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("FilterI = %v", got)
	}
}

func TestCount(t *testing.T) {
	if n := Count([]string{"x", "", "y"}, func(s string) bool { return s != "" }); n != 2 {
		t.Fatalf("Count = %d", n)
	}
}

func TestMapVariants(t *testing.T) {
	if got := Map([]int{1, 2}, strconv.Itoa); !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Fatalf("Map = %v", got)
	}
	if got := MapI([]string{"a", "b"}, func(i int, s string) string { return s + strconv.Itoa(i) }); !reflect.DeepEqual(got, []string{"a0", "b1"}) {
		t.Fatalf("MapI = %v", got)
	}
	got, err := MapX([]string{"1", "2"}, strconv.Atoi)
	if err != nil || !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("MapX = %v, %v", got, err)
	}
	boom := errors.New("boom")
	if _, err := MapX([]string{"1", "x"}, func(s string) (int, error) {
		if s == "x" {
			return 0, boom
		}
		return 1, nil
	}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestIndexBy(t *testing.T) {
	idx := IndexBy([]string{"Delhi", "Agra", "delhi"}, strings.ToLower)
	if idx["agra"] != 1 || idx["delhi"] != 2 {
		t.Fatalf("IndexBy = %v", idx)
	}
}
