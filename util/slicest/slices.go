// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

// Package slicest holds the small generic slice helpers shared by the
// catalog, the CLI and the TUI. Suffixes follow one scheme:
//   - I: the callback also receives the index.
//   - X: the callback may fail; the first error stops iteration.
package slicest

// Filter

// Filter returns the elements of s for which keep is true, in order.
// The result is never nil.
func Filter[T any, S ~[]T](s S, keep func(T) bool) []T {
	return FilterI(s, func(_ int, t T) bool { return keep(t) })
}

// FilterI is Filter with the element index.
func FilterI[T any, S ~[]T](s S, keep func(int, T) bool) []T {
	result := make([]T, 0, len(s))
	for i, t := range s {
		if keep(i, t) {
			result = append(result, t)
		}
	}
	return result
}

// Count returns how many elements satisfy pred.
func Count[T any, S ~[]T](s S, pred func(T) bool) int {
	n := 0
	for _, t := range s {
		if pred(t) {
			n++
		}
	}
	return n
}

// Map

func MapXI[T, U any, S ~[]T](s S, fn func(int, T) (U, error)) ([]U, error) {
	result := make([]U, len(s))
	for i, v := range s {
		out, err := fn(i, v)
		if err != nil {
			return nil, err
		}
		result[i] = out
	}
	return result, nil
}

func MapX[T, U any, S ~[]T](s S, fn func(T) (U, error)) ([]U, error) {
	return MapXI(s, func(_ int, t T) (U, error) {
		return fn(t)
	})
}

func MapI[T, U any, S ~[]T](s S, fn func(int, T) U) []U {
	result, _ := MapXI(s, func(i int, t T) (U, error) {
		return fn(i, t), nil
	})
	return result
}

func Map[T, U any, S ~[]T](s S, fn func(T) U) []U {
	return MapI(s, func(_ int, t T) U { return fn(t) })
}

// Conversion

// IndexBy builds a lookup from key to position. Later duplicates win.
func IndexBy[T any, K comparable, S ~[]T](s S, key func(T) K) map[K]int {
	result := make(map[K]int, len(s))
	for i, t := range s {
		result[key(t)] = i
	}
	return result
}
