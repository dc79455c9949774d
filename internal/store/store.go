// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

// package store loads and saves whole collections of records. A collection
// is always written in full; there is no delta or partial write. Reads fail
// soft: a missing collection is empty, and a malformed one is reported and
// treated as empty so the application stays usable.
package store

import (
	"context"
	"errors"
)

// Collection names shared by every backend.
const (
	TrainsCollection = "trains"
	UsersCollection  = "users"
)

// ErrMalformed is wrapped by Load when stored data cannot be decoded.
var ErrMalformed = errors.New("malformed collection data")

// Collection persists an ordered list of records of type T.
type Collection[T any] interface {
	// Load returns the stored list. On error the returned list is empty
	// (never nil) so callers may continue with it.
	Load(ctx context.Context) ([]T, error)
	// Save overwrites the stored list with records.
	Save(ctx context.Context, records []T) error
}
