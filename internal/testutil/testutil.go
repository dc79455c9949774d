// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

// Package testutil provides in-memory doubles for the storage and password
// collaborators so package tests avoid touching disk or paying bcrypt cost.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/toeirei/railbook/internal/security"
)

// FakeCollection is an in-memory store.Collection. Records are copied
// through JSON on every Save so tests observe exactly what was persisted.
type FakeCollection[T any] struct {
	data []byte
	// Saves counts successful Save calls.
	Saves int
	// LoadErr and SaveErr, if set, are returned by Load and Save.
	LoadErr error
	SaveErr error
}

// NewFakeCollection returns a collection preloaded with records.
func NewFakeCollection[T any](records ...T) *FakeCollection[T] {
	f := &FakeCollection[T]{}
	f.data, _ = json.Marshal(records)
	return f
}

func (f *FakeCollection[T]) Load(_ context.Context) ([]T, error) {
	if f.LoadErr != nil {
		return []T{}, f.LoadErr
	}
	out := []T{}
	if len(f.data) > 0 {
		_ = json.Unmarshal(f.data, &out)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (f *FakeCollection[T]) Save(_ context.Context, records []T) error {
	if f.SaveErr != nil {
		return f.SaveErr
	}
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	f.data = data
	f.Saves++
	return nil
}

// Stored decodes what was last saved.
func (f *FakeCollection[T]) Stored() []T {
	out, _ := f.Load(context.Background())
	return out
}

// FakeHasher is a reversible security.Hasher for tests.
type FakeHasher struct{}

const fakePrefix = "fake$"

func (FakeHasher) Hash(plain security.Secret) (string, error) {
	if plain.IsEmpty() {
		return "", security.ErrEmptyPassword
	}
	return fakePrefix + string(plain.Bytes()), nil
}

func (FakeHasher) Verify(plain security.Secret, hashed string) bool {
	return strings.HasPrefix(hashed, fakePrefix) && strings.TrimPrefix(hashed, fakePrefix) == string(plain.Bytes())
}

// BytesFromString returns a buffer containing the provided string.
func BytesFromString(s string) *bytes.Buffer { return bytes.NewBufferString(s) }
