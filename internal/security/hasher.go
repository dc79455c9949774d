// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

// Package security provides the password capability used by the user
// directory: a one-way, verifiable hash, plus the Secret type that carries
// plaintext passwords until they are hashed.
package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used for stored passwords.
const DefaultCost = 12

// ErrEmptyPassword is returned when hashing an empty password.
var ErrEmptyPassword = errors.New("password cannot be empty")

// Hasher turns a plaintext password into an opaque, verifiable string.
type Hasher interface {
	Hash(plain Secret) (string, error)
	Verify(plain Secret, hashed string) bool
}

// BcryptHasher implements Hasher with golang.org/x/crypto/bcrypt.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a hasher with the given cost; cost <= 0 selects DefaultCost.
func NewBcryptHasher(cost int) BcryptHasher {
	if cost <= 0 {
		cost = DefaultCost
	}
	return BcryptHasher{Cost: cost}
}

// Hash returns the bcrypt hash of plain.
func (h BcryptHasher) Hash(plain Secret) (string, error) {
	if plain.IsEmpty() {
		return "", ErrEmptyPassword
	}
	var out []byte
	err := plain.Use(func(b []byte) error {
		var herr error
		out, herr = bcrypt.GenerateFromPassword(b, h.Cost)
		return herr
	})
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(out), nil
}

// Verify reports whether plain matches hashed. Empty inputs never verify.
func (h BcryptHasher) Verify(plain Secret, hashed string) bool {
	if plain.IsEmpty() || hashed == "" {
		return false
	}
	return plain.Use(func(b []byte) error {
		return bcrypt.CompareHashAndPassword([]byte(hashed), b)
	}) == nil
}

// BcryptHasher implements Hasher
var _ Hasher = BcryptHasher{}
