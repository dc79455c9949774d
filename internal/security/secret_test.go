// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

package security

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestSecretRedactionAndJSON(t *testing.T) {
	s := FromString("supersecret")
	if fmt.Sprintf("%v", s) != "[SECRET]" {
		t.Fatalf("unexpected fmt output: %q", fmt.Sprintf("%v", s))
	}
	if fmt.Sprintf("%s|%#v", s, s) != "[SECRET]|[SECRET]" {
		t.Fatalf("unexpected verb output: %q", fmt.Sprintf("%s|%#v", s, s))
	}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if string(b) != "\"[SECRET]\"" {
		t.Fatalf("unexpected json marshal: %s", string(b))
	}
}

func TestSecretZero(t *testing.T) {
	s := FromString("abc123")
	(&s).Zero()
	for i, c := range s.Bytes() {
		if c != 0 {
			t.Fatalf("expected zeroed byte at index %d, got %d", i, c)
		}
	}
	var nilSecret *Secret
	nilSecret.Zero()
}

func TestSecretFromBytesCopies(t *testing.T) {
	in := []byte("pw")
	s := FromBytes(in)
	in[0] = 'x'
	if string(s.Bytes()) != "pw" {
		t.Fatalf("FromBytes did not copy input")
	}
}

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	hashed, err := h.Hash(FromString("s3cret"))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hashed == "s3cret" {
		t.Fatalf("hash equals plaintext")
	}
	if !h.Verify(FromString("s3cret"), hashed) {
		t.Fatalf("expected password to verify")
	}
	if h.Verify(FromString("wrong"), hashed) {
		t.Fatalf("wrong password verified")
	}
	if h.Verify(FromString(""), hashed) || h.Verify(FromString("s3cret"), "") {
		t.Fatalf("empty inputs must not verify")
	}
}

func TestBcryptHasher_EmptyPassword(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MinCost).Hash(nil)
	if !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
	if NewBcryptHasher(0).Cost != DefaultCost {
		t.Fatalf("expected default cost")
	}
}
