// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

// Package directory owns the registered users and the tickets embedded in
// them. Email is unique case-insensitively and phone numbers exactly.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/toeirei/railbook/internal/logging"
	"github.com/toeirei/railbook/internal/model"
	"github.com/toeirei/railbook/internal/security"
	"github.com/toeirei/railbook/internal/store"
	"github.com/toeirei/railbook/util/slicest"
)

// ErrDuplicate is returned by Register when the email or phone is taken.
var ErrDuplicate = errors.New("email or phone already registered")

// Directory is the in-memory user list backed by a collection.
type Directory struct {
	coll   store.Collection[model.User]
	hasher security.Hasher
	users  []model.User
	newID  func() string
}

// Load reads all users from coll. Users stored without a ticket list get an
// empty one. A read error is returned together with a usable, empty directory.
func Load(ctx context.Context, coll store.Collection[model.User], hasher security.Hasher) (*Directory, error) {
	d := &Directory{coll: coll, hasher: hasher, newID: uuid.NewString}
	users, err := coll.Load(ctx)
	if err != nil {
		logging.Warnf("user directory: starting with an empty list: %v", err)
		d.users = []model.User{}
		return d, err
	}
	for i := range users {
		if users[i].TicketsBooked == nil {
			users[i].TicketsBooked = []model.Ticket{}
		}
	}
	d.users = users
	return d, nil
}

// FindByCredential returns the first user whose email (case-insensitive) or
// phone (exact) equals login and whose password verifies.
func (d *Directory) FindByCredential(login string, password security.Secret) (model.User, bool) {
	if login == "" || password.IsEmpty() {
		return model.User{}, false
	}
	for _, u := range d.users {
		if !matchesLogin(u, login) {
			continue
		}
		if d.hasher.Verify(password, u.HashedPassword) {
			return u.Clone(), true
		}
	}
	return model.User{}, false
}

func matchesLogin(u model.User, login string) bool {
	return (u.Email != "" && strings.EqualFold(u.Email, login)) ||
		(u.PhoneNumber != "" && u.PhoneNumber == login)
}

// Register appends user with a fresh identifier and an empty ticket list,
// then writes the whole list. The stored copy is returned.
func (d *Directory) Register(ctx context.Context, user model.User) (model.User, error) {
	if d.taken(user.Email, user.PhoneNumber) {
		return model.User{}, ErrDuplicate
	}
	user = user.Clone()
	user.UserID = d.newID()
	if user.TicketsBooked == nil {
		user.TicketsBooked = []model.Ticket{}
	}
	d.users = append(d.users, user)
	if err := d.Persist(ctx); err != nil {
		return user.Clone(), err
	}
	logging.Infof("user directory: registered %s", user.UserID)
	return user.Clone(), nil
}

// SignUp hashes password and registers a new user.
func (d *Directory) SignUp(ctx context.Context, name, email, phone string, password security.Secret) (model.User, error) {
	hashed, err := d.hasher.Hash(password)
	if err != nil {
		return model.User{}, err
	}
	return d.Register(ctx, model.User{
		Name:           strings.TrimSpace(name),
		Email:          strings.TrimSpace(email),
		PhoneNumber:    strings.TrimSpace(phone),
		HashedPassword: hashed,
	})
}

func (d *Directory) taken(email, phone string) bool {
	return conflicts(d.users, email, phone)
}

// conflicts reports whether any of users already holds email
// (case-insensitive) or phone (exact).
func conflicts(users []model.User, email, phone string) bool {
	return slicest.Count(users, func(u model.User) bool {
		return (u.Email != "" && strings.EqualFold(u.Email, email)) ||
			(u.PhoneNumber != "" && u.PhoneNumber == phone)
	}) > 0
}

// Replace overwrites the stored user with the same identifier. It reports
// whether a user was replaced; it does not persist.
func (d *Directory) Replace(user model.User) bool {
	for i := range d.users {
		if d.users[i].UserID == user.UserID {
			d.users[i] = user.Clone()
			return true
		}
	}
	return false
}

// Get returns a copy of the user with the given identifier.
func (d *Directory) Get(userID string) (model.User, bool) {
	for _, u := range d.users {
		if u.UserID == userID {
			return u.Clone(), true
		}
	}
	return model.User{}, false
}

// All returns copies of every user in directory order.
func (d *Directory) All() []model.User {
	return slicest.Map(d.users, model.User.Clone)
}

// Len returns the number of users.
func (d *Directory) Len() int { return len(d.users) }

// ReplaceAll swaps the whole list, used by restore. Every user needs an
// identifier and no two users may share an email or phone number; on error
// the directory is left untouched.
func (d *Directory) ReplaceAll(ctx context.Context, users []model.User) error {
	next, err := slicest.MapX(users, func(u model.User) (model.User, error) {
		if u.UserID == "" {
			return model.User{}, fmt.Errorf("user %q has no identifier", u.Email)
		}
		return u.Clone(), nil
	})
	if err != nil {
		return err
	}
	for i, u := range next {
		if conflicts(next[:i], u.Email, u.PhoneNumber) {
			return fmt.Errorf("%w: user %s", ErrDuplicate, u.UserID)
		}
	}
	d.users = next
	return d.Persist(ctx)
}

// Merge appends the users whose identifier is unknown and whose email and
// phone are still free, then writes the list if anything was added. Users
// without an identifier or with taken credentials are skipped.
func (d *Directory) Merge(ctx context.Context, users []model.User) (added, skipped int, err error) {
	known := slicest.IndexBy(d.users, func(u model.User) string { return u.UserID })
	for _, u := range users {
		if _, ok := known[u.UserID]; ok {
			continue
		}
		if u.UserID == "" || d.taken(u.Email, u.PhoneNumber) {
			logging.Warnf("user directory: skipping user %q: email or phone already registered", u.UserID)
			skipped++
			continue
		}
		known[u.UserID] = len(d.users)
		d.users = append(d.users, u.Clone())
		added++
	}
	if added == 0 {
		return 0, skipped, nil
	}
	return added, skipped, d.Persist(ctx)
}

// Persist writes the whole user list.
func (d *Directory) Persist(ctx context.Context) error {
	if err := d.coll.Save(ctx, d.users); err != nil {
		logging.Errorf("user directory: save failed: %v", err)
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}
