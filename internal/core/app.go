// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/toeirei/railbook/internal/booking"
	"github.com/toeirei/railbook/internal/catalog"
	"github.com/toeirei/railbook/internal/config"
	"github.com/toeirei/railbook/internal/directory"
	"github.com/toeirei/railbook/internal/logging"
	"github.com/toeirei/railbook/internal/model"
	"github.com/toeirei/railbook/internal/security"
	"github.com/toeirei/railbook/internal/store"
)

// ErrInvalidCredentials is returned by Login when no user matches.
var ErrInvalidCredentials = errors.New("invalid credentials")

// App holds the loaded services for one process.
type App struct {
	Config    config.Config
	Catalog   *catalog.Catalog
	Directory *directory.Directory
	Booking   *booking.Coordinator

	backend *store.Backend
}

// Open connects the configured backend and loads both collections. Read
// errors on either collection are logged and the app starts with what it
// could load; only a backend that cannot be opened is fatal.
func Open(ctx context.Context, cfg config.Config, hasher security.Hasher) (*App, error) {
	backend, err := store.OpenBackend(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	return newApp(ctx, cfg, backend, hasher), nil
}

func newApp(ctx context.Context, cfg config.Config, backend *store.Backend, hasher security.Hasher) *App {
	if hasher == nil {
		hasher = security.NewBcryptHasher(security.DefaultCost)
	}
	cat, err := catalog.Load(ctx, store.Open[model.Train](backend, store.TrainsCollection), cfg.Seats.Rows, cfg.Seats.Cols)
	if err != nil {
		logging.Warnf("loading trains: %v", err)
	}
	dir, err := directory.Load(ctx, store.Open[model.User](backend, store.UsersCollection), hasher)
	if err != nil {
		logging.Warnf("loading users: %v", err)
	}
	logging.Debugf("loaded %d train(s) and %d user(s) from %s storage", cat.Len(), dir.Len(), storageLabel(cfg.Storage))
	return &App{
		Config:    cfg,
		Catalog:   cat,
		Directory: dir,
		Booking:   booking.NewCoordinator(cat, dir, cfg.Booking.ReleaseSeatOnCancel),
		backend:   backend,
	}
}

func storageLabel(s config.StorageConfig) string {
	if s.Type == "" || s.Type == "json" {
		return "json (" + s.Dir + ")"
	}
	return s.Type
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.backend.Close()
}

// Login starts a session for the user matching login and password. The
// password is zeroed before returning.
func (a *App) Login(login string, password security.Secret) (*booking.Session, error) {
	defer password.Zero()
	u, ok := a.Directory.FindByCredential(strings.TrimSpace(login), password)
	if !ok {
		logging.Debugf("login failed for %q", login)
		return nil, ErrInvalidCredentials
	}
	logging.Infof("user %s logged in", u.UserID)
	return booking.NewSession(u), nil
}

// SignUp registers a new user. The password is zeroed before returning.
func (a *App) SignUp(ctx context.Context, name, email, phone string, password security.Secret) (model.User, error) {
	defer password.Zero()
	if strings.TrimSpace(email) == "" && strings.TrimSpace(phone) == "" {
		return model.User{}, fmt.Errorf("%w: email or phone is required", ErrInvalidInput)
	}
	return a.Directory.SignUp(ctx, name, email, phone, password)
}

// ErrInvalidInput marks user input rejected before any service call.
var ErrInvalidInput = errors.New("invalid input")
