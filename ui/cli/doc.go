// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for Railbook using Cobra.
// It loads configuration, opens the application core and provides commands
// that delegate to `internal/core` and the booking services. CLI code should
// remain thin and keep business rules out of command handlers.
package cli
