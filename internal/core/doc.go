// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

// Package core wires configuration, storage and the booking services into an
// App, and offers the facades shared by the CLI and the TUI: login, sign-up,
// train import, backup, restore and storage migration. It performs no
// terminal I/O.
package core
