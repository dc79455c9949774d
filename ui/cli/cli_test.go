// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/toeirei/railbook/internal/security"
	"github.com/toeirei/railbook/internal/testutil"
)

const trainsYAML = `
- trainNo: "12051"
  trainName: Jan Shatabdi
  stations: [Mumbai, Pune, Hyderabad]
  seats: [[0, 0], [0, 0]]
- trainNo: "22691"
  trainName: Rajdhani
  stations: [Bangalore, Delhi]
`

// setupCLI isolates config lookup and swaps slow or interactive helpers.
func setupCLI(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	origHasher, origWrite, origTerm, origCopy, origNow := newHasher, writeDefaultConfig, isTerminal, copyToClipboard, now
	newHasher = func() security.Hasher { return testutil.FakeHasher{} }
	writeDefaultConfig = false
	isTerminal = func() bool { return false }
	copyToClipboard = func(string) error { return nil }
	now = func() time.Time { return time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC) }
	t.Cleanup(func() {
		newHasher, writeDefaultConfig, isTerminal, copyToClipboard, now = origHasher, origWrite, origTerm, origCopy, origNow
	})
	return filepath.Join(t.TempDir(), "localDB")
}

// run executes the root command with the storage dir and returns stdout.
func run(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--storage.dir", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dir, stdin string, args ...string) string {
	t.Helper()
	out, err := run(t, dir, stdin, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

func importTrains(t *testing.T, dir string) {
	t.Helper()
	out := mustRun(t, dir, trainsYAML, "trains", "import", "-")
	if !strings.Contains(out, "2 added, 0 updated") {
		t.Fatalf("unexpected import output %q", out)
	}
}

func signUp(t *testing.T, dir string) {
	t.Helper()
	out := mustRun(t, dir, "secret\n", "signup", "--name", "Asha", "--email", "asha@example.com", "--phone", "9000", "--password-stdin")
	if !strings.Contains(out, "User registered successfully!") {
		t.Fatalf("unexpected signup output %q", out)
	}
}

func TestTrainsListAndSearch(t *testing.T) {
	dir := setupCLI(t)

	if out := mustRun(t, dir, "", "trains", "list"); !strings.Contains(out, "No trains in the catalog.") {
		t.Fatalf("expected empty catalog message, got %q", out)
	}
	importTrains(t, dir)

	out := mustRun(t, dir, "", "trains", "list")
	if !strings.Contains(out, "12051") || !strings.Contains(out, "22691") || !strings.Contains(out, "Mumbai > Pune > Hyderabad") {
		t.Fatalf("list missing trains: %q", out)
	}

	out = mustRun(t, dir, "", "trains", "search", " mumbai ", "HYDERABAD")
	if !strings.Contains(out, "Jan Shatabdi") || strings.Contains(out, "Rajdhani") {
		t.Fatalf("unexpected search output %q", out)
	}
	out = mustRun(t, dir, "", "trains", "search", "Hyderabad", "Mumbai")
	if !strings.Contains(out, "No trains found for this route.") {
		t.Fatalf("reverse direction should find nothing, got %q", out)
	}

	if _, err := run(t, dir, "", "trains", "seats", "99999"); err == nil || !strings.Contains(err.Error(), "Train 99999 not found.") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestTrainsImport_FromFile(t *testing.T) {
	dir := setupCLI(t)
	path := filepath.Join(t.TempDir(), "trains.yaml")
	if err := os.WriteFile(path, []byte(trainsYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	mustRun(t, dir, "", "trains", "import", path)
	out := mustRun(t, dir, "", "trains", "import", path)
	if !strings.Contains(out, "0 added, 2 updated") {
		t.Fatalf("re-import should update, got %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "trains.json")); err != nil {
		t.Fatalf("expected trains.json to be written: %v", err)
	}
}

var ticketIDPattern = regexp.MustCompile(`Ticket ID: (\S+)`)

func TestBookTicketsCancel(t *testing.T) {
	dir := setupCLI(t)
	importTrains(t, dir)
	signUp(t, dir)

	var copied string
	copyToClipboard = func(s string) error { copied = s; return nil }

	out := mustRun(t, dir, "secret\n", "book", "12051", "0", "1", "--login", "ASHA@example.com", "--password-stdin", "--date", "24-12-2026 09:30 AM", "--copy")
	if !strings.Contains(out, "Seat booked successfully!") || !strings.Contains(out, "Seat: Row 0, Seat 1") || !strings.Contains(out, "Travel Date: 24-12-2026 09:30 AM") {
		t.Fatalf("unexpected book output %q", out)
	}
	m := ticketIDPattern.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("no ticket id in %q", out)
	}
	ticketID := m[1]
	if copied != ticketID {
		t.Fatalf("clipboard got %q, want %q", copied, ticketID)
	}

	if _, err := run(t, dir, "secret\n", "book", "12051", "0", "1", "--login", "9000", "--password-stdin"); err == nil || err.Error() != "Seat already booked!" {
		t.Fatalf("expected seat booked error, got %v", err)
	}
	if _, err := run(t, dir, "secret\n", "book", "12051", "5", "0", "--login", "9000", "--password-stdin"); err == nil || err.Error() != "Invalid seat index!" {
		t.Fatalf("expected invalid seat error, got %v", err)
	}

	if out := mustRun(t, dir, "", "trains", "seats", "12051"); !strings.Contains(out, "Row 0: 0 1 \nRow 1: 0 0 \n") {
		t.Fatalf("unexpected seat map %q", out)
	}

	out = mustRun(t, dir, "secret\n", "tickets", "--login", "9000", "--password-stdin")
	if !strings.Contains(out, ticketID) || !strings.Contains(out, "Route: Mumbai -> Hyderabad") {
		t.Fatalf("tickets output missing booking: %q", out)
	}

	if _, err := run(t, dir, "secret\n", "cancel", "nope", "--login", "9000", "--password-stdin"); err == nil || err.Error() != "Ticket not found." {
		t.Fatalf("expected not found, got %v", err)
	}
	out = mustRun(t, dir, "secret\n", "cancel", ticketID, "--login", "9000", "--password-stdin")
	if !strings.Contains(out, "Booking canceled successfully!") {
		t.Fatalf("unexpected cancel output %q", out)
	}
	if out := mustRun(t, dir, "secret\n", "tickets", "--login", "9000", "--password-stdin"); !strings.Contains(out, "No bookings yet.") {
		t.Fatalf("expected no bookings, got %q", out)
	}
	// Cancelling keeps the seat held unless release is enabled.
	if out := mustRun(t, dir, "", "trains", "seats", "12051"); !strings.Contains(out, "Row 0: 0 1 ") {
		t.Fatalf("seat should stay booked after cancel, got %q", out)
	}
}

func TestCancel_ReleasesSeatWhenConfigured(t *testing.T) {
	dir := setupCLI(t)
	importTrains(t, dir)
	signUp(t, dir)

	out := mustRun(t, dir, "secret\n", "book", "12051", "1", "0", "--login", "9000", "--password-stdin")
	ticketID := ticketIDPattern.FindStringSubmatch(out)[1]
	mustRun(t, dir, "secret\n", "--booking.release_seat_on_cancel", "cancel", ticketID, "--login", "9000", "--password-stdin")
	if out := mustRun(t, dir, "", "trains", "seats", "12051"); !strings.Contains(out, "Row 1: 0 0 ") {
		t.Fatalf("seat should be free again, got %q", out)
	}
}

func TestBook_InvalidDateFallsBackToNow(t *testing.T) {
	dir := setupCLI(t)
	importTrains(t, dir)
	signUp(t, dir)
	out := mustRun(t, dir, "secret\n", "book", "22691", "0", "0", "--login", "9000", "--password-stdin", "--date", "tomorrow")
	if !strings.Contains(out, "Travel Date: 01-10-2026 08:00 AM") {
		t.Fatalf("expected fallback date, got %q", out)
	}
}

func TestAuthFailures(t *testing.T) {
	dir := setupCLI(t)
	importTrains(t, dir)
	signUp(t, dir)

	if _, err := run(t, dir, "wrong\n", "tickets", "--login", "9000", "--password-stdin"); err == nil || err.Error() != "Invalid credentials." {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := run(t, dir, "", "tickets", "--login", "9000"); err == nil || !strings.Contains(err.Error(), "--password-stdin") {
		t.Fatalf("expected password prompt error without a terminal, got %v", err)
	}
	if _, err := run(t, dir, "secret\n", "signup", "--name", "Dup", "--email", "asha@example.com", "--password-stdin"); err == nil || !strings.Contains(err.Error(), "Registration failed") {
		t.Fatalf("expected duplicate signup error, got %v", err)
	}
}

func TestBackupRestore(t *testing.T) {
	dir := setupCLI(t)
	importTrains(t, dir)
	signUp(t, dir)

	archive := filepath.Join(t.TempDir(), "snap", "railbook.json.zst")
	if out := mustRun(t, dir, "", "backup", archive); !strings.Contains(out, archive) {
		t.Fatalf("unexpected backup output %q", out)
	}

	fresh := filepath.Join(t.TempDir(), "restored")
	out := mustRun(t, fresh, "", "restore", archive, "--full")
	if !strings.Contains(out, "Restored 2 train(s) and 1 user(s).") {
		t.Fatalf("unexpected restore output %q", out)
	}
	// The restored user can log in.
	if out := mustRun(t, fresh, "secret\n", "tickets", "--login", "asha@example.com", "--password-stdin"); !strings.Contains(out, "No bookings yet.") {
		t.Fatalf("restored user cannot list tickets: %q", out)
	}

	// Merging the same archive again adds no users.
	out = mustRun(t, fresh, "", "restore", archive)
	if !strings.Contains(out, "Restored 2 train(s) and 0 user(s).") {
		t.Fatalf("unexpected merge output %q", out)
	}
}

func TestMigrate_ToSQLite(t *testing.T) {
	dir := setupCLI(t)
	importTrains(t, dir)

	if _, err := run(t, dir, "", "migrate", "--to-type", "sqlite"); err == nil {
		t.Fatal("expected error for missing dsn")
	}
	dsn := filepath.Join(t.TempDir(), "railbook.db")
	out := mustRun(t, dir, "", "migrate", "--to-type", "sqlite", "--to-dsn", dsn)
	if !strings.Contains(out, "Migrated 2 train(s) and 0 user(s) to sqlite storage.") {
		t.Fatalf("unexpected migrate output %q", out)
	}

	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--storage.type", "sqlite", "--storage.dsn", dsn, "trains", "list"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("list from sqlite: %v", err)
	}
	if !strings.Contains(buf.String(), "12051") {
		t.Fatalf("sqlite store missing migrated trains: %q", buf.String())
	}
}

func TestConfigCommand_PrintsEffectiveConfig(t *testing.T) {
	dir := setupCLI(t)
	out := mustRun(t, dir, "", "--language", "de", "config")
	if !strings.Contains(out, "language: de") || !strings.Contains(out, "dir: "+dir) {
		t.Fatalf("unexpected config output %q", out)
	}
}

func TestConfigFlag_MissingFile(t *testing.T) {
	dir := setupCLI(t)
	if _, err := run(t, dir, "", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "config"); err == nil {
		t.Fatal("expected error for missing --config file")
	}
}

func TestConfigFlag_ReadsFile(t *testing.T) {
	setupCLI(t)
	dataDir := filepath.Join(t.TempDir(), "fromfile")
	path := filepath.Join(t.TempDir(), "railbook.yaml")
	content := "storage:\n  type: json\n  dir: " + dataDir + "\nseats:\n  rows: 2\n  cols: 3\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(trainsYAML))
	cmd.SetArgs([]string{"--config", path, "trains", "import", "-"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("import with config file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "trains.json")); err != nil {
		t.Fatalf("expected trains.json under configured dir: %v", err)
	}
}
