// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/toeirei/railbook/internal/config"
	"github.com/toeirei/railbook/internal/core"
	"github.com/toeirei/railbook/internal/i18n"
)

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [file|-]",
		Short: "Write a compressed snapshot of all trains and users",
		Long: `Writes a zstd-compressed JSON archive holding every train and user.
Without an argument a timestamped file is created in the current
directory. Use "-" to write the archive to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			target := ""
			if len(args) == 1 {
				target = args[0]
			}
			if target == "-" {
				return core.WriteBackup(app, cmd.OutOrStdout())
			}
			if target == "" {
				target = fmt.Sprintf("railbook-backup-%s.json.zst", now().Format("20060102-150405"))
			}
			if dir := filepath.Dir(target); dir != "." {
				if err := os.MkdirAll(dir, 0o700); err != nil {
					return err
				}
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
			if err != nil {
				return fmt.Errorf("create backup file: %w", err)
			}
			if err := core.WriteBackup(app, f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.backup_written", target))
			return err
		},
	}
}

func newRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <file|->",
		Short: "Restore trains and users from a backup archive",
		Long: `Reads an archive written by "backup". By default the archive is merged:
trains are added or replaced by number and users that do not exist yet
are appended. With --full both collections are replaced entirely.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open backup file: %w", err)
				}
				defer func() { _ = f.Close() }()
				r = f
			}
			full, _ := cmd.Flags().GetBool("full")

			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			res, err := core.Restore(cmd.Context(), r, core.RestoreOptions{Full: full}, app)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res.SkippedUsers > 0 {
				fmt.Fprintln(out, i18n.T("cli.restore_skipped", res.SkippedUsers))
			}
			_, err = fmt.Fprintln(out, i18n.T("cli.restore_done", res.Trains, res.Users))
			return err
		},
	}
	cmd.Flags().Bool("full", false, "Replace all trains and users instead of merging")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy all trains and users to another storage backend",
		Long: `Copies the current trains and users into the target storage, replacing
what it held. The source is the storage selected by --storage.* or the
config file; the target is described by the --to-* flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var target config.StorageConfig
			target.Type, _ = cmd.Flags().GetString("to-type")
			target.Dsn, _ = cmd.Flags().GetString("to-dsn")
			target.Dir, _ = cmd.Flags().GetString("to-dir")
			if target.Type == "" {
				return errors.New(i18n.T("cli.migrate_target_required"))
			}
			if target.Type != "json" && target.Dsn == "" {
				return errors.New(i18n.T("cli.migrate_target_required"))
			}
			if target.Type == "json" && target.Dir == "" {
				return errors.New(i18n.T("cli.migrate_target_required"))
			}

			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			if err := core.Migrate(cmd.Context(), app, target); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.migrate_done", app.Catalog.Len(), app.Directory.Len(), target.Type))
			return err
		},
	}
	cmd.Flags().String("to-type", "", `Target storage type ("json", "sqlite", "postgres", "mysql")`)
	cmd.Flags().String("to-dsn", "", "Target DSN for SQL storage")
	cmd.Flags().String("to-dir", "", "Target directory for json storage")
	return cmd
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(&appConfig)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
