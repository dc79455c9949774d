// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface for Railbook: the root
// command, configuration loading and the entry point for execution.

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/toeirei/railbook/internal/config"
	"github.com/toeirei/railbook/internal/core"
	"github.com/toeirei/railbook/internal/i18n"
	"github.com/toeirei/railbook/internal/logging"
	"github.com/toeirei/railbook/internal/security"
	"github.com/toeirei/railbook/internal/tui"
)

var cfgFile string
var verbose bool

var appConfig config.Config

// newHasher builds the password hasher. Tests replace it to avoid bcrypt cost.
var newHasher = func() security.Hasher {
	return security.NewBcryptHasher(security.DefaultCost)
}

// writeDefaultConfig controls whether a first run persists a default config
// file to the user config path.
var writeDefaultConfig = true

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	appConfig, err = config.LoadConfig[config.Config](cmd, config.Defaults(), optionalConfigPath)
	// A "file not found" error is expected on first run.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		if writeDefaultConfig {
			if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
				logging.Warnf("could not write default config file: %v", writeErr)
			} else {
				logging.Debugf("wrote default config to user config path")
			}
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	level := appConfig.Log.Level
	if verbose {
		level = "debug"
	}
	if err := logging.SetLevel(level); err != nil {
		logging.Warnf("ignoring log level %q: %v", level, err)
	}

	i18n.Init(appConfig.Language)
	return nil
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// openApp opens the application core for the loaded config. Callers close it.
func openApp(cmd *cobra.Command) (*core.App, error) {
	app, err := core.Open(cmd.Context(), appConfig, newHasher())
	if err != nil {
		return nil, errors.New(i18n.T("cli.error_open_storage", err))
	}
	return app, nil
}

// applyDefaultFlags registers the flags that override config keys of the
// same name.
func applyDefaultFlags(fs *pflag.FlagSet) {
	fs.String("storage.type", "json", `Storage backend ("json", "sqlite", "postgres", "mysql")`)
	fs.String("storage.dir", "./localDB", "Directory holding trains.json and users.json")
	fs.String("storage.dsn", "./railbook.db", "Database connection string (DSN) for SQL storage")
	fs.Bool("booking.release_seat_on_cancel", false, "Free the seat when a ticket is cancelled")
}

// Execute runs the CLI entrypoint. The main package should call this
// function and handle process exit.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd creates and configures a new root cobra command. Every call
// builds fresh subcommands so tests can run commands in isolation.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "railbook",
		Short: "Railbook is a console train seat booking system.",
		Long: `Railbook lets you search trains between two stations, book a seat
from the seat map, and manage your tickets. Trains and users are kept in
JSON files (or a SQL database) that you can back up and restore.

Running without a subcommand will launch the interactive TUI.`,
		PersistentPreRunE: setupDefaultServices,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return tui.Run(cmd.Context(), app, appConfig.Log.File)
		},
	}
	cmd.Version = compositeVersion()

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `Interface language ("en", "de")`)
	applyDefaultFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newTrainsCmd(),
		newSignUpCmd(),
		newBookCmd(),
		newTicketsCmd(),
		newCancelCmd(),
		newBackupCmd(),
		newRestoreCmd(),
		newMigrateCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return cmd
}
