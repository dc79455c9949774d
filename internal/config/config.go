// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config provides configuration loading, merging, and persistence
// helpers for Railbook. It uses Viper for file/env/flag parsing and writes
// configuration files with goccy/go-yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	Storage  StorageConfig `mapstructure:"storage" yaml:"storage"`
	Seats    SeatsConfig   `mapstructure:"seats" yaml:"seats"`
	Booking  BookingConfig `mapstructure:"booking" yaml:"booking"`
	Language string        `mapstructure:"language" yaml:"language"`
	Log      LogConfig     `mapstructure:"log" yaml:"log"`
}

// StorageConfig selects where the train and user collections live.
type StorageConfig struct {
	// Type is one of "json", "sqlite", "postgres", "mysql".
	Type string `mapstructure:"type" yaml:"type"`
	// Dir holds trains.json and users.json for the json backend.
	Dir string `mapstructure:"dir" yaml:"dir"`
	// Dsn is the connection string for the SQL backends.
	Dsn string `mapstructure:"dsn" yaml:"dsn"`
}

// SeatsConfig is the default grid assigned to trains loaded without seats.
type SeatsConfig struct {
	Rows int `mapstructure:"rows" yaml:"rows"`
	Cols int `mapstructure:"cols" yaml:"cols"`
}

// BookingConfig tunes the booking coordinator.
type BookingConfig struct {
	ReleaseSeatOnCancel bool `mapstructure:"release_seat_on_cancel" yaml:"release_seat_on_cancel"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	// File receives log output while the TUI is running. Empty discards it.
	File string `mapstructure:"file" yaml:"file"`
}

// Defaults returns the default key/value map used by LoadConfig.
func Defaults() map[string]any {
	return map[string]any{
		"storage.type":                   "json",
		"storage.dir":                    "./localDB",
		"storage.dsn":                    "./railbook.db",
		"seats.rows":                     10,
		"seats.cols":                     6,
		"booking.release_seat_on_cancel": false,
		"language":                       "en",
		"log.level":                      "info",
		"log.file":                       "",
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Railbook")
		default: // Linux, macOS, etc.
			configDir = "/etc/railbook"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "railbook")
	}

	return filepath.Join(configDir, "railbook.yaml"), nil
}

// LoadConfig resolves configuration from defaults, config files, environment
// variables (RAILBOOK_*) and the flags of cmd, in increasing precedence.
// A missing config file is reported as viper.ConfigFileNotFoundError together
// with the fully defaulted config.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, additionalConfigFilePath *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("railbook")
	v.SetConfigType("yaml")

	// An explicit --config file takes precedence over the search paths.
	if additionalConfigFilePath != nil {
		v.SetConfigFile(*additionalConfigFilePath)
	}

	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	var notFound error
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
		notFound = err
	}

	v.SetEnvPrefix("railbook")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, notFound
}

// WriteConfigFile persists c to the user (or system) config path.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	return os.WriteFile(path, data, 0600)
}
