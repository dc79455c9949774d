// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/toeirei/railbook/internal/core"
	"github.com/toeirei/railbook/internal/i18n"
	"github.com/toeirei/railbook/internal/model"
)

func newTrainsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trains",
		Short: "Inspect and import trains",
	}
	cmd.AddCommand(newTrainsListCmd(), newTrainsSearchCmd(), newTrainsSeatsCmd(), newTrainsImportCmd())
	return cmd
}

func newTrainsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every train in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return printTrains(cmd.OutOrStdout(), app.Catalog.All())
		},
	}
}

func newTrainsSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <source> <destination>",
		Short: "Find trains that stop at source before destination",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			found := app.Catalog.Search(args[0], args[1])
			if len(found) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), i18n.T("search.no_trains"))
				return err
			}
			return printTrains(cmd.OutOrStdout(), found)
		},
	}
}

func newTrainsSeatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seats <train-no>",
		Short: "Show the seat map of a train (0 free, 1 booked)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			train, ok := app.Catalog.Get(args[0])
			if !ok {
				return errors.New(i18n.T("cli.train_not_found", args[0]))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, train.Info())
			_, err = fmt.Fprint(out, train.Seats.String())
			return err
		},
	}
}

func newTrainsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Add or replace trains from a YAML or JSON list",
		Long: `Reads a list of trains and upserts each one into the catalog by train
number. Both YAML and JSON input are accepted. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[0], err)
				}
				defer func() { _ = f.Close() }()
				r = f
			}
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			res, err := core.ImportTrains(cmd.Context(), r, app)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.import_done", res.Added, res.Updated))
			return err
		},
	}
}

func printTrains(w io.Writer, trains []model.Train) error {
	if len(trains) == 0 {
		_, err := fmt.Fprintln(w, i18n.T("cli.trains_none"))
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(i18n.T("trains.col.no"), i18n.T("trains.col.name"), i18n.T("trains.col.route"), i18n.T("trains.col.free"))
	for _, tr := range trains {
		t.Row(tr.TrainNo, tr.TrainName, strings.Join(tr.Stations, " > "), strconv.Itoa(tr.Seats.FreeCount()))
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
