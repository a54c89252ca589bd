// Zaparoo Launcher
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Launcher.
//
// Zaparoo Launcher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Launcher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Launcher.  If not, see <http://www.gnu.org/licenses/>.

package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/launch"
	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
)

const (
	formatTable = "table"
	formatCSV   = "csv"
)

type versionRow struct {
	ID          string `csv:"id"`
	Type        string `csv:"type"`
	ReleaseTime string `csv:"release_time"`
	Installed   bool   `csv:"installed"`
}

func toRows(versions []launch.Version, installedOnly bool) []versionRow {
	rows := make([]versionRow, 0, len(versions))
	for _, v := range versions {
		if installedOnly && !v.Installed {
			continue
		}
		released := ""
		if !v.ReleaseTime.IsZero() {
			released = v.ReleaseTime.UTC().Format(time.DateOnly)
		}
		rows = append(rows, versionRow{
			ID:          v.ID,
			Type:        v.Type,
			ReleaseTime: released,
			Installed:   v.Installed,
		})
	}
	return rows
}

func newVersionsCmd(app *App) *cobra.Command {
	var format string
	var installedOnly bool

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List available versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != formatTable && format != formatCSV {
				return fmt.Errorf("unknown format %q, expected %s or %s", format, formatTable, formatCSV)
			}

			versions, err := app.Provider.Versions(cmd.Context(), app.BaseDir)
			if err != nil {
				return fmt.Errorf("error listing versions: %w", err)
			}
			rows := toRows(versions, installedOnly)

			if format == formatCSV {
				if err := gocsv.Marshal(rows, cmd.OutOrStdout()); err != nil {
					return fmt.Errorf("error writing csv: %w", err)
				}
				return nil
			}
			return writeTable(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table or csv")
	cmd.Flags().BoolVar(&installedOnly, "installed", false, "only list installed versions")
	return cmd
}

func writeTable(out io.Writer, rows []versionRow) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTYPE\tRELEASED\tINSTALLED")
	for _, r := range rows {
		installed := ""
		if r.Installed {
			installed = "yes"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Type, r.ReleaseTime, installed)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("error writing table: %w", err)
	}
	return nil
}
