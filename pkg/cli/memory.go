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

	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers"
	"github.com/docker/go-units"
	"github.com/spf13/cobra"
)

func newMemoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "memory",
		Short: "List selectable memory sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			total, err := app.TotalMemory()
			if err != nil {
				return fmt.Errorf("error reading system memory: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Total memory: %s\n", units.BytesSize(float64(total)))

			current := app.Cfg.DefaultMemoryGB()
			for _, gb := range helpers.MemoryChoices(total) {
				marker := " "
				if gb == current {
					marker = "*"
				}
				_, _ = fmt.Fprintf(out, "%s %d GB\n", marker, gb)
			}
			return nil
		},
	}
}
