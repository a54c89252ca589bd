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
	"context"
	"fmt"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/launch"
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type launchFlags struct {
	version  string
	username string
	memoryGB int
	noWait   bool
}

func newLaunchCmd(app *App) *cobra.Command {
	var f launchFlags

	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Install a version if needed and start it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if !flags.Changed("version") {
				f.version = app.Cfg.DefaultVersion()
			}
			if !flags.Changed("username") {
				f.username = app.Cfg.DefaultUsername()
			}
			if !flags.Changed("mem") {
				f.memoryGB = app.Cfg.DefaultMemoryGB()
			}
			return runLaunch(cmd, app, f)
		},
	}

	cmd.Flags().StringVar(&f.version, "version", "", "version id to launch (default from config)")
	cmd.Flags().StringVar(&f.username, "username", "", "player name (default from config)")
	cmd.Flags().IntVar(&f.memoryGB, "mem", 0, "memory for the game in GB (default from config)")
	cmd.Flags().BoolVar(&f.noWait, "no-wait", false, "return as soon as the game has started")
	return cmd
}

func runLaunch(cmd *cobra.Command, app *App, f launchFlags) error {
	out := cmd.OutOrStdout()
	wait := app.Cfg.WaitForExit() && !f.noWait

	launcher := launch.NewProcessLauncher(app.Exec, wait)
	if app.Verbose {
		launcher = launcher.WithOutput(out, cmd.ErrOrStderr())
	}
	orch := launch.NewOrchestrator(app.Provider, launcher, app.BaseDir)

	renderer := newProgressRenderer(cmd.ErrOrStderr(), progressInterval)
	unsubscribe := orch.Reporter().Subscribe(renderer.render)
	defer unsubscribe()

	job, err := orch.Launch(cmd.Context(), launch.Request{
		VersionID: f.version,
		Username:  f.username,
		MemoryGB:  f.memoryGB,
	})
	if err != nil {
		return fmt.Errorf("error starting launch: %w", err)
	}

	// The launch itself can't be cancelled; an interrupt only stops waiting
	// for it.
	ctx := cmd.Context()
	select {
	case <-job.Started():
		if wait {
			_, _ = fmt.Fprintf(out, "%s is running, waiting for it to exit\n", f.version)
		}
	case <-job.Done():
	case <-ctx.Done():
		return fmt.Errorf("launch of %s interrupted: %w", f.version, context.Cause(ctx))
	}

	select {
	case <-job.Done():
	case <-ctx.Done():
		return fmt.Errorf("launch of %s interrupted: %w", f.version, context.Cause(ctx))
	}

	proc, err := job.Wait()
	if err != nil {
		return fmt.Errorf("error launching %s: %w", f.version, err)
	}

	log.Info().Msg(sessionSummary(proc, wait))
	_, _ = fmt.Fprintf(out, "%s %s (pid %d)\n",
		color.GreenString("Launched"), proc.VersionID, proc.PID)
	return nil
}

func sessionSummary(proc *launch.Process, waited bool) string {
	if waited {
		return fmt.Sprintf("session %s finished for %s", proc.SessionID, proc.VersionID)
	}
	return fmt.Sprintf("session %s started for %s, not waiting for exit", proc.SessionID, proc.VersionID)
}
