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

// Package cli implements the launcher command line: installing and starting
// versions, listing the catalog and showing memory choices.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZaparooProject/zaparoo-launcher/internal/telemetry"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/command"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/launch"
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	ExitOK             = 0
	ExitError          = 1
	ExitInvalidRequest = 2
	ExitInstallFailed  = 3
	ExitLaunchFailed   = 4
	ExitBusy           = 5
	ExitInterrupted    = 130
)

const skipSetupAnnotation = "skip-setup"

// GlobalOptions are the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	Debug      bool
	Verbose    bool
}

// App is the environment commands run against once setup is done.
type App struct {
	Cfg         *config.Instance
	Provider    launch.Provider
	Exec        command.Executor
	TotalMemory func() (uint64, error)
	BaseDir     string
	Verbose     bool
}

type SetupFunc func(opts GlobalOptions, stderr io.Writer) (*App, error)

// Setup prepares directories, logging, config and error reporting, and
// returns an App backed by the configured catalog.
func Setup(opts GlobalOptions, stderr io.Writer) (*App, error) {
	if err := helpers.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("error creating directories: %w", err)
	}

	var writers []io.Writer
	if opts.Verbose {
		writers = append(writers, stderr)
	}
	if err := helpers.InitLogging(helpers.LogDir(), writers); err != nil {
		return nil, fmt.Errorf("error initializing logging: %w", err)
	}

	var cfg *config.Instance
	var err error
	if opts.ConfigPath != "" {
		cfg, err = config.NewConfigAt(opts.ConfigPath, config.BaseDefaults)
	} else {
		cfg, err = config.NewConfig(helpers.ConfigDir(), config.BaseDefaults)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	helpers.SetLogLevel(opts.Debug || cfg.DebugLogging())

	if err := telemetry.Init(telemetry.Options{
		Enabled:    cfg.ErrorReporting(),
		DSN:        cfg.SentryDSN(),
		InstallID:  cfg.InstallID(),
		AppVersion: config.AppVersion,
		Secrets:    []string{cfg.DefaultUsername()},
	}); err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}

	log.Info().Msgf("%s v%s starting, config: %s", config.AppName, config.AppVersion, cfg.Path())

	return &App{
		Cfg:         cfg,
		Provider:    catalog.NewProviderFromConfig(cfg),
		Exec:        &command.RealExecutor{},
		TotalMemory: helpers.TotalMemory,
		BaseDir:     cfg.BaseDir(helpers.GameDir()),
		Verbose:     opts.Verbose,
	}, nil
}

// NewRootCmd builds the command tree. setup runs before any command that
// needs an App.
func NewRootCmd(setup SetupFunc) *cobra.Command {
	var opts GlobalOptions
	app := &App{}

	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Install and launch game versions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipSetupAnnotation] != "" {
				return nil
			}
			a, err := setup(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			*app = *a
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "path to config file")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.Verbose, "verbose", false, "also write logs and game output to the terminal")

	root.AddCommand(
		newLaunchCmd(app),
		newVersionsCmd(app),
		newMemoryCmd(app),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the launcher version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetupAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n", config.AppName, config.AppVersion)
			return nil
		},
	}
}

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, launch.ErrInvalidRequest):
		return ExitInvalidRequest
	case errors.Is(err, launch.ErrInstallFailed):
		return ExitInstallFailed
	case errors.Is(err, launch.ErrLaunchFailed):
		return ExitLaunchFailed
	case errors.Is(err, launch.ErrBusy):
		return ExitBusy
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return ExitError
	}
}

// Execute runs the command tree with args and returns the exit code.
func Execute(ctx context.Context, root *cobra.Command, args []string, stdout, stderr io.Writer) int {
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		log.Error().Err(err).Msg("command failed")
		_, _ = fmt.Fprintln(stderr, color.RedString("Error: %v", err))
	}
	return ExitCode(err)
}

// Run is the entry point used by main.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer telemetry.Close()

	code := Execute(ctx, NewRootCmd(Setup), args, os.Stdout, os.Stderr)
	telemetry.Flush()
	return code
}
