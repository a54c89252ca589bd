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

package launch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/command"
	"github.com/rs/zerolog/log"
)

// Process describes a started game.
type Process struct {
	StartedAt time.Time
	SessionID string
	VersionID string
	Args      []string
	PID       int
}

// ProcessLauncher starts a resolved command. Output is not captured and the
// exit code is not inspected.
type ProcessLauncher struct {
	exec   command.Executor
	stdout io.Writer
	stderr io.Writer
	wait   bool
}

// NewProcessLauncher returns a launcher that, when wait is set, blocks until
// the game exits before reporting the launch finished.
func NewProcessLauncher(exec command.Executor, wait bool) *ProcessLauncher {
	return &ProcessLauncher{exec: exec, wait: wait}
}

// WithOutput passes the game's stdout and stderr through to w.
func (l *ProcessLauncher) WithOutput(stdout, stderr io.Writer) *ProcessLauncher {
	l.stdout = stdout
	l.stderr = stderr
	return l
}

// Launch starts argv[0] with the remaining args in dir. onStart is called
// with the child PID as soon as it is running.
func (l *ProcessLauncher) Launch(
	ctx context.Context,
	argv []string,
	dir string,
	onStart func(pid int),
) error {
	if len(argv) == 0 || argv[0] == "" {
		return fmt.Errorf("%w: empty command", ErrLaunchFailed)
	}

	log.Debug().Strs("args", argv).Msgf("starting process: %s", argv[0])

	proc, err := l.exec.Start(ctx, command.StartOptions{
		Dir:        dir,
		Stdout:     l.stdout,
		Stderr:     l.stderr,
		HideWindow: true,
		Detach:     !l.wait,
	}, argv[0], argv[1:]...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLaunchFailed, err)
	}

	pid := proc.Pid()
	log.Info().Msgf("process started: pid %d", pid)
	if onStart != nil {
		onStart(pid)
	}

	if !l.wait {
		return nil
	}

	if err := proc.Wait(); err != nil {
		log.Debug().Err(err).Msgf("process %d exited", pid)
	} else {
		log.Debug().Msgf("process %d exited", pid)
	}
	return nil
}
