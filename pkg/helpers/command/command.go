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

// Package command provides an abstraction over exec.Cmd so launching a game
// can be mocked in tests.
package command

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
)

// StartOptions configures how a child process is started.
type StartOptions struct {
	// Stdout and Stderr receive the child's output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
	// Dir is the working directory of the child. Empty means the caller's.
	Dir string
	// Env is appended to the current environment.
	Env []string
	// HideWindow prevents a console window from appearing (Windows-only).
	HideWindow bool
	// Detach puts the child in its own process group so it outlives an
	// interrupted launcher (Unix-only).
	Detach bool
}

// Process is a started child process.
type Process interface {
	Pid() int
	// Wait blocks until the process exits.
	Wait() error
}

// Executor starts child processes.
type Executor interface {
	// Start starts a command without waiting for it to complete.
	// Returns an error if the command fails to start.
	Start(ctx context.Context, opts StartOptions, name string, args ...string) (Process, error)
}

// RealExecutor uses exec.Cmd to start real processes.
type RealExecutor struct{}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Pid() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

//nolint:wrapcheck // Wrapping exec errors loses important context
func (p *execProcess) Wait() error {
	return p.cmd.Wait()
}

// Start starts name with args using exec.CommandContext.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (*RealExecutor) Start(
	ctx context.Context,
	opts StartOptions,
	name string,
	args ...string,
) (Process, error) {
	if name == "" {
		return nil, errors.New("empty command name")
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	applyPlatformOptions(cmd, opts)

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd}, nil
}
