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

import "errors"

var (
	// ErrInvalidRequest is returned for bad input, before any I/O.
	ErrInvalidRequest = errors.New("invalid launch request")
	// ErrInstallFailed wraps a failure reported by the install collaborator.
	ErrInstallFailed = errors.New("install failed")
	// ErrLaunchFailed wraps a failure to build the command or spawn the game.
	ErrLaunchFailed = errors.New("launch failed")
	// ErrBusy is returned when a launch is already in flight.
	ErrBusy = errors.New("launch already in progress")
)
