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
	"time"
)

// Version is an entry offered by the install collaborator.
type Version struct {
	ReleaseTime time.Time
	ID          string
	Type        string
	Installed   bool
}

// Provider is the install collaborator. It owns everything game specific:
// where versions come from, how they are installed on disk, and which
// command runs them.
type Provider interface {
	// Versions lists the versions available for baseDir. It may hit the
	// network or a local cache.
	Versions(ctx context.Context, baseDir string) ([]Version, error)
	// Install makes versionID runnable from baseDir, reporting progress
	// through cb.
	Install(ctx context.Context, versionID, baseDir string, cb Callbacks) error
	// Command returns the argv that runs an installed version.
	Command(ctx context.Context, versionID, baseDir string, opts Options) ([]string, error)
}
