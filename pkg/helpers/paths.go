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

package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/adrg/xdg"
)

// UserDir is the name of a directory placed beside the executable to make
// the launcher portable. When it exists, all config and data live inside it.
const UserDir = "user"

// ExeEnv overrides the executable path used to look for UserDir.
const ExeEnv = "ZAPAROO_LAUNCHER_EXE"

var (
	userDirOnce   sync.Once
	userDirCache  string
	userDirExists bool
)

func findUserDir(exePath string) (string, bool) {
	userDir := filepath.Join(filepath.Dir(exePath), UserDir)
	info, err := os.Stat(userDir)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return userDir, true
}

// HasUserDir reports whether the launcher runs in portable mode.
func HasUserDir() (string, bool) {
	userDirOnce.Do(func() {
		exePath := os.Getenv(ExeEnv)
		if exePath == "" {
			var err error
			exePath, err = os.Executable()
			if err != nil {
				return
			}
		}
		userDirCache, userDirExists = findUserDir(exePath)
	})
	return userDirCache, userDirExists
}

func ConfigDir() string {
	if v, ok := HasUserDir(); ok {
		return v
	}
	return filepath.Join(xdg.ConfigHome, config.AppName)
}

func DataDir() string {
	if v, ok := HasUserDir(); ok {
		return v
	}
	return filepath.Join(xdg.DataHome, config.AppName)
}

func LogDir() string {
	if v, ok := HasUserDir(); ok {
		return filepath.Join(v, "logs")
	}
	return filepath.Join(xdg.StateHome, config.AppName)
}

// GameDir is the default base directory handed to the install collaborator.
// It is owned by this launcher alone and never shared with other launchers.
func GameDir() string {
	return filepath.Join(DataDir(), config.GameDir)
}

// EnsureDirectories creates the config, data and log directories.
func EnsureDirectories() error {
	for _, dir := range []string{ConfigDir(), DataDir(), LogDir()} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
