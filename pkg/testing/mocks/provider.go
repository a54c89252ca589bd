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

package mocks

import (
	"context"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/launch"
	"github.com/stretchr/testify/mock"
)

// MockProvider is a testify mock for launch.Provider.
//
// Install expectations can drive the callbacks with Run:
//
//	p.On("Install", mock.Anything, "1.20.1", mock.Anything, mock.Anything).
//		Run(func(args mock.Arguments) {
//			cb := args.Get(3).(launch.Callbacks)
//			cb.ProgressMax(10)
//		}).Return(nil)
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Versions(ctx context.Context, baseDir string) ([]launch.Version, error) {
	called := m.Called(ctx, baseDir)
	versions, _ := called.Get(0).([]launch.Version)
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return versions, called.Error(1)
}

func (m *MockProvider) Install(
	ctx context.Context,
	versionID, baseDir string,
	cb launch.Callbacks,
) error {
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return m.Called(ctx, versionID, baseDir, cb).Error(0)
}

func (m *MockProvider) Command(
	ctx context.Context,
	versionID, baseDir string,
	opts launch.Options,
) ([]string, error) {
	called := m.Called(ctx, versionID, baseDir, opts)
	argv, _ := called.Get(0).([]string)
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return argv, called.Error(1)
}
