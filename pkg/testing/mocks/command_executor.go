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

	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/command"
	"github.com/stretchr/testify/mock"
)

// MockCommandExecutor is a testify mock for command.Executor. It allows
// testing launches without starting real processes.
//
// Example:
//
//	proc := &MockProcess{}
//	proc.On("Pid").Return(4242)
//	proc.On("Wait").Return(nil)
//	mockCmd := &MockCommandExecutor{}
//	mockCmd.On("Start", mock.Anything, mock.Anything, "java", mock.Anything).Return(proc, nil)
type MockCommandExecutor struct {
	mock.Mock
}

func (m *MockCommandExecutor) Start(
	ctx context.Context,
	opts command.StartOptions,
	name string,
	args ...string,
) (command.Process, error) {
	called := m.Called(ctx, opts, name, args)
	proc, _ := called.Get(0).(command.Process)
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return proc, called.Error(1)
}

// MockProcess is a testify mock for command.Process.
type MockProcess struct {
	mock.Mock
}

func (m *MockProcess) Pid() int {
	return m.Called().Int(0)
}

func (m *MockProcess) Wait() error {
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return m.Called().Error(0)
}

// NewStartedProcess returns a MockProcess that reports pid and exits
// cleanly.
func NewStartedProcess(pid int) *MockProcess {
	proc := &MockProcess{}
	proc.On("Pid").Return(pid)
	proc.On("Wait").Return(nil).Maybe()
	return proc
}
