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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/command"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/launch"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testBaseDir = "/data/game"

func newTestConfig(t *testing.T, content string) *config.Instance {
	t.Helper()

	path := filepath.Join(t.TempDir(), config.CfgFile)
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	cfg, err := config.NewConfigAt(path, config.BaseDefaults)
	require.NoError(t, err)
	return cfg
}

type testEnv struct {
	app      *App
	provider *mocks.MockProvider
	exec     *mocks.MockCommandExecutor
}

func newTestEnv(t *testing.T, cfgContent string) *testEnv {
	t.Helper()

	env := &testEnv{
		provider: &mocks.MockProvider{},
		exec:     &mocks.MockCommandExecutor{},
	}
	env.app = &App{
		Cfg:      newTestConfig(t, cfgContent),
		Provider: env.provider,
		Exec:     env.exec,
		BaseDir:  testBaseDir,
		TotalMemory: func() (uint64, error) {
			return 4 << 30, nil
		},
	}
	return env
}

func (e *testEnv) run(args ...string) (code int, stdout, stderr string) {
	return e.runContext(context.Background(), args...)
}

func (e *testEnv) runContext(ctx context.Context, args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	setup := func(GlobalOptions, io.Writer) (*App, error) { return e.app, nil }
	code = Execute(ctx, NewRootCmd(setup), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func (e *testEnv) offer(ids ...string) {
	versions := make([]launch.Version, 0, len(ids))
	for _, id := range ids {
		versions = append(versions, launch.Version{ID: id})
	}
	e.provider.On("Versions", mock.Anything, testBaseDir).Return(versions, nil)
}

func installing(cb func(launch.Callbacks)) func(mock.Arguments) {
	return func(args mock.Arguments) {
		cb(args.Get(3).(launch.Callbacks))
	}
}

func TestLaunchCmd_Success(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "")
	env.offer("1.20.1")
	env.provider.On("Install", mock.Anything, "1.20.1", testBaseDir, mock.Anything).
		Run(installing(func(cb launch.Callbacks) {
			cb.ProgressMax(2)
			cb.Status("Downloading client.jar")
			cb.Progress(1)
			cb.Progress(2)
			cb.Status("Installation complete")
		})).Return(nil)
	env.provider.On("Command", mock.Anything, "1.20.1", testBaseDir,
		mock.MatchedBy(func(o launch.Options) bool {
			return o.Username == "Steve" &&
				assert.ObjectsAreEqual([]string{"-Xmx4G", "-Xms4G"}, o.JVMArgs) &&
				o.SessionID != ""
		})).Return([]string{"java", "-Xmx4G", "-Xms4G", "Main"}, nil)
	env.exec.On("Start", mock.Anything, mock.Anything, "java",
		[]string{"-Xmx4G", "-Xms4G", "Main"}).Return(mocks.NewStartedProcess(99), nil)

	code, stdout, stderr := env.run("launch", "--version", "1.20.1", "--username", "Steve", "--mem", "4")

	assert.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "1.20.1 (pid 99)")
	assert.Contains(t, stderr, "Installation complete [2/2] 100%")
	env.provider.AssertExpectations(t)
	env.exec.AssertExpectations(t)
}

func TestLaunchCmd_DefaultsFromConfig(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, `
config_schema = 1

[launcher]
username = "Alex"
version = "1.19.4"
memory_gb = 3
wait_for_exit = false
`)
	env.offer("1.19.4")
	env.provider.On("Install", mock.Anything, "1.19.4", testBaseDir, mock.Anything).Return(nil)
	env.provider.On("Command", mock.Anything, "1.19.4", testBaseDir,
		mock.MatchedBy(func(o launch.Options) bool {
			return o.Username == "Alex" && o.JVMArgs[0] == "-Xmx3G"
		})).Return([]string{"java"}, nil)
	env.exec.On("Start", mock.Anything,
		mock.MatchedBy(func(o command.StartOptions) bool { return o.Detach }), "java", mock.Anything).
		Return(mocks.NewStartedProcess(7), nil)

	code, _, stderr := env.run("launch")

	assert.Equal(t, ExitOK, code, stderr)
	env.provider.AssertExpectations(t)
	env.exec.AssertExpectations(t)
}

func TestLaunchCmd_ExitCodes(t *testing.T) {
	t.Parallel()

	t.Run("invalid_memory", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, "")
		code, _, stderr := env.run("launch", "--version", "1.20.1", "--mem", "0")

		assert.Equal(t, ExitInvalidRequest, code)
		assert.Contains(t, stderr, "memory must be at least 1 GB")
		env.provider.AssertNotCalled(t, "Versions", mock.Anything, mock.Anything)
	})

	t.Run("missing_version", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, "")
		code, _, _ := env.run("launch", "--mem", "2")

		assert.Equal(t, ExitInvalidRequest, code)
		env.provider.AssertNotCalled(t, "Install", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown_version", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, "")
		env.offer("1.20.1")
		code, _, stderr := env.run("launch", "--version", "1.20.2")

		assert.Equal(t, ExitInvalidRequest, code)
		assert.Contains(t, stderr, "did you mean 1.20.1")
	})

	t.Run("install_failed", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, "")
		env.offer("1.20.1")
		env.provider.On("Install", mock.Anything, "1.20.1", testBaseDir, mock.Anything).
			Return(errors.New("network unreachable"))

		code, _, stderr := env.run("launch", "--version", "1.20.1")

		assert.Equal(t, ExitInstallFailed, code)
		assert.Contains(t, stderr, "network unreachable")
	})

	t.Run("launch_failed", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, "")
		env.offer("1.20.1")
		env.provider.On("Install", mock.Anything, "1.20.1", testBaseDir, mock.Anything).Return(nil)
		env.provider.On("Command", mock.Anything, "1.20.1", testBaseDir, mock.Anything).
			Return([]string{"java"}, nil)
		env.exec.On("Start", mock.Anything, mock.Anything, "java", mock.Anything).
			Return(nil, errors.New("executable file not found"))

		code, _, _ := env.run("launch", "--version", "1.20.1")

		assert.Equal(t, ExitLaunchFailed, code)
	})
}

func TestLaunchCmd_InterruptDuringInstall(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "")
	env.offer("1.20.1")

	entered := make(chan struct{})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	env.provider.On("Install", mock.Anything, "1.20.1", testBaseDir, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).Return(errors.New("stopped"))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-entered
		cancel()
	}()

	done := make(chan struct{})
	var (
		code   int
		stderr string
	)
	go func() {
		defer close(done)
		code, _, stderr = env.runContext(ctx, "launch", "--version", "1.20.1")
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("launch did not return after interrupt")
	}
	assert.Equal(t, ExitInterrupted, code)
	assert.Contains(t, stderr, "launch of 1.20.1 interrupted")
}

func TestLaunchCmd_InterruptWhileGameRuns(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "")
	env.offer("1.20.1")
	env.provider.On("Install", mock.Anything, "1.20.1", testBaseDir, mock.Anything).Return(nil)
	env.provider.On("Command", mock.Anything, "1.20.1", testBaseDir, mock.Anything).
		Return([]string{"java"}, nil)

	waiting := make(chan struct{})
	exited := make(chan struct{})
	t.Cleanup(func() { close(exited) })
	proc := &mocks.MockProcess{}
	proc.On("Pid").Return(11)
	proc.On("Wait").Run(func(mock.Arguments) {
		close(waiting)
		<-exited
	}).Return(nil)
	env.exec.On("Start", mock.Anything, mock.Anything, "java", mock.Anything).Return(proc, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-waiting
		cancel()
	}()

	done := make(chan struct{})
	var code int
	go func() {
		defer close(done)
		code, _, _ = env.runContext(ctx, "launch", "--version", "1.20.1")
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("launch did not return after interrupt")
	}
	assert.Equal(t, ExitInterrupted, code)
}

func TestSessionSummary(t *testing.T) {
	t.Parallel()

	proc := &launch.Process{SessionID: "sid", VersionID: "1.20.1"}
	assert.Equal(t, "session sid finished for 1.20.1", sessionSummary(proc, true))
	assert.Equal(t, "session sid started for 1.20.1, not waiting for exit", sessionSummary(proc, false))
}

func TestVersionsCmd(t *testing.T) {
	t.Parallel()

	newEnv := func(t *testing.T) *testEnv {
		env := newTestEnv(t, "")
		env.provider.On("Versions", mock.Anything, testBaseDir).Return([]launch.Version{
			{
				ID:          "1.20.1",
				Type:        "release",
				ReleaseTime: time.Date(2023, 6, 12, 13, 25, 51, 0, time.UTC),
				Installed:   true,
			},
			{
				ID:          "23w31a",
				Type:        "snapshot",
				ReleaseTime: time.Date(2023, 8, 1, 12, 0, 0, 0, time.UTC),
			},
		}, nil)
		return env
	}

	t.Run("table", func(t *testing.T) {
		t.Parallel()

		code, stdout, _ := newEnv(t).run("versions")
		require.Equal(t, ExitOK, code)
		assert.Contains(t, stdout, "ID")
		assert.Contains(t, stdout, "1.20.1")
		assert.Contains(t, stdout, "2023-06-12")
		assert.Contains(t, stdout, "23w31a")
	})

	t.Run("csv", func(t *testing.T) {
		t.Parallel()

		code, stdout, _ := newEnv(t).run("versions", "--format", "csv")
		require.Equal(t, ExitOK, code)
		assert.Equal(t,
			"id,type,release_time,installed\n"+
				"1.20.1,release,2023-06-12,true\n"+
				"23w31a,snapshot,2023-08-01,false\n",
			stdout)
	})

	t.Run("installed_only", func(t *testing.T) {
		t.Parallel()

		code, stdout, _ := newEnv(t).run("versions", "--format", "csv", "--installed")
		require.Equal(t, ExitOK, code)
		assert.Contains(t, stdout, "1.20.1")
		assert.NotContains(t, stdout, "23w31a")
	})

	t.Run("bad_format", func(t *testing.T) {
		t.Parallel()

		code, _, stderr := newEnv(t).run("versions", "--format", "xml")
		assert.Equal(t, ExitError, code)
		assert.Contains(t, stderr, "unknown format")
	})
}

func TestVersionsCmd_ProviderError(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "")
	env.provider.On("Versions", mock.Anything, testBaseDir).Return(nil, errors.New("offline"))

	code, _, stderr := env.run("versions")

	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "offline")
}

func TestMemoryCmd(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "")
	code, stdout, _ := env.run("memory")

	require.Equal(t, ExitOK, code)
	assert.Equal(t, "Total memory: 4GiB\n  1 GB\n* 2 GB\n  3 GB\n  4 GB\n", stdout)
}

func TestVersionCmd_SkipsSetup(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	setup := func(GlobalOptions, io.Writer) (*App, error) {
		return nil, errors.New("setup should not run")
	}
	code := Execute(context.Background(), NewRootCmd(setup), []string{"version"}, &out, io.Discard)

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, fmt.Sprintf("%s v%s\n", config.AppName, config.AppVersion), out.String())
}

func TestSetupFailure(t *testing.T) {
	t.Parallel()

	var errOut bytes.Buffer
	setup := func(GlobalOptions, io.Writer) (*App, error) {
		return nil, errors.New("error loading config: schema version mismatch")
	}
	code := Execute(context.Background(), NewRootCmd(setup), []string{"versions"}, io.Discard, &errOut)

	assert.Equal(t, ExitError, code)
	assert.Contains(t, errOut.String(), "schema version mismatch")
}

func TestGlobalFlagsReachSetup(t *testing.T) {
	t.Parallel()

	var got GlobalOptions
	setup := func(opts GlobalOptions, _ io.Writer) (*App, error) {
		got = opts
		return nil, errors.New("stop")
	}
	_ = Execute(context.Background(), NewRootCmd(setup),
		[]string{"--debug", "--verbose", "--config", "/tmp/c.toml", "memory"}, io.Discard, io.Discard)

	assert.Equal(t, GlobalOptions{ConfigPath: "/tmp/c.toml", Debug: true, Verbose: true}, got)
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want int
	}{
		{name: "nil", err: nil, want: ExitOK},
		{name: "invalid", err: fmt.Errorf("x: %w", launch.ErrInvalidRequest), want: ExitInvalidRequest},
		{name: "install", err: fmt.Errorf("x: %w", launch.ErrInstallFailed), want: ExitInstallFailed},
		{name: "launch", err: fmt.Errorf("x: %w", launch.ErrLaunchFailed), want: ExitLaunchFailed},
		{name: "busy", err: launch.ErrBusy, want: ExitBusy},
		{name: "interrupted", err: fmt.Errorf("x: %w", context.Canceled), want: ExitInterrupted},
		{name: "other", err: errors.New("boom"), want: ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
