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

// Package launch drives a single game launch: resolve the version, install
// it while reporting progress, build the launch options and start the game.
package launch

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// State is the lifecycle position of the orchestrator.
type State int32

const (
	StateIdle State = iota
	StateInstalling
	StateLaunching
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInstalling:
		return "installing"
	case StateLaunching:
		return "launching"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Job is one accepted launch running on its own goroutine.
type Job struct {
	proc    *Process
	err     error
	done    chan struct{}
	started chan struct{}
	request Request
}

func (j *Job) Request() Request {
	return j.request
}

// Done is closed once the launch reached a terminal outcome.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Started is closed once the game process is running. It is never closed
// for a failed launch.
func (j *Job) Started() <-chan struct{} {
	return j.started
}

// Wait blocks until the launch finished and returns its outcome.
func (j *Job) Wait() (*Process, error) {
	<-j.done
	return j.proc, j.err
}

// Orchestrator runs at most one launch at a time.
//
// Busy is true from an accepted Launch until its terminal outcome and is
// reset on every exit path.
type Orchestrator struct {
	provider     Provider
	launcher     *ProcessLauncher
	reporter     *Reporter
	clock        clockwork.Clock
	newSessionID func() string
	busySubs     listeners[bool]
	stateSubs    listeners[State]
	baseDir      string
	state        atomic.Int32
	busy         atomic.Bool

	// busyMu orders busy transitions with their notifications.
	busyMu syncutil.Mutex
}

type Option func(*Orchestrator)

func WithClock(c clockwork.Clock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

func WithReporter(r *Reporter) Option {
	return func(o *Orchestrator) { o.reporter = r }
}

// WithSessionIDs replaces the UUID generator used for session ids.
func WithSessionIDs(fn func() string) Option {
	return func(o *Orchestrator) { o.newSessionID = fn }
}

func NewOrchestrator(
	provider Provider,
	launcher *ProcessLauncher,
	baseDir string,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		provider:     provider,
		launcher:     launcher,
		baseDir:      baseDir,
		reporter:     NewReporter(),
		clock:        clockwork.NewRealClock(),
		newSessionID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) Reporter() *Reporter {
	return o.reporter
}

func (o *Orchestrator) BaseDir() string {
	return o.baseDir
}

func (o *Orchestrator) Busy() bool {
	return o.busy.Load()
}

func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// OnBusy registers fn for busy transitions. The returned func removes it.
// Notifications arrive in transition order; fn must not call Launch.
func (o *Orchestrator) OnBusy(fn func(busy bool)) func() {
	return o.busySubs.add(fn)
}

// OnState registers fn for state transitions. The returned func removes it.
func (o *Orchestrator) OnState(fn func(State)) func() {
	return o.stateSubs.add(fn)
}

func (o *Orchestrator) setState(s State) {
	o.state.Store(int32(s))
	o.stateSubs.emit(s)
}

// setBusy switches the busy flag to v and notifies subscribers. It reports
// false when the flag already held v.
func (o *Orchestrator) setBusy(v bool) bool {
	o.busyMu.Lock()
	defer o.busyMu.Unlock()
	if !o.busy.CompareAndSwap(!v, v) {
		return false
	}
	o.busySubs.emit(v)
	return true
}

// Versions lists what the collaborator offers for the base directory.
func (o *Orchestrator) Versions(ctx context.Context) ([]Version, error) {
	versions, err := o.provider.Versions(ctx, o.baseDir)
	if err != nil {
		return nil, fmt.Errorf("error listing versions: %w", err)
	}
	return versions, nil
}

// Launch validates req and starts it on a background goroutine. Invalid
// requests fail with ErrInvalidRequest before any collaborator call, and a
// call while another launch is in flight fails with ErrBusy.
//
// The launch is not tied to ctx cancellation: once accepted it runs to a
// terminal outcome.
func (o *Orchestrator) Launch(ctx context.Context, req Request) (*Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if !o.setBusy(true) {
		return nil, ErrBusy
	}

	job := &Job{
		request: req,
		done:    make(chan struct{}),
		started: make(chan struct{}),
	}

	go o.run(context.WithoutCancel(ctx), job)

	return job, nil
}

// Run is Launch followed by Wait.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Process, error) {
	job, err := o.Launch(ctx, req)
	if err != nil {
		return nil, err
	}
	return job.Wait()
}

func (o *Orchestrator) run(ctx context.Context, job *Job) {
	var proc *Process
	var err error

	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("panic during launch: %v", r)
			err = fmt.Errorf("%w: panic: %v", ErrLaunchFailed, r)
		}
		if err != nil {
			log.Error().Err(err).Msgf("launch of %s failed", job.request.VersionID)
			o.setState(StateFailed)
		}
		o.setState(StateIdle)

		job.proc = proc
		job.err = err
		o.setBusy(false)
		close(job.done)
	}()

	proc, err = o.execute(ctx, job)
}

func (o *Orchestrator) execute(ctx context.Context, job *Job) (*Process, error) {
	req := job.request
	start := o.clock.Now()

	o.setState(StateInstalling)
	o.reporter.Reset()

	if err := o.resolve(ctx, req.VersionID); err != nil {
		return nil, err
	}

	log.Info().Msgf("installing version %s into %s", req.VersionID, o.baseDir)
	err := o.provider.Install(ctx, req.VersionID, o.baseDir, o.reporter.Callbacks())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInstallFailed, err)
	}
	log.Info().Dur("took", o.clock.Since(start)).Msgf("installed version %s", req.VersionID)

	o.setState(StateLaunching)

	opts := NewOptions(req, o.newSessionID())
	argv, err := o.provider.Command(ctx, req.VersionID, o.baseDir, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: error building command: %w", ErrLaunchFailed, err)
	}

	proc := &Process{
		SessionID: opts.SessionID,
		VersionID: req.VersionID,
		Args:      argv,
	}
	err = o.launcher.Launch(ctx, argv, o.baseDir, func(pid int) {
		proc.PID = pid
		proc.StartedAt = o.clock.Now()
		close(job.started)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Dur("took", o.clock.Since(start)).Msgf("launch of %s finished", req.VersionID)
	return proc, nil
}

// resolve checks that versionID is offered by the collaborator.
func (o *Orchestrator) resolve(ctx context.Context, versionID string) error {
	versions, err := o.provider.Versions(ctx, o.baseDir)
	if err != nil {
		return fmt.Errorf("%w: error listing versions: %w", ErrInstallFailed, err)
	}

	for _, v := range versions {
		if v.ID == versionID {
			return nil
		}
	}

	if suggestions := suggestVersions(versionID, versions); len(suggestions) > 0 {
		return fmt.Errorf("%w: unknown version %q (did you mean %s?)",
			ErrInvalidRequest, versionID, strings.Join(suggestions, ", "))
	}
	return fmt.Errorf("%w: unknown version %q", ErrInvalidRequest, versionID)
}
