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
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
)

// Progress is a consistent snapshot of install progress.
type Progress struct {
	Label   string
	Current int
	Max     int
}

// Percent returns Current as a percentage of Max, capped to 0..100.
func (p Progress) Percent() int {
	if p.Max <= 0 {
		return 0
	}
	pct := p.Current * 100 / p.Max
	return min(max(pct, 0), 100)
}

// Callbacks are handed to the install collaborator.
type Callbacks struct {
	OnStatus      func(text string)
	OnProgress    func(n int)
	OnProgressMax func(n int)
}

// Status calls OnStatus if set.
func (c Callbacks) Status(text string) {
	if c.OnStatus != nil {
		c.OnStatus(text)
	}
}

// Progress calls OnProgress if set.
func (c Callbacks) Progress(n int) {
	if c.OnProgress != nil {
		c.OnProgress(n)
	}
}

// ProgressMax calls OnProgressMax if set.
func (c Callbacks) ProgressMax(n int) {
	if c.OnProgressMax != nil {
		c.OnProgressMax(n)
	}
}

// Reporter keeps the latest progress and fans it out to subscribers. Every
// setter emits the full snapshot, so a subscriber always sees the other two
// fields at their last known values.
//
// Subscribers are called outside the lock, in the setter's goroutine.
type Reporter struct {
	subs    listeners[Progress]
	current Progress
	mu      syncutil.Mutex
}

func NewReporter() *Reporter {
	return &Reporter{}
}

func (r *Reporter) update(fn func(p *Progress)) {
	r.mu.Lock()
	fn(&r.current)
	snapshot := r.current
	r.mu.Unlock()

	r.subs.emit(snapshot)
}

func (r *Reporter) SetLabel(text string) {
	r.update(func(p *Progress) { p.Label = text })
}

// SetCurrent clamps negative values to 0.
func (r *Reporter) SetCurrent(n int) {
	r.update(func(p *Progress) { p.Current = max(n, 0) })
}

// SetMax clamps negative values to 0.
func (r *Reporter) SetMax(n int) {
	r.update(func(p *Progress) { p.Max = max(n, 0) })
}

// Reset zeroes the snapshot and emits it.
func (r *Reporter) Reset() {
	r.update(func(p *Progress) { *p = Progress{} })
}

func (r *Reporter) Snapshot() Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Subscribe registers fn for every future snapshot. The returned func
// removes it.
func (r *Reporter) Subscribe(fn func(Progress)) (unsubscribe func()) {
	return r.subs.add(fn)
}

// Callbacks adapts the reporter to the collaborator callback set.
func (r *Reporter) Callbacks() Callbacks {
	return Callbacks{
		OnStatus:      r.SetLabel,
		OnProgress:    r.SetCurrent,
		OnProgressMax: r.SetMax,
	}
}
