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
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/launch"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/time/rate"
)

const progressInterval = 100 * time.Millisecond

// progressRenderer prints reporter snapshots as "label [current/max] pct%"
// lines. Intermediate updates are throttled; label changes to the final
// status and completed counts always print.
type progressRenderer struct {
	out      io.Writer
	label    *color.Color
	limiter  rate.Sometimes
	last     launch.Progress
	mu       sync.Mutex
	rendered bool
}

func newProgressRenderer(out io.Writer, interval time.Duration) *progressRenderer {
	label := color.New(color.FgCyan)
	if !isTerminal(out) {
		label.DisableColor()
	}
	return &progressRenderer{
		out:     out,
		label:   label,
		limiter: rate.Sometimes{First: 1, Interval: interval},
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *progressRenderer) render(p launch.Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	finished := p.Max > 0 && p.Current >= p.Max
	force := finished && (p.Current != r.last.Current || p.Label != r.last.Label || !r.rendered)
	r.last = p

	if force {
		r.write(p)
		return
	}
	r.limiter.Do(func() { r.write(p) })
}

func (r *progressRenderer) write(p launch.Progress) {
	r.rendered = true
	label := p.Label
	if label == "" {
		label = "Preparing"
	}
	_, _ = fmt.Fprintf(r.out, "%s [%d/%d] %d%%\n", r.label.Sprint(label), p.Current, p.Max, p.Percent())
}
