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
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

// TestPropertyMemoryArgsMinEqualsMax verifies heap min and max always carry
// the requested size.
func TestPropertyMemoryArgsMinEqualsMax(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		g := rapid.IntRange(1, 1024).Draw(t, "gb")

		opts := NewOptions(Request{VersionID: "v", MemoryGB: g}, "s")

		if len(opts.JVMArgs) != 2 {
			t.Fatalf("expected 2 memory args, got %v", opts.JVMArgs)
		}
		if opts.JVMArgs[0] != fmt.Sprintf("-Xmx%dG", g) || opts.JVMArgs[1] != fmt.Sprintf("-Xms%dG", g) {
			t.Fatalf("memory args %v do not match %d", opts.JVMArgs, g)
		}
	})
}

// TestPropertyReporterKeepsUntouchedFields verifies every setter emits a
// snapshot where the other two fields equal their last known values.
func TestPropertyReporterKeepsUntouchedFields(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		r := NewReporter()
		var last Progress
		r.Subscribe(func(p Progress) { last = p })

		var want Progress
		steps := rapid.IntRange(1, 50).Draw(t, "steps")
		for i := range steps {
			switch rapid.IntRange(0, 2).Draw(t, fmt.Sprintf("setter%d", i)) {
			case 0:
				label := rapid.String().Draw(t, fmt.Sprintf("label%d", i))
				r.SetLabel(label)
				want.Label = label
			case 1:
				n := rapid.IntRange(0, 1<<20).Draw(t, fmt.Sprintf("current%d", i))
				r.SetCurrent(n)
				want.Current = n
			default:
				n := rapid.IntRange(0, 1<<20).Draw(t, fmt.Sprintf("max%d", i))
				r.SetMax(n)
				want.Max = n
			}
			if last != want {
				t.Fatalf("step %d: got %+v, want %+v", i, last, want)
			}
		}
	})
}

// TestPropertyValidateRejectsNonPositiveMemory verifies any memory below 1
// is rejected.
func TestPropertyValidateRejectsNonPositiveMemory(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		g := rapid.IntRange(-1000, 0).Draw(t, "gb")
		if err := (Request{VersionID: "1.20.1", MemoryGB: g}).Validate(); err == nil {
			t.Fatalf("expected error for memory %d", g)
		}
	})
}
