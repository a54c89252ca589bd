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
	"math"

	"github.com/shirou/gopsutil/v4/mem"
)

const gib = 1024 * 1024 * 1024

// TotalMemory returns the installed physical memory in bytes.
func TotalMemory() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("failed to read system memory: %w", err)
	}
	return vm.Total, nil
}

// MemoryChoices lists the selectable memory sizes in whole GiB: 1 up to the
// installed memory rounded to the nearest GiB. There is always at least one
// choice.
func MemoryChoices(totalBytes uint64) []int {
	n := int(math.Round(float64(totalBytes) / gib))
	if n < 1 {
		n = 1
	}
	choices := make([]int, n)
	for i := range choices {
		choices[i] = i + 1
	}
	return choices
}
