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
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

const (
	suggestMinSimilarity = 0.8
	suggestLimit         = 3
)

// suggestVersions returns up to three version ids close to query, best first.
func suggestVersions(query string, versions []Version) []string {
	type scored struct {
		id    string
		score float32
	}

	q := strings.ToLower(strings.TrimSpace(query))
	var matches []scored
	for _, v := range versions {
		score := edlib.JaroWinklerSimilarity(q, strings.ToLower(v.ID))
		if score >= suggestMinSimilarity {
			matches = append(matches, scored{id: v.ID, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]string, 0, suggestLimit)
	for _, m := range matches {
		if len(out) == suggestLimit {
			break
		}
		out = append(out, m.id)
	}
	return out
}
