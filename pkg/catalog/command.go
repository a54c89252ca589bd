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

package catalog

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/launch"
)

// Placeholders recognised in launch templates.
const (
	PlaceholderJava        = "${java}"
	PlaceholderJVMArgs     = "${jvm_args}"
	PlaceholderClasspath   = "${classpath}"
	PlaceholderUsername    = "${username}"
	PlaceholderSessionID   = "${session_id}"
	PlaceholderAccessToken = "${access_token}"
	PlaceholderGameDir     = "${game_dir}"
	PlaceholderVersion     = "${version}"
)

type expandArgs struct {
	opts      launch.Options
	javaPath  string
	baseDir   string
	versionID string
}

// expand renders a launch template into an argv. An argument that is exactly
// ${jvm_args} becomes one argument per JVM flag; all other placeholders are
// substituted in place. Unknown placeholders are left untouched. A template
// that never mentions ${jvm_args} gets the JVM flags right after the
// executable so the requested memory always applies.
func (t Template) expand(args expandArgs) []string {
	classpath := make([]string, 0, len(t.Classpath))
	for _, p := range t.Classpath {
		classpath = append(classpath, filepath.Join(args.baseDir, filepath.FromSlash(p)))
	}

	r := strings.NewReplacer(
		PlaceholderJava, args.javaPath,
		PlaceholderJVMArgs, strings.Join(args.opts.JVMArgs, " "),
		PlaceholderClasspath, strings.Join(classpath, string(os.PathListSeparator)),
		PlaceholderUsername, args.opts.Username,
		PlaceholderSessionID, args.opts.SessionID,
		PlaceholderAccessToken, args.opts.AccessToken,
		PlaceholderGameDir, args.baseDir,
		PlaceholderVersion, args.versionID,
	)

	argv := make([]string, 0, len(t.Args)+len(args.opts.JVMArgs)+1)
	argv = append(argv, r.Replace(t.Executable))
	if !t.mentionsJVMArgs() {
		argv = append(argv, args.opts.JVMArgs...)
	}
	for _, a := range t.Args {
		if a == PlaceholderJVMArgs {
			argv = append(argv, args.opts.JVMArgs...)
			continue
		}
		argv = append(argv, r.Replace(a))
	}
	return argv
}

func (t Template) mentionsJVMArgs() bool {
	return slices.ContainsFunc(t.Args, func(a string) bool {
		return strings.Contains(a, PlaceholderJVMArgs)
	})
}

// Command returns the argv for an installed version.
func (p *Provider) Command(
	_ context.Context,
	versionID string,
	baseDir string,
	opts launch.Options,
) ([]string, error) {
	m, err := p.loadInstalled(baseDir, versionID)
	if err != nil {
		return nil, err
	}
	return m.Launch.expand(expandArgs{
		opts:      opts,
		javaPath:  p.javaPath,
		baseDir:   baseDir,
		versionID: versionID,
	}), nil
}
