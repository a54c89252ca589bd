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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/launch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIndexTOML = `
[[versions]]
id = "1.20.1"
type = "release"
release_time = 2023-06-12T13:25:51Z
manifest = "manifests/1.20.1.toml"

[[versions]]
id = "23w31a"
type = "snapshot"
release_time = 2023-08-01T12:00:00Z
manifest = "https://example.com/23w31a.yaml"
`

const testIndexYAML = `
versions:
  - id: "1.20.1"
    type: release
    release_time: 2023-06-12T13:25:51Z
    manifest: manifests/1.20.1.yaml
`

func TestParseIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		location string
		data     string
		wantLen  int
	}{
		{"toml", "https://example.com/catalog.toml", testIndexTOML, 2},
		{"yaml", "https://example.com/catalog.yaml", testIndexYAML, 1},
		{"yml_local", "/srv/catalog.yml", testIndexYAML, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			idx, err := ParseIndex(tt.location, []byte(tt.data))
			require.NoError(t, err)
			require.Len(t, idx.Versions, tt.wantLen)

			e, ok := idx.Lookup("1.20.1")
			require.True(t, ok)
			assert.Equal(t, "release", e.Type)
			assert.Equal(t, time.Date(2023, 6, 12, 13, 25, 51, 0, time.UTC), e.ReleaseTime.UTC())
		})
	}
}

func TestParseIndex_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"bad_syntax", "[[versions]\nid ="},
		{"missing_manifest", "[[versions]]\nid = \"1.0\"\n"},
		{"traversal_id", "[[versions]]\nid = \"../etc\"\nmanifest = \"m.toml\"\n"},
		{"blank_id", "[[versions]]\nid = \" \"\nmanifest = \"m.toml\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseIndex("catalog.toml", []byte(tt.data))
			require.Error(t, err)
		})
	}
}

func TestParseManifest_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "valid",
			data: `id = "1.0"
[[files]]
path = "versions/1.0/1.0.jar"
url = "https://example.com/1.0.jar"
sha1 = "a9993e364706816aba3e25717850c26c9cd0d89d"
size = 3
[launch]
executable = "${java}"
args = ["${jvm_args}", "-cp", "${classpath}", "Main"]
classpath = ["versions/1.0/1.0.jar"]
`,
		},
		{
			name: "escaping_path",
			data: `id = "1.0"
[[files]]
path = "../../.bashrc"
url = "https://example.com/x"
[launch]
executable = "java"
`,
			wantErr: true,
		},
		{
			name: "absolute_path",
			data: `id = "1.0"
[[files]]
path = "/etc/passwd"
url = "https://example.com/x"
[launch]
executable = "java"
`,
			wantErr: true,
		},
		{
			name: "bad_sha1",
			data: `id = "1.0"
[[files]]
path = "a.jar"
url = "https://example.com/a.jar"
sha1 = "xyz"
[launch]
executable = "java"
`,
			wantErr: true,
		},
		{
			name:    "missing_executable",
			data:    "id = \"1.0\"\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := ParseManifest("1.0.toml", []byte(tt.data))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidManifest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "1.0", m.ID)
			assert.Len(t, m.Files, 1)
		})
	}
}

func TestResolveRef(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base string
		ref  string
		want string
	}{
		{
			name: "absolute_url",
			base: "https://example.com/catalog.toml",
			ref:  "https://cdn.example.com/a.jar",
			want: "https://cdn.example.com/a.jar",
		},
		{
			name: "relative_url",
			base: "https://example.com/meta/catalog.toml",
			ref:  "manifests/1.0.toml",
			want: "https://example.com/meta/manifests/1.0.toml",
		},
		{
			name: "rooted_url",
			base: "https://example.com/meta/catalog.toml",
			ref:  "/files/a.jar",
			want: "https://example.com/files/a.jar",
		},
		{
			name: "relative_local",
			base: filepath.Join("srv", "catalog.toml"),
			ref:  "manifests/1.0.toml",
			want: filepath.Join("srv", "manifests", "1.0.toml"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := resolveRef(tt.base, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTemplateExpand(t *testing.T) {
	t.Parallel()

	tmpl := Template{
		Executable: "${java}",
		Args: []string{
			"${jvm_args}",
			"-cp", "${classpath}",
			"net.example.Main",
			"--username", "${username}",
			"--version", "${version}",
			"--gameDir", "${game_dir}",
			"--session", "${session_id}",
			"--accessToken", "${access_token}",
			"--keep", "${unknown}",
		},
		Classpath: []string{"libraries/a.jar", "versions/1.20.1/1.20.1.jar"},
	}

	base := filepath.Join("data", "game")
	argv := tmpl.expand(expandArgs{
		opts: launch.Options{
			Username:  "Steve",
			SessionID: "sid",
			JVMArgs:   []string{"-Xmx4G", "-Xms4G"},
		},
		javaPath:  "/usr/bin/java",
		baseDir:   base,
		versionID: "1.20.1",
	})

	wantCP := filepath.Join(base, "libraries", "a.jar") + string(os.PathListSeparator) +
		filepath.Join(base, "versions", "1.20.1", "1.20.1.jar")
	assert.Equal(t, []string{
		"/usr/bin/java",
		"-Xmx4G", "-Xms4G",
		"-cp", wantCP,
		"net.example.Main",
		"--username", "Steve",
		"--version", "1.20.1",
		"--gameDir", base,
		"--session", "sid",
		"--accessToken", "",
		"--keep", "${unknown}",
	}, argv)
}

func TestTemplateExpand_JVMArgsWithoutPlaceholder(t *testing.T) {
	t.Parallel()

	tmpl := Template{
		Executable: "${java}",
		Args:       []string{"-cp", "x.jar", "Main"},
	}

	argv := tmpl.expand(expandArgs{
		opts:     launch.Options{JVMArgs: launch.MemoryArgs(4)},
		javaPath: "java",
	})
	assert.Equal(t, []string{"java", "-Xmx4G", "-Xms4G", "-cp", "x.jar", "Main"}, argv)
}

func TestTemplateExpand_InlineJVMArgsNotDuplicated(t *testing.T) {
	t.Parallel()

	tmpl := Template{
		Executable: "java",
		Args:       []string{"-XX:+UseG1GC ${jvm_args}", "Main"},
	}

	argv := tmpl.expand(expandArgs{
		opts: launch.Options{JVMArgs: launch.MemoryArgs(2)},
	})
	assert.Equal(t, []string{"java", "-XX:+UseG1GC -Xmx2G -Xms2G", "Main"}, argv)
}

func TestValidVersionID(t *testing.T) {
	t.Parallel()

	for id, want := range map[string]bool{
		"1.20.1":   true,
		"23w31a":   true,
		"1.8.9-pr": true,
		"":         false,
		"..":       false,
		"a/b":      false,
		`a\b`:      false,
		"c:":       false,
	} {
		assert.Equal(t, want, validVersionID(id), "id %q", id)
	}
}
