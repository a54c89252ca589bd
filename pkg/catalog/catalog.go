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

// Package catalog provides a data-driven version provider. A catalog document
// lists versions, and each version points at a manifest describing the files
// that make it runnable and the command line that starts it.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownVersion  = errors.New("unknown version")
	ErrNotInstalled    = errors.New("version not installed")
	ErrInvalidManifest = errors.New("invalid manifest")
	ErrUnsupportedURL  = errors.New("unsupported file location")
	ErrNoCatalog       = errors.New("no catalog url configured")
)

// Entry is a single version listed in a catalog.
type Entry struct {
	ReleaseTime time.Time `toml:"release_time" yaml:"release_time"`
	ID          string    `toml:"id"           yaml:"id"           validate:"versionid"`
	Type        string    `toml:"type"         yaml:"type"`
	Manifest    string    `toml:"manifest"     yaml:"manifest"     validate:"required"`
}

type Index struct {
	Versions []Entry `toml:"versions" yaml:"versions" validate:"dive"`
}

type File struct {
	Path string `toml:"path" yaml:"path" validate:"localpath"`
	URL  string `toml:"url"  yaml:"url"  validate:"required"`
	SHA1 string `toml:"sha1" yaml:"sha1" validate:"omitempty,len=40,hexadecimal"`
	Size int64  `toml:"size" yaml:"size" validate:"min=0"`
}

// Template is the launch command of a version. Executable and Args may
// contain placeholders, see Provider.Command.
type Template struct {
	Executable string   `toml:"executable" yaml:"executable" validate:"required"`
	Args       []string `toml:"args"       yaml:"args"`
	Classpath  []string `toml:"classpath"  yaml:"classpath"  validate:"dive,localpath"`
}

type Manifest struct {
	ReleaseTime time.Time `toml:"release_time" yaml:"release_time"`
	ID          string    `toml:"id"           yaml:"id"           validate:"versionid"`
	Type        string    `toml:"type"         yaml:"type"`
	Files       []File    `toml:"files"        yaml:"files"        validate:"dive"`
	Launch      Template  `toml:"launch"       yaml:"launch"`
}

var docValidator = newDocValidator()

func newDocValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("versionid", func(fl validator.FieldLevel) bool {
		return validVersionID(fl.Field().String())
	})
	_ = v.RegisterValidation("localpath", func(fl validator.FieldLevel) bool {
		return localPath(fl.Field().String())
	})
	return v
}

// validVersionID reports whether id can be used as a single directory name.
func validVersionID(id string) bool {
	if strings.TrimSpace(id) == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\:`)
}

// localPath reports whether p is a slash separated path that stays inside
// the directory it is joined to.
func localPath(p string) bool {
	if p == "" || strings.Contains(p, `\`) {
		return false
	}
	return filepath.IsLocal(filepath.FromSlash(p))
}

func isYAML(location string) bool {
	if u, err := url.Parse(location); err == nil && u.Scheme != "" {
		location = u.Path
	}
	switch strings.ToLower(path.Ext(location)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// decode parses data as YAML or TOML depending on the extension of location.
func decode(location string, data []byte, v any) error {
	if isYAML(location) {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(false)
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("error parsing yaml: %w", err)
		}
		return nil
	}
	if err := toml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("error parsing toml: %w", err)
	}
	return nil
}

func ParseIndex(location string, data []byte) (*Index, error) {
	var idx Index
	if err := decode(location, data, &idx); err != nil {
		return nil, fmt.Errorf("error parsing catalog %s: %w", location, err)
	}
	if err := docValidator.Struct(&idx); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", location, err)
	}
	return &idx, nil
}

func ParseManifest(location string, data []byte) (*Manifest, error) {
	var m Manifest
	if err := decode(location, data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidManifest, location, err)
	}
	if err := docValidator.Struct(&m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidManifest, location, err)
	}
	return &m, nil
}

// Lookup returns the catalog entry for id.
func (idx *Index) Lookup(id string) (Entry, bool) {
	for _, e := range idx.Versions {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// resolveRef resolves ref relative to the document at base. Remote bases
// resolve as URLs, local bases relative to their directory.
func resolveRef(base, ref string) (string, error) {
	if isRemote(ref) {
		return ref, nil
	}
	if isRemote(base) {
		b, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("error parsing base url: %w", err)
		}
		r, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("error parsing reference: %w", err)
		}
		return b.ResolveReference(r).String(), nil
	}
	if filepath.IsAbs(ref) {
		return ref, nil
	}
	return filepath.Join(filepath.Dir(base), filepath.FromSlash(ref)), nil
}
