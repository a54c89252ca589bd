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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/launch"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/shared/httpclient"
	"github.com/jonboulle/clockwork"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	CacheFile   = "catalog.toml"
	VersionsDir = "versions"
	DefaultJava = "java"

	// DefaultIndexTTL is how long a fetched catalog is reused before the
	// source is read again.
	DefaultIndexTTL = time.Minute
)

var _ launch.Provider = (*Provider)(nil)

type Provider struct {
	fs          afero.Fs
	clock       clockwork.Clock
	client      *httpclient.Client
	memo        *indexMemo
	source      string
	javaPath    string
	concurrency int
	indexTTL    time.Duration
	memoMu      syncutil.Mutex
}

// indexMemo is the last catalog fetched from the source for baseDir.
type indexMemo struct {
	idx       *Index
	fetchedAt time.Time
	baseDir   string
}

type Option func(*Provider)

func WithFs(fs afero.Fs) Option {
	return func(p *Provider) { p.fs = fs }
}

func WithClient(c *httpclient.Client) Option {
	return func(p *Provider) { p.client = c }
}

func WithJavaPath(javaPath string) Option {
	return func(p *Provider) {
		if javaPath != "" {
			p.javaPath = javaPath
		}
	}
}

func WithClock(c clockwork.Clock) Option {
	return func(p *Provider) { p.clock = c }
}

// WithIndexTTL sets how long a fetched catalog is reused. Zero disables reuse.
func WithIndexTTL(d time.Duration) Option {
	return func(p *Provider) {
		if d >= 0 {
			p.indexTTL = d
		}
	}
}

func WithConcurrency(n int) Option {
	return func(p *Provider) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// NewProvider returns a provider reading its catalog from source, an http(s)
// URL or a local path.
func NewProvider(source string, opts ...Option) *Provider {
	p := &Provider{
		fs:          afero.NewOsFs(),
		clock:       clockwork.NewRealClock(),
		source:      source,
		indexTTL:    DefaultIndexTTL,
		javaPath:    DefaultJava,
		concurrency: config.DefaultDownloadConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client = httpclient.NewClient(config.DefaultHTTPTimeout, nil)
	}
	return p
}

func NewProviderFromConfig(cfg *config.Instance, opts ...Option) *Provider {
	base := []Option{
		WithClient(httpclient.NewClientFromConfig(cfg)),
		WithJavaPath(cfg.JavaPath()),
		WithConcurrency(cfg.DownloadConcurrency()),
	}
	return NewProvider(cfg.CatalogURL(), append(base, opts...)...)
}

func (p *Provider) Source() string {
	return p.source
}

// read loads a document from an http(s) URL or the provider filesystem.
func (p *Provider) read(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, ErrNoCatalog
	}
	if isRemote(location) {
		data, err := p.client.Fetch(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("error fetching %s: %w", location, err)
		}
		return data, nil
	}
	data, err := afero.ReadFile(p.fs, location)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", location, err)
	}
	return data, nil
}

func versionDir(baseDir, id string) (string, error) {
	if !validVersionID(id) {
		return "", fmt.Errorf("%w: bad version id %q", ErrInvalidManifest, id)
	}
	return filepath.Join(baseDir, VersionsDir, id), nil
}

func manifestPath(baseDir, id string) (string, error) {
	dir, err := versionDir(baseDir, id)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, id+".toml"), nil
}

// writeTOML encodes v to path via a temp file and rename.
func (p *Provider) writeTOML(path string, v any) error {
	data, err := toml.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", path, err)
	}
	if err := p.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := afero.WriteFile(p.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", tmp, err)
	}
	if err := p.fs.Rename(tmp, path); err != nil {
		_ = p.fs.Remove(tmp)
		return fmt.Errorf("error renaming %s: %w", tmp, err)
	}
	return nil
}

// recentIndex returns the catalog fetched for baseDir within the TTL.
func (p *Provider) recentIndex(baseDir string) (*Index, bool) {
	p.memoMu.Lock()
	defer p.memoMu.Unlock()
	if p.memo == nil || p.memo.baseDir != baseDir {
		return nil, false
	}
	if p.clock.Since(p.memo.fetchedAt) >= p.indexTTL {
		return nil, false
	}
	return p.memo.idx, true
}

func (p *Provider) rememberIndex(baseDir string, idx *Index) {
	p.memoMu.Lock()
	defer p.memoMu.Unlock()
	p.memo = &indexMemo{idx: idx, fetchedAt: p.clock.Now(), baseDir: baseDir}
}

// loadIndex fetches the catalog and refreshes the cache, falling back to the
// cache when the source can't be read. A catalog fetched within the TTL is
// reused without touching the source or the cache file.
func (p *Provider) loadIndex(ctx context.Context, baseDir string) (*Index, error) {
	if idx, ok := p.recentIndex(baseDir); ok {
		return idx, nil
	}

	cachePath := filepath.Join(baseDir, CacheFile)

	data, fetchErr := p.read(ctx, p.source)
	if fetchErr == nil {
		idx, err := ParseIndex(p.source, data)
		if err != nil {
			return nil, err
		}
		if err := p.writeTOML(cachePath, idx); err != nil {
			log.Warn().Err(err).Msg("error caching catalog")
		}
		p.rememberIndex(baseDir, idx)
		return idx, nil
	}

	log.Warn().Err(fetchErr).Msg("catalog unavailable, using cache")
	cached, err := afero.ReadFile(p.fs, cachePath)
	if err != nil {
		return nil, errors.Join(fetchErr, fmt.Errorf("error reading catalog cache: %w", err))
	}
	idx, err := ParseIndex(cachePath, cached)
	if err != nil {
		return nil, errors.Join(fetchErr, err)
	}
	return idx, nil
}

func (p *Provider) loadInstalled(baseDir, id string) (*Manifest, error) {
	mp, err := manifestPath(baseDir, id)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(p.fs, mp)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotInstalled, id)
	} else if err != nil {
		return nil, fmt.Errorf("error reading manifest: %w", err)
	}
	return ParseManifest(mp, data)
}

// installed returns the stored manifests under baseDir keyed by version id.
func (p *Provider) installed(baseDir string) map[string]*Manifest {
	found := make(map[string]*Manifest)
	entries, err := afero.ReadDir(p.fs, filepath.Join(baseDir, VersionsDir))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Msg("error listing installed versions")
		}
		return found
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		m, err := p.loadInstalled(baseDir, e.Name())
		if errors.Is(err, ErrNotInstalled) {
			continue
		} else if err != nil {
			log.Warn().Err(err).Msgf("skipping installed version: %s", e.Name())
			continue
		}
		found[e.Name()] = m
	}
	return found
}

// Versions lists catalog versions merged with locally installed ones, newest
// first. Without a catalog or cache, installed versions alone are returned.
func (p *Provider) Versions(ctx context.Context, baseDir string) ([]launch.Version, error) {
	installed := p.installed(baseDir)

	idx, err := p.loadIndex(ctx, baseDir)
	if err != nil {
		if len(installed) == 0 {
			return nil, err
		}
		log.Warn().Err(err).Msg("listing installed versions only")
		idx = &Index{}
	}

	seen := make(map[string]bool, len(idx.Versions))
	versions := make([]launch.Version, 0, len(idx.Versions)+len(installed))
	for _, e := range idx.Versions {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		_, ok := installed[e.ID]
		versions = append(versions, launch.Version{
			ID:          e.ID,
			Type:        e.Type,
			ReleaseTime: e.ReleaseTime,
			Installed:   ok,
		})
	}
	for id, m := range installed {
		if seen[id] {
			continue
		}
		versions = append(versions, launch.Version{
			ID:          id,
			Type:        m.Type,
			ReleaseTime: m.ReleaseTime,
			Installed:   true,
		})
	}

	sort.SliceStable(versions, func(i, j int) bool {
		if !versions[i].ReleaseTime.Equal(versions[j].ReleaseTime) {
			return versions[i].ReleaseTime.After(versions[j].ReleaseTime)
		}
		return versions[i].ID < versions[j].ID
	})
	return versions, nil
}
