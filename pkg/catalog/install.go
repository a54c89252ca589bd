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
	"strings"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/launch"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/shared/httpclient"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const StatusComplete = "Installation complete"

// installProgress serializes callback invocations from download workers so
// the reporter sees a monotonic count.
type installProgress struct {
	cb   launch.Callbacks
	mu   syncutil.Mutex
	done int
}

func (ip *installProgress) status(text string) {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	ip.cb.Status(text)
}

func (ip *installProgress) step() {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	ip.done++
	ip.cb.Progress(ip.done)
}

// manifestFor returns the manifest for id with absolute file URLs. When the
// catalog or manifest can't be fetched, an already installed version is
// re-verified from its stored manifest.
func (p *Provider) manifestFor(ctx context.Context, id, baseDir string) (*Manifest, error) {
	m, err := p.fetchManifest(ctx, id, baseDir)
	if err == nil || errors.Is(err, ErrInvalidManifest) {
		return m, err
	}

	stored, localErr := p.loadInstalled(baseDir, id)
	if localErr != nil {
		return nil, err
	}
	log.Warn().Err(err).Msgf("using stored manifest for %s", id)
	return stored, nil
}

func (p *Provider) fetchManifest(ctx context.Context, id, baseDir string) (*Manifest, error) {
	idx, err := p.loadIndex(ctx, baseDir)
	if err != nil {
		return nil, err
	}
	entry, ok := idx.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVersion, id)
	}

	location, err := resolveRef(p.source, entry.Manifest)
	if err != nil {
		return nil, fmt.Errorf("error resolving manifest location: %w", err)
	}
	data, err := p.read(ctx, location)
	if err != nil {
		return nil, err
	}
	m, err := ParseManifest(location, data)
	if err != nil {
		return nil, err
	}
	if m.ID != id {
		return nil, fmt.Errorf("%w: manifest id %q does not match %q", ErrInvalidManifest, m.ID, id)
	}
	if m.Type == "" {
		m.Type = entry.Type
	}
	if m.ReleaseTime.IsZero() {
		m.ReleaseTime = entry.ReleaseTime
	}
	for i := range m.Files {
		src, err := resolveRef(location, m.Files[i].URL)
		if err != nil {
			return nil, fmt.Errorf("error resolving %s: %w", m.Files[i].Path, err)
		}
		m.Files[i].URL = src
	}
	return m, nil
}

// verified reports whether an existing file at path matches f.
func (p *Provider) verified(path string, f File) bool {
	info, err := p.fs.Stat(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Msgf("error checking file: %s", path)
		}
		return false
	}
	if info.IsDir() {
		return false
	}
	if f.Size > 0 && info.Size() != f.Size {
		return false
	}
	if f.SHA1 == "" {
		return true
	}
	sum, err := httpclient.FileSHA1(p.fs, path)
	if err != nil {
		log.Warn().Err(err).Msgf("error hashing file: %s", path)
		return false
	}
	return strings.EqualFold(sum, f.SHA1)
}

func (p *Provider) fetchFile(ctx context.Context, baseDir string, f File) error {
	dest := filepath.Join(baseDir, filepath.FromSlash(f.Path))
	if p.verified(dest, f) {
		log.Debug().Msgf("file up to date: %s", f.Path)
		return nil
	}

	if !isRemote(f.URL) {
		return fmt.Errorf("%w: %s", ErrUnsupportedURL, f.URL)
	}

	log.Debug().Msgf("downloading %s from %s", f.Path, f.URL)
	err := p.client.DownloadFile(ctx, httpclient.DownloadFileArgs{
		Fs:         p.fs,
		URL:        f.URL,
		OutputPath: dest,
		SHA1:       f.SHA1,
		Size:       f.Size,
	})
	if err != nil {
		return fmt.Errorf("error downloading %s: %w", f.Path, err)
	}
	return nil
}

// Install downloads every file of versionID into baseDir, then stores the
// manifest. Files already present with a matching checksum are kept.
func (p *Provider) Install(
	ctx context.Context,
	versionID string,
	baseDir string,
	cb launch.Callbacks,
) error {
	m, err := p.manifestFor(ctx, versionID, baseDir)
	if err != nil {
		return err
	}

	log.Info().Msgf("installing %s: %d files", versionID, len(m.Files))
	progress := &installProgress{cb: cb}
	cb.ProgressMax(len(m.Files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for _, f := range m.Files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			progress.status("Downloading " + f.Path)
			if err := p.fetchFile(gctx, baseDir, f); err != nil {
				return err
			}
			progress.step()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	mp, err := manifestPath(baseDir, versionID)
	if err != nil {
		return err
	}
	if err := p.writeTOML(mp, m); err != nil {
		return fmt.Errorf("error storing manifest: %w", err)
	}

	progress.status(StatusComplete)
	log.Info().Msgf("installed %s", versionID)
	return nil
}
