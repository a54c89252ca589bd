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

package httpclient

import (
	"context"
	"crypto/sha1" //nolint:gosec // sha1 is the checksum format published by catalogs
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// MaxDocumentSize caps catalog and manifest documents fetched into memory.
const MaxDocumentSize = 16 << 20

var (
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrIncomplete       = errors.New("download incomplete")
)

// CredentialLookup returns credentials for a request URL, or nil.
type CredentialLookup func(reqURL string) *config.CredentialEntry

// AuthTransport adds credentials from auth.toml to outgoing requests.
type AuthTransport struct {
	Base   http.RoundTripper
	Lookup CredentialLookup
}

// RoundTrip implements http.RoundTripper.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	if t.Lookup != nil {
		if creds := t.Lookup(req.URL.String()); creds != nil {
			req = req.Clone(req.Context())
			if creds.Bearer != "" {
				req.Header.Set("Authorization", "Bearer "+creds.Bearer)
			} else if creds.Username != "" {
				auth := base64.StdEncoding.EncodeToString([]byte(creds.Username + ":" + creds.Password))
				req.Header.Set("Authorization", "Basic "+auth)
			}
		}
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform HTTP round trip: %w", err)
	}
	return resp, nil
}

// DefaultTransport has connection pooling suited to many small asset
// downloads against the same host.
var DefaultTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	ResponseHeaderTimeout: 30 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   16,
	IdleConnTimeout:       90 * time.Second,
}

// Client is an HTTP client with authentication and verified downloads.
type Client struct {
	*http.Client
}

// NewClient returns a client whose requests time out after timeout. A zero
// timeout means no overall limit, only the transport timeouts.
func NewClient(timeout time.Duration, lookup CredentialLookup) *Client {
	return &Client{
		Client: &http.Client{
			Transport: &AuthTransport{
				Base:   DefaultTransport,
				Lookup: lookup,
			},
			Timeout: timeout,
		},
	}
}

// NewClientFromConfig uses the configured timeout and auth.toml entries.
func NewClientFromConfig(cfg *config.Instance) *Client {
	return NewClient(cfg.HTTPTimeout(), cfg.LookupAuth)
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error getting url: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		closeBody(resp)
		return nil, fmt.Errorf("invalid status code: %d", resp.StatusCode)
	}
	return resp, nil
}

func closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		log.Error().Err(err).Msg("error closing response body")
	}
}

// Fetch reads a small document into memory.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("error reading body: %w", err)
	}
	if len(data) > MaxDocumentSize {
		return nil, fmt.Errorf("document larger than %d bytes", MaxDocumentSize)
	}
	return data, nil
}

// DownloadFileArgs describes a file to download.
type DownloadFileArgs struct {
	Fs         afero.Fs
	URL        string
	OutputPath string
	// TempPath defaults to OutputPath + ".part".
	TempPath string
	// SHA1 is the expected lowercase hex digest. Empty skips verification.
	SHA1 string
	// Size is the expected length in bytes. Zero skips the check.
	Size int64
}

// DownloadFile downloads URL into a temp file, verifies it and moves it to
// OutputPath. A failed download never leaves a file at OutputPath.
func (c *Client) DownloadFile(ctx context.Context, args DownloadFileArgs) error {
	fs := args.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	tempPath := args.TempPath
	if tempPath == "" {
		tempPath = args.OutputPath + ".part"
	}

	if err := fs.MkdirAll(filepath.Dir(args.OutputPath), 0o755); err != nil {
		return fmt.Errorf("cannot create directories: %w", err)
	}

	resp, err := c.get(ctx, args.URL)
	if err != nil {
		return err
	}
	defer closeBody(resp)

	file, err := fs.Create(tempPath)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}

	removeTemp := func() {
		if err := fs.Remove(tempPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Msgf("error removing partial download: %s", tempPath)
		}
	}

	hash := sha1.New() //nolint:gosec // see import
	written, err := io.Copy(io.MultiWriter(file, hash), resp.Body)
	closeErr := file.Close()
	if err != nil {
		removeTemp()
		return fmt.Errorf("error downloading file: %w", err)
	}
	if closeErr != nil {
		removeTemp()
		return fmt.Errorf("error closing file: %w", closeErr)
	}

	if expected := resp.ContentLength; expected > 0 && written != expected {
		removeTemp()
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrIncomplete, expected, written)
	}
	if args.Size > 0 && written != args.Size {
		removeTemp()
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrIncomplete, args.Size, written)
	}
	if args.SHA1 != "" {
		if got := hex.EncodeToString(hash.Sum(nil)); !strings.EqualFold(got, args.SHA1) {
			removeTemp()
			return fmt.Errorf("%w: %s: expected %s, got %s", ErrChecksumMismatch, args.URL, args.SHA1, got)
		}
	}

	if err := fs.Rename(tempPath, args.OutputPath); err != nil {
		removeTemp()
		return fmt.Errorf("error renaming temp file: %w", err)
	}

	return nil
}

// FileSHA1 returns the hex SHA-1 of a file on fs.
func FileSHA1(fs afero.Fs, path string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("error opening file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msgf("error closing file: %s", path)
		}
	}()

	hash := sha1.New() //nolint:gosec // see import
	if _, err := io.Copy(hash, f); err != nil {
		return "", fmt.Errorf("error hashing file: %w", err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
