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

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
	"github.com/google/uuid"
	"github.com/natefinch/atomic"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion = 1
	CfgEnv        = "ZAPAROO_LAUNCHER_CFG"

	DefaultMemoryGB            = 2
	DefaultDownloadConcurrency = 4
	DefaultTimeoutSeconds      = 30
)

type Values struct {
	Catalog        Catalog  `toml:"catalog"`
	SentryDSN      string   `toml:"sentry_dsn,omitempty"`
	InstallID      string   `toml:"install_id"`
	Launcher       Launcher `toml:"launcher"`
	ConfigSchema   int      `toml:"config_schema"`
	DebugLogging   bool     `toml:"debug_logging"`
	ErrorReporting bool     `toml:"error_reporting"`
}

type Launcher struct {
	Username    string `toml:"username"`
	Version     string `toml:"version,omitempty"`
	BaseDir     string `toml:"base_dir,omitempty"`
	JavaPath    string `toml:"java_path,omitempty"`
	MemoryGB    int    `toml:"memory_gb"`
	WaitForExit bool   `toml:"wait_for_exit"`
}

type Catalog struct {
	URL                 string `toml:"url"`
	DownloadConcurrency int    `toml:"download_concurrency"`
	TimeoutSeconds      int    `toml:"timeout_seconds"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Launcher: Launcher{
		MemoryGB:    DefaultMemoryGB,
		WaitForExit: true,
	},
	Catalog: Catalog{
		DownloadConcurrency: DefaultDownloadConcurrency,
		TimeoutSeconds:      DefaultTimeoutSeconds,
	},
}

type Instance struct {
	auth     map[string]CredentialEntry
	cfgPath  string
	authPath string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// NewConfig loads config.toml from configDir, writing the defaults to disk
// first if no file exists yet. The ZAPAROO_LAUNCHER_CFG env var overrides the
// config file path.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	return NewConfigAt(cfgPath, defaults)
}

// NewConfigAt loads the config file at an explicit path.
//
//nolint:gocritic // config struct copied for immutability
func NewConfigAt(cfgPath string, defaults Values) (*Instance, error) {
	cfg := Instance{
		cfgPath:  cfgPath,
		authPath: filepath.Join(filepath.Dir(cfgPath), AuthFile),
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err := cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Fields missing from the file keep their default values.
	newVals := c.defaults
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return errors.New("schema version mismatch")
	}

	c.vals = newVals

	c.auth = nil
	if _, err := os.Stat(c.authPath); err == nil {
		log.Info().Msg("loading auth file")
		authData, err := os.ReadFile(c.authPath)
		if err != nil {
			return fmt.Errorf("failed to read auth file: %w", err)
		}
		c.auth = LoadAuthFromData(authData)
		log.Info().Msgf("loaded %d auth entries", len(c.auth))
	}

	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion

	if c.vals.InstallID == "" {
		newID := uuid.New().String()
		c.vals.InstallID = newID
		log.Info().Msgf("generated new install id: %s", newID)
	}

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := atomic.WriteFile(c.cfgPath, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfgPath
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
}

func (c *Instance) ErrorReporting() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.ErrorReporting
}

func (c *Instance) SentryDSN() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.SentryDSN
}

func (c *Instance) InstallID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.InstallID
}

// DefaultUsername may be empty. An empty username is passed through to the
// game as-is.
func (c *Instance) DefaultUsername() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Launcher.Username
}

func (c *Instance) DefaultVersion() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Launcher.Version
}

func (c *Instance) DefaultMemoryGB() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Launcher.MemoryGB
}

// BaseDir returns the configured game directory, or fallback if unset.
func (c *Instance) BaseDir(fallback string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Launcher.BaseDir == "" {
		return fallback
	}
	return c.vals.Launcher.BaseDir
}

func (c *Instance) JavaPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Launcher.JavaPath
}

func (c *Instance) WaitForExit() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Launcher.WaitForExit
}

func (c *Instance) CatalogURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Catalog.URL
}

// DownloadConcurrency is always at least 1.
func (c *Instance) DownloadConcurrency() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Catalog.DownloadConcurrency < 1 {
		return 1
	}
	return c.vals.Catalog.DownloadConcurrency
}

func (c *Instance) HTTPTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Catalog.TimeoutSeconds <= 0 {
		return DefaultHTTPTimeout
	}
	return time.Duration(c.vals.Catalog.TimeoutSeconds) * time.Second
}

// LookupAuth returns credentials from auth.toml matching reqURL, or nil.
func (c *Instance) LookupAuth(reqURL string) *CredentialEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return LookupAuth(c.auth, reqURL)
}
