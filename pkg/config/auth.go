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
	"maps"
	"net/url"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

// CredentialEntry holds credentials for a catalog or download host.
type CredentialEntry struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
	Bearer   string `toml:"bearer"`
}

type authCredsFormat struct {
	Creds map[string]CredentialEntry `toml:"creds"`
}

// LoadAuthFromData parses auth.toml. Both layouts are accepted and merged:
//
//	["https://example.com"]
//	[creds."https://example.com"]
func LoadAuthFromData(data []byte) map[string]CredentialEntry {
	result := make(map[string]CredentialEntry)

	var root map[string]CredentialEntry
	if err := toml.Unmarshal(data, &root); err == nil {
		for k, v := range root {
			if k != "creds" {
				result[k] = v
			}
		}
	}

	var creds authCredsFormat
	if err := toml.Unmarshal(data, &creds); err == nil {
		maps.Copy(result, creds.Creds)
	}

	return result
}

func normalizeScheme(scheme string) string {
	switch s := strings.ToLower(scheme); s {
	case "ws":
		return "http"
	case "wss":
		return "https"
	default:
		return s
	}
}

// LookupAuth finds credentials for reqURL. An exact scheme match wins over a
// normalized one (ws matches http), which wins over a schemeless host:port
// entry. Host comparison is case-insensitive and the entry path must be a
// prefix of the request path.
func LookupAuth(creds map[string]CredentialEntry, reqURL string) *CredentialEntry {
	if len(creds) == 0 {
		return nil
	}

	u, err := url.Parse(reqURL)
	if err != nil {
		log.Warn().Msgf("invalid auth request url: %s", reqURL)
		return nil
	}

	match := func(sameScheme func(string) bool) *CredentialEntry {
		for k, v := range creds {
			if !strings.Contains(k, "://") {
				continue
			}
			defURL, err := url.Parse(k)
			if err != nil {
				log.Error().Msgf("invalid auth config url: %s", k)
				continue
			}
			if sameScheme(defURL.Scheme) &&
				strings.EqualFold(defURL.Host, u.Host) &&
				strings.HasPrefix(u.Path, defURL.Path) {
				return &v
			}
		}
		return nil
	}

	if found := match(func(s string) bool { return strings.EqualFold(s, u.Scheme) }); found != nil {
		return found
	}
	canonical := normalizeScheme(u.Scheme)
	if found := match(func(s string) bool { return normalizeScheme(s) == canonical }); found != nil {
		return found
	}

	for k, v := range creds {
		if !strings.Contains(k, "://") && strings.EqualFold(k, u.Host) {
			return &v
		}
	}

	return nil
}
