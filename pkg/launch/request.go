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
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Request is what a user submits: which version to run, as whom, and with
// how much memory. It is passed by value and never modified.
type Request struct {
	VersionID string `validate:"notblank"`
	// Username may be empty and is passed through unchanged.
	Username string
	MemoryGB int `validate:"min=1"`
}

// Options are derived from a Request for a single launch.
type Options struct {
	Username  string
	SessionID string
	// AccessToken is always empty: launches are offline.
	AccessToken string
	JVMArgs     []string
}

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate checks the request without touching the network or disk.
func (r Request) Validate() error {
	err := requestValidator.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case "VersionID":
			msgs = append(msgs, "version id is required")
		case "MemoryGB":
			msgs = append(msgs, fmt.Sprintf("memory must be at least 1 GB, got %v", fe.Value()))
		default:
			msgs = append(msgs, fe.Error())
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, ", "))
}

// MemoryArgs returns the JVM heap arguments for gb gibibytes. Minimum and
// maximum heap are always the same value.
func MemoryArgs(gb int) []string {
	return []string{
		fmt.Sprintf("-Xmx%dG", gb),
		fmt.Sprintf("-Xms%dG", gb),
	}
}

// NewOptions builds the launch options for req using sessionID.
func NewOptions(req Request, sessionID string) Options {
	return Options{
		Username:    req.Username,
		SessionID:   sessionID,
		AccessToken: "",
		JVMArgs:     MemoryArgs(req.MemoryGB),
	}
}
