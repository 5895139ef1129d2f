// Copyright 2023 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package printer prints diagnostics of compilecuda to the console.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	errColor  = color.New(color.FgRed)
	warnColor = color.New(color.FgYellow)
)

// SetColorMode sets whether diagnostics are colored; one of (off, on, auto).
// auto colors only when attached to a terminal.
func SetColorMode(mode string) error {
	switch strings.ToLower(mode) {
	case "off", "false":
		color.NoColor = true
	case "on", "true":
		color.NoColor = false
	case "auto", "":
	default:
		return fmt.Errorf("invalid color mode: %v", mode)
	}
	return nil
}

// Error prints an error message to w.
func Error(w io.Writer, msg string) {
	errColor.Fprintln(w, msg)
}

// Warning prints a warning message to w.
func Warning(w io.Writer, msg string) {
	warnColor.Fprintln(w, msg)
}
