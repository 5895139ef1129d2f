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

// Package version is used to define and print a consistent version number for
// the compilecuda binary.
package version

import (
	"flag"
	"fmt"
	"io"
)

// All these variables are over-ridden during link time to set the appropriate
// version number.
var (
	// versionMajor denotes the major version number.
	versionMajor = "0"

	// versionMinor denotes the minor version number.
	versionMinor = "1"

	// versionPatch denotes the patch version number.
	versionPatch = "0"

	// versionSHA denotes the SHA of the repository from which the current
	// version is built.
	versionSHA = "undefined"

	// versionFlag is a boolean flag to determine whether to print version number or not.
	versionFlag = flag.Bool("version", false, "If provided, print the current binary version and exit.")
)

// PrintOnVersionFlag prints the current version to w if the version flag is
// set, and reports whether it did. Flags must already be parsed.
func PrintOnVersionFlag(w io.Writer) bool {
	if !*versionFlag {
		return false
	}
	fmt.Fprintf(w, "Version: %s\n", CurrentVersion())
	return true
}

// CurrentVersion returns the current version number in semver format.
func CurrentVersion() string {
	return fmt.Sprintf("%s.%s.%s.%s", versionMajor, versionMinor, versionPatch, versionSHA)
}
