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

package version

import (
	"bytes"
	"regexp"
	"testing"
)

var (
	expectedVersionFormat = regexp.MustCompile("(\\d+)\\.(\\d+)\\.(\\d+)\\.(([a-z0-9])+)")
)

func TestVersionInExpectedFormat(t *testing.T) {
	matches := expectedVersionFormat.FindAllString(CurrentVersion(), -1)
	if len(matches) != 1 {
		t.Fatalf("CurrentVersion()=%v not in expected format, match=%v, want %d matches, got %d", CurrentVersion(), matches, 1, len(matches))
	}
}

func TestPrintOnVersionFlag(t *testing.T) {
	old := *versionFlag
	t.Cleanup(func() { *versionFlag = old })

	var buf bytes.Buffer
	*versionFlag = false
	if PrintOnVersionFlag(&buf) || buf.Len() != 0 {
		t.Errorf("PrintOnVersionFlag() without flag printed %q", buf.String())
	}
	*versionFlag = true
	if !PrintOnVersionFlag(&buf) {
		t.Errorf("PrintOnVersionFlag() with flag = false, want true")
	}
	if got, want := buf.String(), "Version: "+CurrentVersion()+"\n"; got != want {
		t.Errorf("PrintOnVersionFlag() printed %q, want %q", got, want)
	}
}
