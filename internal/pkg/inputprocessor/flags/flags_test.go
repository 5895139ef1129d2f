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

package flags

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArgs(t *testing.T) {
	tests := []struct {
		name string
		flag *Flag
		want []string
	}{
		{
			name: "joined",
			flag: New("-I", "/I", "/usr/include", true),
			want: []string{"-I/usr/include"},
		},
		{
			name: "separate",
			flag: New("--compiler-options", "--compiler-options", "-O2,-g", false),
			want: []string{"--compiler-options", "-O2,-g"},
		},
		{
			name: "no value",
			flag: New("-fopenmp", "-fopenmp=libomp", "", false),
			want: []string{"-fopenmp"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if diff := cmp.Diff(test.want, test.flag.Args()); diff != "" {
				t.Errorf("Args() had diff (-want +got): %v", diff)
			}
		})
	}
}

func TestOriginalKey(t *testing.T) {
	f := New("-I", "/I", "inc", true)
	if got := f.OriginalKey(); got != "/I" {
		t.Errorf("OriginalKey() = %q, want %q", got, "/I")
	}
	f = &Flag{Key: "-D", Value: "FOO", Joined: true}
	if got := f.OriginalKey(); got != "-D" {
		t.Errorf("OriginalKey() = %q, want %q", got, "-D")
	}
}
