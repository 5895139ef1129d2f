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

package nvccflags

import (
	"testing"

	"github.com/david-waterworth/catboost/internal/pkg/hostcompiler"
	"github.com/google/go-cmp/cmp"
)

func TestAssemble(t *testing.T) {
	tests := []struct {
		name    string
		command []string
		result  *Result
		want    []string
	}{
		{
			name:    "preprocessor and compiler options",
			command: []string{"nvcc", "-c", "a.cu"},
			result: &Result{
				Preprocessor:    []string{"-I/usr/inc", "-DFOO=1"},
				CompilerOptions: []string{"-O2", "-mllvm", "-x"},
			},
			want: []string{"nvcc", "-c", "a.cu", "-I/usr/inc", "-DFOO=1", "--compiler-options", "-O2,-mllvm,-x"},
		},
		{
			name:    "no compiler options",
			command: []string{"nvcc"},
			result:  &Result{Preprocessor: []string{"-Iinc"}},
			want:    []string{"nvcc", "-Iinc"},
		},
		{
			name:    "nothing",
			command: []string{"nvcc"},
			result:  &Result{},
			want:    []string{"nvcc"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if diff := cmp.Diff(test.want, Assemble(test.command, test.result)); diff != "" {
				t.Errorf("Assemble(%q) had diff (-want +got): %v", test.command, diff)
			}
		})
	}
}

func TestAssembleDoesNotAlias(t *testing.T) {
	command := make([]string, 1, 10)
	command[0] = "nvcc"
	r := &Result{Preprocessor: []string{"-Ia"}, CompilerOptions: []string{"-O2"}}
	got := Assemble(command, r)
	got[0] = "clang"
	if command[0] != "nvcc" {
		t.Errorf("Assemble() result aliases the command: command[0] = %q", command[0])
	}
	if diff := cmp.Diff([]string{"-Ia"}, r.Preprocessor); diff != "" {
		t.Errorf("Assemble() modified the result (-want +got): %v", diff)
	}
}

func TestRewriteAndAssemble(t *testing.T) {
	r := Rewriter{Mode: hostcompiler.Detect([]string{"nvcc"})}
	res, err := r.Rewrite([]string{"-I/usr/inc", "-DFOO=1", "-fsanitize=address", "-Wno-c++17-extensions", "-O2"})
	if err != nil {
		t.Fatalf("Rewrite() failed: %v", err)
	}
	want := []string{"nvcc", "-I/usr/inc", "-DFOO=1", "--compiler-options", "-O2"}
	if diff := cmp.Diff(want, Assemble([]string{"nvcc"}, res)); diff != "" {
		t.Errorf("Assemble() had diff (-want +got): %v", diff)
	}
}
