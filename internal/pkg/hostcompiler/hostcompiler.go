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

// Package hostcompiler detects which host compiler nvcc is told to use.
package hostcompiler

import "strings"

// Mode is the kind of host compiler nvcc dispatches host code to.
type Mode int

const (
	// Other is any host compiler that is not clang, e.g. gcc or MSVC.
	Other Mode = iota
	// LLVMBased means nvcc was pointed at clang with --compiler-bindir.
	LLVMBased
)

const (
	bindirMarker = "--compiler-bindir"
	clangMarker  = "clang"
)

func (m Mode) String() string {
	switch m {
	case LLVMBased:
		return "clang"
	case Other:
		return "other"
	}
	return "unknown"
}

// Detect returns LLVMBased if any argument of the nvcc command selects clang
// as the host compiler, e.g. --compiler-bindir=/usr/bin/clang.
func Detect(command []string) Mode {
	for _, arg := range command {
		if strings.Contains(arg, bindirMarker) && strings.Contains(arg, clangMarker) {
			return LLVMBased
		}
	}
	return Other
}
