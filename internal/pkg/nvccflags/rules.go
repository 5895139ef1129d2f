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
	"strings"

	"github.com/david-waterworth/catboost/internal/pkg/hostcompiler"
)

const (
	includeKey         = "-I"
	defineKey          = "-D"
	compilerOptionsKey = "--compiler-options"

	// msvcIncludeDefine points the C++ build at the MSVC headers. CUDA builds may
	// use a separate MSVC whose root is given with AltToolchainRoot.
	msvcIncludeDefine = "Y_MSVC_INCLUDE"
	altIncludeDir     = "include"

	noStdIncXX = "-nostdinc++"
)

var (
	// dropFlags are removed wherever they appear.
	dropFlags = map[string]bool{
		"-gline-tables-only": true,
		// clang coverage
		"-fprofile-instr-generate": true,
		"-fcoverage-mapping":       true,
		// removes unreferenced functions, including kernel registrators
		"/Zc:inline":            true,
		"-Wno-c++17-extensions": true,
	}

	// dropPrefixes configure instrumentation nvcc does not support.
	dropPrefixes = []string{
		"-fsanitize=",
		"-fsanitize-coverage=",
		"-fsanitize-blacklist=",
		"--system-header-prefix",
	}

	// nvcc concatenates the sources for clang, and clang reports unused things
	// from .h files as if they were defined in the .cu file.
	llvmExtraFlags = []string{
		"-Wno-unused-function",
		"-Wno-unused-parameter",
	}

	// otherReplacements respell clang-only flags for other host compilers.
	otherReplacements = map[string]string{
		"-fopenmp=libomp": "-fopenmp",
	}

	otherDropPrefixes = []string{
		"--target=",
	}

	otherDropFlags = map[string]bool{
		"-Wno-exceptions":                    true,
		"-Wno-inconsistent-missing-override": true,
	}

	// pairedFlags take the following argument as their value.
	pairedFlags = map[string]bool{
		"-mllvm": true,
	}

	// pathKeys are matched against the upper-cased first two characters.
	pathKeys = map[string]bool{
		"-I": true,
		"/I": true,
		"-B": true,
	}

	defineKeys = []string{"-D", "/D"}
)

// Classify reports whether arg is dropped on its own, regardless of the
// arguments around it, and by which kind of rule.
func Classify(arg string, mode hostcompiler.Mode, skipNoCXXInc bool) (Outcome, bool) {
	if dropFlags[arg] || (skipNoCXXInc && arg == noStdIncXX) {
		return Dropped, true
	}
	if hasAnyPrefix(arg, dropPrefixes) {
		return DroppedWithPrefixMatch, true
	}
	if mode == hostcompiler.LLVMBased {
		return PassedThroughAsCompilerOption, false
	}
	if otherDropFlags[arg] {
		return Dropped, true
	}
	if hasAnyPrefix(arg, otherDropPrefixes) {
		return DroppedWithPrefixMatch, true
	}
	return PassedThroughAsCompilerOption, false
}

func hasAnyPrefix(arg string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(arg, p) {
			return true
		}
	}
	return false
}

// isPathFlag matches -I, /I and -B, with the letter in either case.
func isPathFlag(arg string) bool {
	return len(arg) >= 2 && pathKeys[strings.ToUpper(arg[:2])]
}

func isDefine(arg string) bool {
	return hasAnyPrefix(arg, defineKeys)
}
