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

	"github.com/david-waterworth/catboost/internal/pkg/inputprocessor/flags"
)

// Assemble returns the nvcc command followed by the preprocessor flags and,
// if there are any, the host compiler options as a single --compiler-options
// flag.
func Assemble(command []string, r *Result) []string {
	res := make([]string, 0, len(command)+len(r.Preprocessor)+2)
	res = append(res, command...)
	res = append(res, r.Preprocessor...)
	if len(r.CompilerOptions) > 0 {
		f := flags.New(compilerOptionsKey, compilerOptionsKey, strings.Join(r.CompilerOptions, ","), false)
		res = append(res, f.Args()...)
	}
	return res
}
