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

// Package invocation splits the command line of compilecuda into its parts.
//
// The command line has the form
//
//	compilecuda <getpid helper> <nvcc> [nvcc args...] --cflags [flags...]
//
// where the flags after --cflags were authored for a regular C/C++ toolchain
// and still need to be translated for nvcc.
package invocation

import (
	"errors"
	"fmt"
)

const (
	// Separator ends the nvcc command and starts the C/C++ flags.
	Separator = "--cflags"
	// SkipNoCXXIncToggle drops -nostdinc++ from the flags. It may appear anywhere.
	SkipNoCXXIncToggle = "--y_skip_nocxxinc"
	// DumpArgsToggle prints the rewritten command instead of running it. It is
	// looked for in the nvcc command.
	DumpArgsToggle = "--y_dump_args"
)

// ErrMalformedInvocation is returned when the command line cannot be split.
var ErrMalformedInvocation = errors.New("malformed invocation")

// Invocation is a parsed compilecuda command line.
type Invocation struct {
	// PreloadPath is the library preloaded into nvcc to make getpid() constant.
	PreloadPath string
	// Command is the nvcc command, starting with the path of the executable.
	Command []string
	// Flags are the C/C++ flags to translate.
	Flags []string
	// SkipNoCXXInc is set by SkipNoCXXIncToggle.
	SkipNoCXXInc bool
	// DumpArgs is set by DumpArgsToggle.
	DumpArgs bool
}

// Executable returns the path of the nvcc executable.
func (inv *Invocation) Executable() string {
	return inv.Command[0]
}

// Parse splits argv, which includes the program name, into an Invocation.
func Parse(argv []string) (*Invocation, error) {
	inv := &Invocation{}
	argv, inv.SkipNoCXXInc = remove(argv, SkipNoCXXIncToggle)

	sep := -1
	for i, arg := range argv {
		if arg == Separator {
			sep = i
			break
		}
	}
	switch {
	case sep < 0:
		return nil, fmt.Errorf("%w: no %s in %q", ErrMalformedInvocation, Separator, argv)
	case sep < 2:
		return nil, fmt.Errorf("%w: no getpid helper before %s", ErrMalformedInvocation, Separator)
	}
	inv.PreloadPath = argv[1]
	inv.Command, inv.DumpArgs = remove(argv[2:sep], DumpArgsToggle)
	if len(inv.Command) == 0 {
		return nil, fmt.Errorf("%w: no compiler before %s", ErrMalformedInvocation, Separator)
	}
	inv.Flags = append([]string{}, argv[sep+1:]...)
	return inv, nil
}

// remove returns a copy of args without any occurrence of token, and whether
// token was present.
func remove(args []string, token string) ([]string, bool) {
	res := make([]string, 0, len(args))
	found := false
	for _, arg := range args {
		if arg == token {
			found = true
			continue
		}
		res = append(res, arg)
	}
	return res, found
}
