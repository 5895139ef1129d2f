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

// Package nvccflags translates flags written for a regular C/C++ compiler into
// an nvcc command line.
//
// Each flag ends up in one of two places: preprocessor flags (include paths
// and defines) are passed to nvcc directly, everything else nvcc does not
// understand is forwarded to the host compiler with --compiler-options. Some
// flags are dropped on the way.
package nvccflags

import (
	"fmt"
	"sort"
	"strings"

	"github.com/david-waterworth/catboost/internal/pkg/hostcompiler"
	"github.com/david-waterworth/catboost/internal/pkg/inputprocessor/args"
	"github.com/david-waterworth/catboost/internal/pkg/inputprocessor/flags"

	log "github.com/golang/glog"
)

// Outcome is what happened to a flag during rewriting.
type Outcome int

const (
	// Dropped flags matched a flag that is removed wherever it appears.
	Dropped Outcome = iota
	// DroppedWithPrefixMatch flags started with a prefix that is removed.
	DroppedWithPrefixMatch
	// RewrittenAsPreprocessorFlag flags are include paths and defines.
	RewrittenAsPreprocessorFlag
	// RewrittenAsPairedCompilerOption flags are forwarded to the host
	// compiler together with their value.
	RewrittenAsPairedCompilerOption
	// PassedThroughAsCompilerOption flags are forwarded to the host compiler.
	PassedThroughAsCompilerOption
)

func (o Outcome) String() string {
	switch o {
	case Dropped:
		return "dropped"
	case DroppedWithPrefixMatch:
		return "dropped by prefix"
	case RewrittenAsPreprocessorFlag:
		return "preprocessor"
	case RewrittenAsPairedCompilerOption:
		return "paired compiler option"
	case PassedThroughAsCompilerOption:
		return "compiler option"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Decision records the outcome for the arguments consumed in one step.
type Decision struct {
	Outcome Outcome
	// Pos is the index of the first consumed argument in the input.
	// Arguments added for the host compiler are numbered after the input.
	Pos int
	// Key is the flag key as it was spelled in the input (e.g. /I for an
	// include path), for flags read together with a value.
	Key string
	// Args are the consumed arguments.
	Args []string
	// Emitted are the arguments written to the output, if any.
	Emitted []string
}

// Result is the rewritten flag list.
type Result struct {
	// Preprocessor flags are passed to nvcc as they are.
	Preprocessor []string
	// CompilerOptions are forwarded to the host compiler.
	CompilerOptions []string
	// Decisions cover every input argument exactly once, in input order.
	Decisions []*Decision
}

// Outcomes returns the outcome of every decision, in order.
func (r *Result) Outcomes() []Outcome {
	res := make([]Outcome, 0, len(r.Decisions))
	for _, d := range r.Decisions {
		res = append(res, d.Outcome)
	}
	return res
}

func (r *Result) add(d *Decision) {
	switch d.Outcome {
	case RewrittenAsPreprocessorFlag:
		r.Preprocessor = append(r.Preprocessor, d.Emitted...)
	case RewrittenAsPairedCompilerOption, PassedThroughAsCompilerOption:
		r.CompilerOptions = append(r.CompilerOptions, d.Emitted...)
	}
	r.Decisions = append(r.Decisions, d)
}

// Rewriter rewrites C/C++ flags for nvcc.
type Rewriter struct {
	// Mode is the host compiler nvcc dispatches to.
	Mode hostcompiler.Mode
	// SkipNoCXXInc drops -nostdinc++.
	SkipNoCXXInc bool
	// AltToolchainRoot, if set, replaces the value of the Y_MSVC_INCLUDE
	// define with <AltToolchainRoot>/include.
	AltToolchainRoot string
}

// Rewrite splits cflags into preprocessor flags and host compiler options.
//
// Flags that are dropped on their own are removed first, so they never
// survive as the value of a preceding flag. The remaining flags are then read
// left to right, one flag with its value at a time.
func (r *Rewriter) Rewrite(cflags []string) (*Result, error) {
	in := append([]string{}, cflags...)
	if r.Mode == hostcompiler.LLVMBased {
		in = append(in, llvmExtraFlags...)
	}

	var drops []*Decision
	var kept []string
	var keptPos []int
	for i, arg := range in {
		if o, ok := Classify(arg, r.Mode, r.SkipNoCXXInc); ok {
			drops = append(drops, &Decision{Outcome: o, Pos: i, Args: []string{arg}})
			continue
		}
		kept = append(kept, arg)
		keptPos = append(keptPos, i)
	}

	res := &Result{}
	c := args.NewCursor(kept)
	for c.HasNext() {
		pos := keptPos[c.Pos()]
		d, err := r.next(c)
		if err != nil {
			return nil, err
		}
		d.Pos = pos
		res.add(d)
	}
	res.Decisions = append(res.Decisions, drops...)
	sort.SliceStable(res.Decisions, func(i, j int) bool {
		return res.Decisions[i].Pos < res.Decisions[j].Pos
	})
	if log.V(1) {
		for _, d := range res.Decisions {
			if d.Key != "" {
				log.Infof("%q (%v): %v %q", d.Args, d.Key, d.Outcome, d.Emitted)
				continue
			}
			log.Infof("%q: %v %q", d.Args, d.Outcome, d.Emitted)
		}
	}
	return res, nil
}

func (r *Rewriter) next(c *args.Cursor) (*Decision, error) {
	arg := c.Next()
	switch {
	case pairedFlags[arg]:
		nr, err := c.Pair(arg)
		if err != nil {
			return nil, err
		}
		return &Decision{Outcome: RewrittenAsPairedCompilerOption, Key: nr.Key, Args: nr.Args, Emitted: nr.Args}, nil

	case isPathFlag(arg):
		nr, err := c.Value(arg, 2)
		if err != nil {
			return nil, err
		}
		// Only an upper-case I is an include path; -B and the lower-case
		// spellings are not passed on.
		if arg[1] != 'I' {
			return &Decision{Outcome: Dropped, Key: nr.Key, Args: nr.Args}, nil
		}
		f := flags.New(includeKey, nr.Key, nr.Value, true)
		return &Decision{Outcome: RewrittenAsPreprocessorFlag, Key: f.OriginalKey(), Args: nr.Args, Emitted: f.Args()}, nil

	case isDefine(arg):
		// A detached define (-D NAME) takes the next argument as its name.
		// compile_cuda.py forwarded a bare -D and handled NAME on its own.
		nr, err := c.Value(arg, 2)
		if err != nil {
			return nil, err
		}
		f := flags.New(defineKey, nr.Key, r.define(nr.Value), true)
		return &Decision{Outcome: RewrittenAsPreprocessorFlag, Key: f.OriginalKey(), Args: nr.Args, Emitted: f.Args()}, nil
	}

	emitted := arg
	if r.Mode != hostcompiler.LLVMBased {
		if repl, ok := otherReplacements[arg]; ok {
			emitted = repl
		}
	}
	return &Decision{Outcome: PassedThroughAsCompilerOption, Args: []string{arg}, Emitted: []string{emitted}}, nil
}

// define returns the normalized NAME[=VALUE] of a -D flag.
func (r *Rewriter) define(d string) string {
	if r.AltToolchainRoot != "" && strings.HasPrefix(d, msvcIncludeDefine) {
		d = fmt.Sprintf("%s=%s/%s", msvcIncludeDefine, r.AltToolchainRoot, altIncludeDir)
	}
	return strings.ReplaceAll(d, `\`, "/")
}
