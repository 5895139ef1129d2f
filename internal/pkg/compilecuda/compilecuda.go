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

// Package compilecuda runs nvcc with flags translated from a C/C++ toolchain.
package compilecuda

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/bazelbuild/remote-apis-sdks/go/pkg/command"
	"github.com/bazelbuild/remote-apis-sdks/go/pkg/outerr"

	"github.com/david-waterworth/catboost/internal/pkg/execctx"
	"github.com/david-waterworth/catboost/internal/pkg/hostcompiler"
	"github.com/david-waterworth/catboost/internal/pkg/invocation"
	"github.com/david-waterworth/catboost/internal/pkg/nvccflags"
	"github.com/david-waterworth/catboost/internal/pkg/printer"
	"github.com/david-waterworth/catboost/internal/pkg/subprocess"

	log "github.com/golang/glog"
)

// AltToolchainRootVar names the environment variable holding the root of a
// separate MSVC installation used for CUDA builds. nvcc requires particular
// MSVC versions which may differ from the one used for regular C++ code.
const AltToolchainRootVar = "Y_VC_Root"

// Exit codes of Run besides the exit code of nvcc itself.
const (
	ExitFailure   = 1
	ExitMalformed = 2
)

// ErrExecutableNotFound is returned when the nvcc executable does not exist.
var ErrExecutableNotFound = errors.New("not found")

// Options configure Run. Zero fields take the process defaults.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	// LookupEnv reads the environment of compilecuda.
	LookupEnv func(string) (string, bool)
	// Environ is the environment nvcc starts from.
	Environ func() []string
	// TempRoot is where the per-invocation TMPDIR is created.
	TempRoot string
	Executor subprocess.Executor
}

func (o Options) withDefaults() Options {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.LookupEnv == nil {
		o.LookupEnv = os.LookupEnv
	}
	if o.Environ == nil {
		o.Environ = os.Environ
	}
	if o.Executor == nil {
		o.Executor = subprocess.SystemExecutor{}
	}
	return o
}

// Plan is the translated nvcc command for one invocation.
type Plan struct {
	Invocation *invocation.Invocation
	Mode       hostcompiler.Mode
	Result     *nvccflags.Result
	// Command is the final nvcc command line.
	Command []string
}

// NewPlan translates the flags of inv. altRoot is the value of
// AltToolchainRootVar, already expanded.
func NewPlan(inv *invocation.Invocation, altRoot string) (*Plan, error) {
	p := &Plan{
		Invocation: inv,
		Mode:       hostcompiler.Detect(inv.Command),
	}
	r := &nvccflags.Rewriter{
		Mode:             p.Mode,
		SkipNoCXXInc:     inv.SkipNoCXXInc,
		AltToolchainRoot: altRoot,
	}
	res, err := r.Rewrite(inv.Flags)
	if err != nil {
		return nil, err
	}
	p.Result = res
	p.Command = nvccflags.Assemble(inv.Command, res)
	return p, nil
}

// CheckExecutable returns ErrExecutableNotFound if path does not exist.
func CheckExecutable(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%v %w", path, ErrExecutableNotFound)
	}
	return nil
}

// Run translates and runs the command line argv, including the program name,
// and returns the exit code for the process.
//
// In dry-run mode the command is printed to Stdout, one argument per line.
// Otherwise nvcc runs with both its stdout and stderr sent to Stderr, so that
// build systems that only keep stderr still see every diagnostic.
func Run(ctx context.Context, argv []string, opts Options) int {
	opts = opts.withDefaults()
	inv, err := invocation.Parse(argv)
	if err != nil {
		printer.Error(opts.Stderr, err.Error())
		return ExitMalformed
	}
	if err := CheckExecutable(inv.Executable()); err != nil {
		log.Warningf("%v", err)
		printer.Error(opts.Stderr, err.Error())
		return ExitFailure
	}
	plan, err := NewPlan(inv, altToolchainRoot(opts.LookupEnv))
	if err != nil {
		printer.Error(opts.Stderr, err.Error())
		return ExitMalformed
	}

	ec, err := execctx.New(inv.PreloadPath, opts.TempRoot, inv.DumpArgs)
	if err != nil {
		log.Warningf("%v", err)
		printer.Error(opts.Stderr, err.Error())
		return ExitFailure
	}
	log.V(2).Infof("%v: %v mode, command %q", ec.ID, plan.Mode, plan.Command)
	if inv.DumpArgs {
		if _, err := io.WriteString(opts.Stdout, strings.Join(plan.Command, "\n")); err != nil {
			log.Warningf("%v: %v", ec.ID, err)
			printer.Error(opts.Stderr, fmt.Sprintf("failed to write command: %v", err))
			return ExitFailure
		}
		return 0
	}

	cmd := &command.Command{
		Identifiers: &command.Identifiers{CommandID: ec.ID},
		Args:        plan.Command,
		InputSpec: &command.InputSpec{
			EnvironmentVariables: ec.EnvMap(opts.Environ()),
		},
	}
	res := opts.Executor.Run(ctx, cmd, outerr.NewStreamOutErr(opts.Stderr, opts.Stderr))
	if res.Status == command.LocalErrorResultStatus {
		log.Warningf("%v: %v", ec.ID, res.Err)
		printer.Error(opts.Stderr, fmt.Sprintf("failed to run %v: %v", inv.Executable(), res.Err))
		return ExitFailure
	}
	log.V(1).Infof("%v: exit code %v", ec.ID, res.ExitCode)
	return res.ExitCode
}

// envRef matches $NAME and ${NAME} references.
var envRef = regexp.MustCompile(`\$(\w+|\{[^}]*\})`)

// altToolchainRoot returns the value of AltToolchainRootVar with environment
// variable references expanded. Unknown references, braced or not, are kept
// as they are.
func altToolchainRoot(lookupEnv func(string) (string, bool)) string {
	root, ok := lookupEnv(AltToolchainRootVar)
	if !ok || root == "" {
		return ""
	}
	return envRef.ReplaceAllStringFunc(root, func(ref string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(ref[1:], "{"), "}")
		if v, ok := lookupEnv(name); ok {
			return v
		}
		return ref
	})
}
