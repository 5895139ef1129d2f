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

// Main package for the compilecuda binary.
//
// compilecuda is used in place of nvcc by a build system whose compile flags
// are written for a regular C/C++ compiler:
//
//	compilecuda /path/to/getpid1.so /usr/local/cuda/bin/nvcc -c a.cu -o a.o \
//	    --cflags -I/include -DNDEBUG -O2 -fsanitize=address
//
// The flags after --cflags are translated for nvcc, and nvcc runs with a
// preloaded getpid() stub and a fresh TMPDIR so that its output is
// reproducible. Add --y_dump_args before --cflags to print the nvcc command
// instead of running it.
//
// The command line belongs to nvcc, so the flags of compilecuda itself are
// set with COMPILECUDA_<flag> environment variables, e.g. COMPILECUDA_v=2.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/david-waterworth/catboost/internal/pkg/compilecuda"
	"github.com/david-waterworth/catboost/internal/pkg/envflag"
	"github.com/david-waterworth/catboost/internal/pkg/printer"
	"github.com/david-waterworth/catboost/pkg/version"

	log "github.com/golang/glog"
)

var (
	tmpRoot   = flag.String("tmp_root", "", "Directory in which the per-invocation TMPDIR of nvcc is created. Defaults to the system temp dir.")
	colorMode = flag.String("color", "auto", "Control the color of diagnostics; one of (off, on, auto)")
)

func main() {
	if err := envflag.Parse(); err != nil {
		fmt.Fprintf(os.Stderr, "compilecuda: %v\n", err)
		os.Exit(compilecuda.ExitMalformed)
	}
	if version.PrintOnVersionFlag(os.Stdout) {
		os.Exit(0)
	}
	if err := printer.SetColorMode(*colorMode); err != nil {
		printer.Warning(os.Stderr, err.Error())
	}
	envflag.LogAllFlags(1)
	log.V(1).Infof("compilecuda %v: %q", version.CurrentVersion(), os.Args)

	code := compilecuda.Run(context.Background(), os.Args, compilecuda.Options{TempRoot: *tmpRoot})
	log.Flush()
	os.Exit(code)
}
