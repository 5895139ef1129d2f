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

// Package execctx prepares the environment that makes nvcc output reproducible.
//
// nvcc generates symbols like
//
//	__cudaRegisterLinkedBinary_{len}_tmpxft_{pid}_00000000_6_{src}1_ii_{hash}
//
// which embed its pid. A preloaded library whose getpid() always returns 1
// stabilizes them. nvcc also deletes every file in TMPDIR matching
// tmpxft_{pid}*, including files it did not create, so each invocation gets
// a fresh TMPDIR of its own.
package execctx

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	log "github.com/golang/glog"
)

const (
	// PreloadVar is the dynamic loader preload variable.
	PreloadVar = "LD_PRELOAD"
	// TempDirVar is the temporary directory variable nvcc honours.
	TempDirVar = "TMPDIR"

	tempDirPrefix = "compile_cuda."
)

// Context is the environment of a single nvcc invocation.
type Context struct {
	// ID identifies the invocation in logs and in the temp dir name.
	ID string
	// PreloadPath is the getpid() stub to preload into nvcc.
	PreloadPath string
	// TempDir is the fresh TMPDIR for nvcc. Empty for dry runs.
	TempDir string
	// DryRun contexts do not create a temp dir.
	DryRun bool
}

// New returns a Context for one invocation. Unless dryRun is set, a new
// directory is created under tmpRoot, or under the default temp dir if
// tmpRoot is empty. The directory is left in place when the invocation ends.
func New(preloadPath, tmpRoot string, dryRun bool) (*Context, error) {
	c := &Context{
		ID:          uuid.New().String(),
		PreloadPath: preloadPath,
		DryRun:      dryRun,
	}
	if dryRun {
		return c, nil
	}
	dir, err := os.MkdirTemp(tmpRoot, fmt.Sprintf("%s%s.", tempDirPrefix, c.ID[:8]))
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	c.TempDir = dir
	log.V(1).Infof("%v: TMPDIR=%v %v=%v", c.ID, dir, PreloadVar, preloadPath)
	return c, nil
}

// overrides returns the variables set by the context, in a fixed order.
func (c *Context) overrides() [][2]string {
	res := [][2]string{{PreloadVar, c.PreloadPath}}
	if c.TempDir != "" {
		res = append(res, [2]string{TempDirVar, c.TempDir})
	}
	return res
}

// Env returns base, a list of KEY=VALUE entries, with the context's variables
// replacing any existing definitions. The result is a new slice.
func (c *Context) Env(base []string) []string {
	ov := c.overrides()
	res := make([]string, 0, len(base)+len(ov))
	for _, kv := range base {
		k, _, _ := strings.Cut(kv, "=")
		if c.overridden(k, ov) {
			continue
		}
		res = append(res, kv)
	}
	for _, o := range ov {
		res = append(res, o[0]+"="+o[1])
	}
	return res
}

// EnvMap is like Env but returns a map. Later definitions in base win.
func (c *Context) EnvMap(base []string) map[string]string {
	res := make(map[string]string, len(base)+2)
	for _, kv := range c.Env(base) {
		k, v, _ := strings.Cut(kv, "=")
		res[k] = v
	}
	return res
}

func (c *Context) overridden(key string, ov [][2]string) bool {
	for _, o := range ov {
		if o[0] == key {
			return true
		}
	}
	return false
}
