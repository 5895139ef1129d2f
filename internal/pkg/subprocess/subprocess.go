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

// Package subprocess provides functionality to execute system commands.
package subprocess

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/bazelbuild/remote-apis-sdks/go/pkg/command"
	"github.com/bazelbuild/remote-apis-sdks/go/pkg/outerr"

	log "github.com/golang/glog"
)

// Executor runs commands to completion.
type Executor interface {
	Run(ctx context.Context, cmd *command.Command, oe outerr.OutErr) *command.Result
}

// SystemExecutor uses the native os/exec package to execute subprocesses.
type SystemExecutor struct{}

// Run runs the given command, streaming its stdout and stderr to oe as they
// are produced, and waits for it to exit. The result carries the exit code of
// the command, or a local error if it could not be started.
func (SystemExecutor) Run(ctx context.Context, cmd *command.Command, oe outerr.OutErr) *command.Result {
	cmdCtx, err := setupCommand(ctx, cmd, oe)
	if err != nil {
		return command.NewLocalErrorResult(err)
	}
	err = cmdCtx.Run()
	if err == nil {
		return command.NewResultFromExitCode(0)
	}
	log.V(2).Infof("Executed command %v\n >> err=%v", cmd.Args, err)
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return command.NewResultFromExitCode(exitCode(exitErr))
	}
	return command.NewLocalErrorResult(err)
}

func setupCommand(ctx context.Context, cmd *command.Command, oe outerr.OutErr) (*exec.Cmd, error) {
	if len(cmd.Args) < 1 {
		return nil, fmt.Errorf("command must have more than 1 argument")
	}
	cmdCtx := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	cmdCtx.Dir = filepath.Join(cmd.ExecRoot, cmd.WorkingDir)
	if cmd.InputSpec != nil && cmd.InputSpec.EnvironmentVariables != nil {
		cmdCtx.Env = envVarList(cmd.InputSpec.EnvironmentVariables)
	}
	// Both streams may be copied concurrently into the same OutErr.
	loe := &lockedOutErr{oe: oe}
	cmdCtx.Stdout = outWriter{loe}
	cmdCtx.Stderr = errWriter{loe}
	return cmdCtx, nil
}

func envVarList(envVars map[string]string) []string {
	lst := make([]string, 0, len(envVars))
	for k, v := range envVars {
		lst = append(lst, fmt.Sprintf("%s=%s", k, v))
	}
	return lst
}

type lockedOutErr struct {
	mu sync.Mutex
	oe outerr.OutErr
}

func (l *lockedOutErr) WriteOut(p []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.oe.WriteOut(p)
}

func (l *lockedOutErr) WriteErr(p []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.oe.WriteErr(p)
}

type outWriter struct{ oe outerr.OutErr }

func (w outWriter) Write(p []byte) (int, error) {
	w.oe.WriteOut(p)
	return len(p), nil
}

type errWriter struct{ oe outerr.OutErr }

func (w errWriter) Write(p []byte) (int, error) {
	w.oe.WriteErr(p)
	return len(p), nil
}
