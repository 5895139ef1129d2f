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

// Package args provides a cursor over command line arguments.
package args

import (
	"errors"
	"fmt"
)

// ErrMissingValue is returned when a flag that requires a value is the last argument.
var ErrMissingValue = errors.New("flag requires a value")

// Cursor walks command line arguments left to right.
//
// Each flag is read with Next. A flag that carries a value either glued to it
// (`-Ivalue`) or as the following argument (`-I value`) is completed with
// Value; a flag that always takes the following argument (`-mllvm value`) is
// completed with Pair. Both report which arguments were consumed so that
// callers can account for every input token.
type Cursor struct {
	args []string
	pos  int
}

// NextResult is a flag together with the value it was read with.
type NextResult struct {
	// Args are the consumed arguments, in order.
	Args []string
	// Key is the flag without its value, e.g. "-I" for "-Ifoo".
	Key string
	// Value is the flag value, empty for flags without one.
	Value string
	// Joined is true if the value was glued to the key in a single argument.
	Joined bool
}

// NewCursor returns a cursor positioned at the first of args.
func NewCursor(args []string) *Cursor {
	return &Cursor{args: args}
}

// HasNext returns true if there are more args to process.
func (c *Cursor) HasNext() bool {
	return c.pos < len(c.args)
}

// Pos returns the index of the next argument to be read.
func (c *Cursor) Pos() int {
	return c.pos
}

// Peek returns the next argument without consuming it.
func (c *Cursor) Peek() (string, bool) {
	if !c.HasNext() {
		return "", false
	}
	return c.args[c.pos], true
}

// Next consumes and returns the next argument. It returns an empty string
// once the arguments are exhausted.
func (c *Cursor) Next() string {
	if !c.HasNext() {
		return ""
	}
	arg := c.args[c.pos]
	c.pos++
	return arg
}

// Value completes arg, already returned by Next, whose first keyLen bytes are
// the flag key. The rest of arg is the value; if it is empty the following
// argument is consumed instead.
func (c *Cursor) Value(arg string, keyLen int) (*NextResult, error) {
	if keyLen > len(arg) {
		keyLen = len(arg)
	}
	key, value := arg[:keyLen], arg[keyLen:]
	if value != "" {
		return &NextResult{Args: []string{arg}, Key: key, Value: value, Joined: true}, nil
	}
	next, ok := c.Peek()
	if !ok {
		return nil, fmt.Errorf("%q: %w", arg, ErrMissingValue)
	}
	c.pos++
	return &NextResult{Args: []string{arg, next}, Key: key, Value: next}, nil
}

// Pair completes arg, already returned by Next, with the following argument.
func (c *Cursor) Pair(arg string) (*NextResult, error) {
	next, ok := c.Peek()
	if !ok {
		return nil, fmt.Errorf("%q: %w", arg, ErrMissingValue)
	}
	c.pos++
	return &NextResult{Args: []string{arg, next}, Key: arg, Value: next}, nil
}
