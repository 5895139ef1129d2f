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

// Package flags provides structs for holding information about rewritten command flags.
package flags

// Flag is the in-memory representation of a specific flag emitted into a
// rewritten compiler command line.
type Flag struct {
	Key   string
	Value string
	// If true, key and value should be joined together to form a command line argument
	// (e.g -I/include/path or -DNAME=value)
	Joined bool

	// originalKey is the key before normalization, e.g. /I for -I.
	originalKey string
}

// OriginalKey returns the key as it was spelled on the input command line.
// If it is not set, it returns Key.
func (f *Flag) OriginalKey() string {
	if f.originalKey != "" {
		return f.originalKey
	}
	return f.Key
}

// New returns a new instance of Flag
func New(key, originalKey, value string, joined bool) *Flag {
	return &Flag{Key: key, originalKey: originalKey, Value: value, Joined: joined}
}

// Args renders the flag as command line arguments.
func (f *Flag) Args() []string {
	switch {
	case f.Joined:
		return []string{f.Key + f.Value}
	case f.Value == "":
		return []string{f.Key}
	default:
		return []string{f.Key, f.Value}
	}
}
