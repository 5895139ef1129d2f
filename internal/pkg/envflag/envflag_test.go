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

package envflag

import (
	"flag"
	"os"
	"testing"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestParseUnset(t *testing.T) {
	fs := flag.NewFlagSet("compilecuda", flag.ContinueOnError)
	f := fs.String("value", "default", "Some value")
	if err := ParseFlagSet(fs, env(nil)); err != nil {
		t.Fatalf("ParseFlagSet() failed: %v", err)
	}
	if *f != "default" {
		t.Errorf("Flag has wrong value, want 'default', got %q", *f)
	}
	if !fs.Parsed() {
		t.Errorf("ParseFlagSet() did not mark the flag set as parsed")
	}
}

func TestParseSet(t *testing.T) {
	fs := flag.NewFlagSet("compilecuda", flag.ContinueOnError)
	f := fs.String("value", "", "Some value")
	if err := ParseFlagSet(fs, env(map[string]string{"COMPILECUDA_value": "test"})); err != nil {
		t.Fatalf("ParseFlagSet() failed: %v", err)
	}
	if *f != "test" {
		t.Errorf("Flag has wrong value, want 'test', got %q", *f)
	}
}

func TestParsePrefixOrder(t *testing.T) {
	fs := flag.NewFlagSet("compilecuda", flag.ContinueOnError)
	f := fs.String("value", "", "Some value")
	g := fs.String("other", "", "Some other value")
	e := env(map[string]string{
		"FLAG_value":        "test",
		"COMPILECUDA_value": "test2",
		"FLAG_other":        "fallback",
	})
	if err := ParseFlagSet(fs, e); err != nil {
		t.Fatalf("ParseFlagSet() failed: %v", err)
	}
	if *f != "test2" {
		t.Errorf("Flag has wrong value, want 'test2', got %q", *f)
	}
	if *g != "fallback" {
		t.Errorf("Flag has wrong value, want 'fallback', got %q", *g)
	}
}

func TestParseInvalidValue(t *testing.T) {
	fs := flag.NewFlagSet("compilecuda", flag.ContinueOnError)
	fs.Int("n", 0, "A number")
	if err := ParseFlagSet(fs, env(map[string]string{"COMPILECUDA_n": "many"})); err == nil {
		t.Errorf("ParseFlagSet() succeeded, want error")
	}
}

// TestParseConfigFile checks that the config file parsing is working as
// it should.  It doesn't check any interaction with the flag setup directly.
func TestParseConfigFile(t *testing.T) {
	cfgFile, err := os.CreateTemp(t.TempDir(), "test.cfg")
	if err != nil {
		t.Fatalf("Failed creating tmp file: %v", err)
	}
	// Write configuration file to read.
	cfgFile.WriteString("#This comment should be ignored\n")
	cfgFile.WriteString("\n")
	cfgFile.WriteString("arg=xyz\n")
	cfgFile.WriteString("--boolarg\n")
	cfgFile.WriteString("lbl=a=b\n")
	cfgFile.WriteString("ext 45=67")
	cfgFile.Close()
	cfgFlags, err := parseFromFile(cfgFile.Name())
	if err != nil {
		t.Fatalf("parseFromFile() failed: %v", err)
	}

	if _, ok := cfgFlags[""]; ok {
		t.Errorf("wanted nothing, got key \"\"")
	}
	if _, ok := cfgFlags["#This"]; ok {
		t.Errorf("wanted nothing, got comment")
	}
	for k, want := range map[string]string{"arg": "xyz", "boolarg": "true", "lbl": "a=b", "ext": "45=67"} {
		v, ok := cfgFlags[k]
		if !ok {
			t.Errorf("wanted value %q for %v, got nothing", want, k)
		}
		if v != want {
			t.Errorf("wanted value %q for %v, got %v", want, k, v)
		}
	}
}

// TestParseWithConfigFileEnvWins checks that a flag set in both the
// environment and the config file takes the environment value.
func TestParseWithConfigFileEnvWins(t *testing.T) {
	cfgFile, err := os.CreateTemp(t.TempDir(), "test.cfg")
	if err != nil {
		t.Fatalf("Failed creating tmp file: %v", err)
	}
	cfgFile.WriteString("arg=xyz\n")
	cfgFile.WriteString("other=abc\n")
	cfgFile.Close()

	fs := flag.NewFlagSet("compilecuda", flag.ContinueOnError)
	f := fs.String("arg", "", "Some value")
	g := fs.String("other", "", "Some other value")
	e := env(map[string]string{
		"COMPILECUDA_cfg": cfgFile.Name(),
		"COMPILECUDA_arg": "env",
	})
	if err := ParseFlagSet(fs, e); err != nil {
		t.Fatalf("ParseFlagSet() failed: %v", err)
	}
	if *f != "env" {
		t.Errorf("Flag has wrong value, want 'env', got %q", *f)
	}
	if *g != "abc" {
		t.Errorf("Flag has wrong value, want 'abc', got %q", *g)
	}
}

func TestParseMissingConfigFile(t *testing.T) {
	fs := flag.NewFlagSet("compilecuda", flag.ContinueOnError)
	e := env(map[string]string{"COMPILECUDA_cfg": "/does/not/exist.cfg"})
	if err := ParseFlagSet(fs, e); err == nil {
		t.Errorf("ParseFlagSet() succeeded, want error")
	}
}
