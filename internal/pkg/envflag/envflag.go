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

// Package envflag allows parsing of flags that can only be set in environment variables.
//
// The command line of compilecuda belongs to nvcc, so the flags of the
// binary itself (including the glog flags) are read from the environment.
package envflag

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"

	log "github.com/golang/glog"
)

// Prefixes are the environment variable prefixes looked up for a flag, in order.
var Prefixes = []string{"COMPILECUDA_", "FLAG_"}

var (
	rgx = regexp.MustCompile(`[\s=]`)
)

// Parse marks the default flag set as parsed without looking at os.Args, then
// sets flags from environment variables using the COMPILECUDA_ prefix,
// otherwise FLAG_ prefix.
// If the flag 'cfg' is set to a file, that file will be processed and any flag
// that is defined in that file that is not already set will be set to the value
// defined in the file. Flags already set via an environment variable will not
// be overridden by the contents of the config file.
func Parse() error {
	return ParseFlagSet(flag.CommandLine, os.LookupEnv)
}

// ParseFlagSet is Parse for an arbitrary flag set and environment.
func ParseFlagSet(fs *flag.FlagSet, lookupEnv func(string) (string, bool)) error {
	if fs.Parsed() {
		return nil
	}
	cfgFile := fs.String("cfg", "", "Optional configuration file containing flag settings")
	if err := fs.Parse(nil); err != nil {
		return err
	}
	if err := parseFromEnv(fs, lookupEnv); err != nil {
		return err
	}
	if *cfgFile == "" {
		return nil
	}
	cfgMap, err := parseFromFile(*cfgFile)
	if err != nil {
		return fmt.Errorf("failed reading config file %v: %w", *cfgFile, err)
	}
	// Remove keys from the map that are already set.
	fs.Visit(func(f *flag.Flag) {
		delete(cfgMap, f.Name)
	})
	// Set the flags remaining in the config map.
	for k, v := range cfgMap {
		if err := fs.Set(k, v); err != nil {
			log.Warningf("Failed to set flag %v to %q: %v", k, v, err)
		}
	}
	return nil
}

// parseFromFile parses flags which are defined in a configuration file. The file format is a
// single argument per line. For arguments assigning values, they should be separated by '=' or
// whitespace.
// Prefixed dashes (single or double) should not be included, but will be removed if they are.
// Returns a map for the contents of the configuration file.
func parseFromFile(cfg string) (map[string]string, error) {
	f, err := os.Open(cfg)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfgFlags := make(map[string]string)
	scan := bufio.NewScanner(f)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		splits := rgx.Split(line, 2)
		splits[0] = strings.TrimPrefix(strings.TrimPrefix(splits[0], "-"), "-")
		if len(splits) == 1 {
			cfgFlags[splits[0]] = "true"
		} else {
			cfgFlags[splits[0]] = splits[1]
		}
	}
	if err := scan.Err(); err != nil {
		return nil, err
	}
	return cfgFlags, nil
}

func parseFromEnv(fs *flag.FlagSet, lookupEnv func(string) (string, bool)) error {
	var err error
	fs.VisitAll(func(f *flag.Flag) {
		for _, prefix := range Prefixes {
			if v, ok := lookupEnv(prefix + f.Name); ok {
				if serr := fs.Set(f.Name, v); serr != nil && err == nil {
					err = fmt.Errorf("invalid value %q for %v%v: %w", v, prefix, f.Name, serr)
				}
				return
			}
		}
	})
	return err
}

// LogAllFlags logs the current values of all flags.
func LogAllFlags(verbosity log.Level) {
	var cmd []string
	flag.VisitAll(func(f *flag.Flag) {
		cmd = append(cmd, fmt.Sprintf("--%v=%v", f.Name, f.Value))
	})
	log.V(verbosity).Infof("Flags:\n%s", strings.Join(cmd, " \\\n"))
}
