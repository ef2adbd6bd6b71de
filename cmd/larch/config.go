// Copyright 2024 The Larch Authors.
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

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/larchos/larch/pkg/hostarch"
)

// Config is the machine description read from a TOML file. Addresses and
// sizes are strings so configs can use hex ("0x80000000") and unit
// suffixes ("64M").
//
//	log-level = "debug"
//
//	[memory]
//	base = "0x80000000"
//	size = "64M"
//
//	[vm]
//	base = "0x10000000"
//	size = "256M"
//
//	[[files]]
//	path = "init"
//	source = "testdata/init.bin"
type Config struct {
	LogLevel string        `toml:"log-level"`
	Memory   ExtentConfig  `toml:"memory"`
	VM       ExtentConfig  `toml:"vm"`
	Files    []FileConfig  `toml:"files"`
	Trace    []TraceConfig `toml:"trace"`
}

// ExtentConfig describes one contiguous region.
type ExtentConfig struct {
	Base string `toml:"base"`
	Size string `toml:"size"`
}

// FileConfig seeds one file into the boot filesystem.
type FileConfig struct {
	Path   string `toml:"path"`
	Source string `toml:"source"`
}

// TraceConfig is one syscall to replay after boot: a number and up to six
// numeric argument registers.
type TraceConfig struct {
	Sysno string   `toml:"sysno"`
	Args  []string `toml:"args"`
}

// LoadConfig reads and validates a machine description.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	for _, ext := range []struct {
		name string
		ext  ExtentConfig
	}{
		{"memory", c.Memory},
		{"vm", c.VM},
	} {
		base, err := parseAddr(ext.ext.Base)
		if err != nil {
			return fmt.Errorf("%s.base: %w", ext.name, err)
		}
		size, err := parseSize(ext.ext.Size)
		if err != nil {
			return fmt.Errorf("%s.size: %w", ext.name, err)
		}
		if base%hostarch.PageSize != 0 {
			return fmt.Errorf("%s.base %#x is not page aligned", ext.name, base)
		}
		if size == 0 || size%hostarch.PageSize != 0 {
			return fmt.Errorf("%s.size %#x is not a positive page multiple", ext.name, size)
		}
	}
	for _, f := range c.Files {
		if f.Path == "" {
			return fmt.Errorf("file entry with empty path")
		}
		if f.Source == "" {
			return fmt.Errorf("file %q has no source", f.Path)
		}
	}
	for i, tr := range c.Trace {
		if _, err := parseAddr(tr.Sysno); err != nil {
			return fmt.Errorf("trace[%d].sysno: %w", i, err)
		}
		if len(tr.Args) > 6 {
			return fmt.Errorf("trace[%d]: %d args, at most 6", i, len(tr.Args))
		}
		for j, arg := range tr.Args {
			if _, err := parseAddr(arg); err != nil {
				return fmt.Errorf("trace[%d].args[%d]: %w", i, j, err)
			}
		}
	}
	switch c.LogLevel {
	case "", "debug", "info", "warning":
	default:
		return fmt.Errorf("unknown log-level %q", c.LogLevel)
	}
	return nil
}

// parseAddr accepts decimal or 0x-prefixed hex.
func parseAddr(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("missing value")
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("bad address %q", s)
	}
	return v, nil
}

// parseSize accepts the same forms as parseAddr plus K, M and G suffixes.
func parseSize(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("missing value")
	}
	mult := uint64(1)
	switch {
	case strings.HasSuffix(s, "K"):
		mult = 1 << 10
		s = strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		mult = 1 << 20
		s = strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "G"):
		mult = 1 << 30
		s = strings.TrimSuffix(s, "G")
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("bad size %q", s)
	}
	return v * mult, nil
}
