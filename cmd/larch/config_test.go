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
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "machine.toml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
log-level = "debug"

[memory]
base = "0x80000000"
size = "64M"

[vm]
base = "0x10000000"
size = "256M"

[[files]]
path = "init"
source = "testdata/init.bin"

[[trace]]
sysno = "64"
args = ["1", "0x10000000", "5"]

[[trace]]
sysno = "93"
args = ["0"]
`)
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := &Config{
		LogLevel: "debug",
		Memory:   ExtentConfig{Base: "0x80000000", Size: "64M"},
		VM:       ExtentConfig{Base: "0x10000000", Size: "256M"},
		Files:    []FileConfig{{Path: "init", Source: "testdata/init.bin"}},
		Trace: []TraceConfig{
			{Sysno: "64", Args: []string{"1", "0x10000000", "5"}},
			{Sysno: "93", Args: []string{"0"}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	for _, test := range []struct {
		name     string
		contents string
	}{
		{
			name: "unaligned memory base",
			contents: `
[memory]
base = "0x80000100"
size = "64M"
[vm]
base = "0x10000000"
size = "64M"
`,
		},
		{
			name: "zero vm size",
			contents: `
[memory]
base = "0x80000000"
size = "64M"
[vm]
base = "0x10000000"
size = "0"
`,
		},
		{
			name: "missing memory size",
			contents: `
[memory]
base = "0x80000000"
[vm]
base = "0x10000000"
size = "64M"
`,
		},
		{
			name: "bad log level",
			contents: `
log-level = "trace"
[memory]
base = "0x80000000"
size = "64M"
[vm]
base = "0x10000000"
size = "64M"
`,
		},
		{
			name: "trace with too many args",
			contents: `
[memory]
base = "0x80000000"
size = "64M"
[vm]
base = "0x10000000"
size = "64M"
[[trace]]
sysno = "222"
args = ["0", "4096", "3", "34", "0xffffffffffffffff", "0", "0"]
`,
		},
		{
			name: "trace with unparseable sysno",
			contents: `
[memory]
base = "0x80000000"
size = "64M"
[vm]
base = "0x10000000"
size = "64M"
[[trace]]
sysno = "mmap"
`,
		},
		{
			name: "file without source",
			contents: `
[memory]
base = "0x80000000"
size = "64M"
[vm]
base = "0x10000000"
size = "64M"
[[files]]
path = "init"
`,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, test.contents)); err == nil {
				t.Error("LoadConfig succeeded, want error")
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	for _, test := range []struct {
		in   string
		want uint64
		ok   bool
	}{
		{"4096", 4096, true},
		{"0x1000", 4096, true},
		{"4K", 4096, true},
		{"64M", 64 << 20, true},
		{"1G", 1 << 30, true},
		{"0x10M", 16 << 20, true},
		{"", 0, false},
		{"64Q", 0, false},
		{"M", 0, false},
	} {
		got, err := parseSize(test.in)
		if (err == nil) != test.ok {
			t.Errorf("parseSize(%q): err = %v, want ok=%t", test.in, err, test.ok)
			continue
		}
		if test.ok && got != test.want {
			t.Errorf("parseSize(%q): got %d, want %d", test.in, got, test.want)
		}
	}
}
