// Package scenario runs YAML-defined acceptance scripts against the Jackut facade.
// A scenario is an ordered list of steps; each step names a facade operation, its
// arguments and the output or error message it must produce.
package scenario

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario is one acceptance script.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is a single facade call. Expect and ExpectError are mutually exclusive; a step
// with neither only has to succeed.
type Step struct {
	Op          string            `yaml:"op"`
	Args        map[string]string `yaml:"args,omitempty"`
	Save        string            `yaml:"save,omitempty"`
	Expect      *string           `yaml:"expect,omitempty"`
	ExpectError *string           `yaml:"expectError,omitempty"`
}

// Parse decodes a scenario, rejecting unknown keys so typos in step fields surface early.
func Parse(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}
	for i, step := range s.Steps {
		if step.Op == "" {
			return nil, fmt.Errorf("step %d: missing op", i+1)
		}
		if step.Expect != nil && step.ExpectError != nil {
			return nil, fmt.Errorf("step %d (%s): expect and expectError are mutually exclusive", i+1, step.Op)
		}
	}
	return &s, nil
}

// LoadFile reads a scenario from disk. A scenario without a name is named after its file.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = filepath.Base(path)
	}
	return s, nil
}

// Expand turns each argument into a list of scenario files. Directories contribute their
// *.yaml and *.yml files in lexical order, so numbered scripts run in sequence.
func Expand(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		var files []string
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(p, pattern))
			if err != nil {
				return nil, err
			}
			files = append(files, matches...)
		}
		sort.Strings(files)
		out = append(out, files...)
	}
	return out, nil
}
