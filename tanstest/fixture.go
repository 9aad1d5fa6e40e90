// Copyright © 2024 The ELPS authors

package tanstest

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"gopkg.in/yaml.v3"
)

// Fixture is a file of test sequences stored as YAML.
//
//	name: signals
//	tests:
//	  - name: round trip
//	    steps:
//	      - expr: "x #= 1;"
//	        result: "1"
type Fixture struct {
	Name  string         `yaml:"name"`
	Tests []FixtureSuite `yaml:"tests"`
}

// FixtureSuite is a named sequence of steps evaluated in one root scope.
type FixtureSuite struct {
	Name  string        `yaml:"name"`
	Steps []FixtureStep `yaml:"steps"`
}

// FixtureStep is a single program and its expected outcome.
type FixtureStep struct {
	Expr   string `yaml:"expr"`
	Result string `yaml:"result"`
	Output string `yaml:"output"`
}

// LoadFixture decodes the fixture stored at path.
func LoadFixture(path string) (*Fixture, error) {
	f, err := os.Open(path) //#nosec G304
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	fix := &Fixture{}
	if err := dec.Decode(fix); err != nil {
		return nil, err
	}
	if fix.Name == "" {
		fix.Name = filepath.Base(path)
	}
	return fix, nil
}

// Suite converts fix into a TestSuite.
func (fix *Fixture) Suite() TestSuite {
	suite := make(TestSuite, len(fix.Tests))
	for i, test := range fix.Tests {
		suite[i].Name = test.Name
		for _, step := range test.Steps {
			suite[i].TestSequence = append(suite[i].TestSequence, struct {
				Expr   string
				Result string
				Output string
			}{step.Expr, step.Result, step.Output})
		}
	}
	return suite
}

// RunFixtureFile runs the fixture stored at path as a subtest.
func (r *Runner) RunFixtureFile(t *testing.T, path string) {
	fix, err := LoadFixture(path)
	if err != nil {
		t.Errorf("Unable to load fixture %v: %v", path, err)
		return
	}
	t.Run(fix.Name, func(t *testing.T) {
		r.RunTestSuite(t, fix.Suite())
	})
}

// RunFixtureDir runs every *.yaml fixture in dir in lexical order.
func (r *Runner) RunFixtureDir(t *testing.T, dir string) {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		t.Fatalf("Failed to list test fixtures: %v", err)
	}
	if len(files) == 0 {
		t.Fatalf("No test fixtures found in %v", dir)
	}
	sort.Strings(files)
	for _, path := range files {
		r.RunFixtureFile(t, path)
	}
}
