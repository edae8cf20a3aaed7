package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// SuiteResult summarises a run over several scenario files.
type SuiteResult struct {
	Total     int       `json:"total"`
	Passed    int       `json:"passed"`
	Failed    int       `json:"failed"`
	Scenarios []Outcome `json:"scenarios"`
	Failures  []Outcome `json:"failures,omitempty"`
}

// Outcome is the result of one scenario file.
type Outcome struct {
	Scenario string   `json:"scenario"`
	Path     string   `json:"path"`
	Pass     bool     `json:"pass"`
	Errors   []string `json:"errors,omitempty"`
}

// Discover returns the scenario files under path: path itself when it is a
// file, otherwise every .yaml and .yml file below it, sorted.
func Discover(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("scenario path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(p) {
		case ".yaml", ".yml":
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", path, err)
	}
	sort.Strings(files)
	return files, nil
}

// Suite runs scenario files with shared options.
type Suite struct {
	Options []Option

	// Check runs after every scenario that ran. A non-nil error fails the
	// scenario even when its assertions held.
	Check func(*Scenario, *Result) error
}

// RunFiles runs every file with opts and no extra check.
func RunFiles(ctx context.Context, paths []string, opts ...Option) *SuiteResult {
	return Suite{Options: opts}.Run(ctx, paths)
}

// Run loads and runs every file. A file that fails to load or run counts as
// a failure; the remaining files still run.
func (s Suite) Run(ctx context.Context, paths []string) *SuiteResult {
	suite := &SuiteResult{Scenarios: make([]Outcome, 0, len(paths))}
	for _, path := range paths {
		suite.add(s.runOne(ctx, path))
	}
	return suite
}

func (s Suite) runOne(ctx context.Context, path string) Outcome {
	scenario, err := LoadScenario(path)
	if err != nil {
		return Outcome{Scenario: filepath.Base(path), Path: path, Errors: []string{err.Error()}}
	}
	out := Outcome{Scenario: scenario.Name, Path: path}

	result, err := Run(ctx, scenario, s.Options...)
	if err != nil {
		out.Errors = []string{err.Error()}
		return out
	}
	out.Errors = result.Errors
	if s.Check != nil {
		if err := s.Check(scenario, result); err != nil {
			out.Errors = append(out.Errors, err.Error())
		}
	}
	out.Pass = len(out.Errors) == 0
	return out
}

func (s *SuiteResult) add(o Outcome) {
	s.Total++
	s.Scenarios = append(s.Scenarios, o)
	if o.Pass {
		s.Passed++
		return
	}
	s.Failed++
	s.Failures = append(s.Failures, o)
}
