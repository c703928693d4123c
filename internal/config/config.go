// Package config carries the explicit run context for one suite evaluation.
// Everything a component needs — spec, fixture root, filters, output paths —
// travels through a RunConfig instead of process-wide state.
package config

import "github.com/amitnovick/compilation-ex4-testers/internal/models"

// RunConfig is the immutable configuration for a single suite run.
type RunConfig struct {
	spec     *models.SuiteSpec
	suiteDir string

	categoryFilter string
	caseFilter     string
	official       bool
	unofficial     bool

	verbose  bool
	keepTemp bool
	parallel bool
	workers  int

	outputPath string
	junitPath  string
}

// Option configures a RunConfig.
type Option func(*RunConfig)

// WithSuiteDir sets the fixture root directory containing official/ and
// unofficial/ test hierarchies.
func WithSuiteDir(dir string) Option {
	return func(c *RunConfig) { c.suiteDir = dir }
}

// WithCategoryFilter restricts the run to one category.
func WithCategoryFilter(category string) Option {
	return func(c *RunConfig) { c.categoryFilter = category }
}

// WithCaseFilter restricts the run to cases whose name matches the given
// substring or glob pattern.
func WithCaseFilter(pattern string) Option {
	return func(c *RunConfig) { c.caseFilter = pattern }
}

// WithGroups selects which fixture groups run. Both false means both run.
func WithGroups(official, unofficial bool) Option {
	return func(c *RunConfig) {
		c.official = official
		c.unofficial = unofficial
	}
}

func WithVerbose(v bool) Option {
	return func(c *RunConfig) { c.verbose = v }
}

// WithKeepTemp retains the extraction directory for debugging instead of
// removing it when the run finishes.
func WithKeepTemp(keep bool) Option {
	return func(c *RunConfig) { c.keepTemp = keep }
}

// WithParallel enables concurrent case execution with the given worker bound.
// workers <= 0 selects the default.
func WithParallel(parallel bool, workers int) Option {
	return func(c *RunConfig) {
		c.parallel = parallel
		c.workers = workers
	}
}

func WithOutputPath(path string) Option {
	return func(c *RunConfig) { c.outputPath = path }
}

func WithJUnitPath(path string) Option {
	return func(c *RunConfig) { c.junitPath = path }
}

// New builds a RunConfig around a suite spec. A nil spec gets the defaults.
func New(spec *models.SuiteSpec, opts ...Option) *RunConfig {
	if spec == nil {
		spec = models.DefaultSuiteSpec()
	}
	c := &RunConfig{spec: spec}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *RunConfig) Spec() *models.SuiteSpec { return c.spec }
func (c *RunConfig) SuiteDir() string        { return c.suiteDir }
func (c *RunConfig) CategoryFilter() string  { return c.categoryFilter }
func (c *RunConfig) CaseFilter() string      { return c.caseFilter }
func (c *RunConfig) Verbose() bool           { return c.verbose }
func (c *RunConfig) KeepTemp() bool          { return c.keepTemp }
func (c *RunConfig) Parallel() bool          { return c.parallel }
func (c *RunConfig) OutputPath() string      { return c.outputPath }
func (c *RunConfig) JUnitPath() string       { return c.junitPath }

// Workers returns the effective worker count for parallel runs.
func (c *RunConfig) Workers() int {
	if c.workers <= 0 {
		return 4
	}
	return c.workers
}

// RunOfficial reports whether the flat official fixture group should run.
func (c *RunConfig) RunOfficial() bool {
	if !c.official && !c.unofficial {
		return c.categoryFilter == ""
	}
	return c.official
}

// RunUnofficial reports whether the per-category fixture groups should run.
func (c *RunConfig) RunUnofficial() bool {
	if !c.official && !c.unofficial {
		return true
	}
	return c.unofficial
}
