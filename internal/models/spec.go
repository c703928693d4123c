package models

import (
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/amitnovick/compilation-ex4-testers/internal/hooks"
)

// Default layout and execution settings, matching the course's submission
// contract: a zip with ids.txt and an ex4/ directory whose Makefile produces
// an ANALYZER jar.
const (
	DefaultExecutableName  = "ANALYZER"
	DefaultSourceDir       = "ex4"
	DefaultManifestName    = "ids.txt"
	DefaultBuildDescriptor = "Makefile"
	DefaultTimeoutSec      = 10
	DefaultBuildTimeoutSec = 60
)

// DefaultLauncher returns the argv prefix used to invoke the analyzer
// artifact. The course analyzer is a jar, so it needs a JVM in front.
func DefaultLauncher() []string {
	return []string{"java", "-jar"}
}

// DefaultCategories returns the course's unofficial category order.
func DefaultCategories() []string {
	return []string{
		"global", "local", "propagation", "shadow", "if", "while",
		"printint", "expr", "edge", "ok",
	}
}

// SuiteSpec is the optional suite.yaml at the fixture root. Every field has a
// default matching the original course harness, so the file can be absent.
type SuiteSpec struct {
	// ExecutableName is the artifact the build must produce inside SourceDir.
	ExecutableName string `yaml:"executable"`
	// SourceDir is the submission subdirectory holding sources and the
	// build descriptor.
	SourceDir string `yaml:"source_dir"`
	// ManifestName is the identifier manifest at the archive root.
	ManifestName string `yaml:"manifest"`
	// BuildDescriptor is the build file expected inside SourceDir.
	BuildDescriptor string `yaml:"build_descriptor"`
	// Launcher is the argv prefix for invoking the artifact.
	Launcher []string `yaml:"launcher"`

	TimeoutSec      int `yaml:"timeout_seconds"`
	BuildTimeoutSec int `yaml:"build_timeout_seconds"`

	// Categories pins the category ordering for reporting. Categories found on
	// disk but not listed here are appended in name order; listed categories
	// missing on disk are skipped.
	Categories []string `yaml:"categories,omitempty"`

	// CategoryOverrides holds loosely-typed per-category settings, decoded on
	// demand with Override.
	CategoryOverrides map[string]map[string]any `yaml:"category_overrides,omitempty"`

	Hooks hooks.Config `yaml:"hooks,omitempty"`
}

// CategoryOverride adjusts execution settings for a single category.
type CategoryOverride struct {
	// TimeoutSec replaces the suite-wide per-case timeout for this category.
	TimeoutSec int `mapstructure:"timeout_seconds"`
}

// DefaultSuiteSpec returns a spec with every field set to the course defaults.
func DefaultSuiteSpec() *SuiteSpec {
	return &SuiteSpec{
		ExecutableName:  DefaultExecutableName,
		SourceDir:       DefaultSourceDir,
		ManifestName:    DefaultManifestName,
		BuildDescriptor: DefaultBuildDescriptor,
		Launcher:        DefaultLauncher(),
		TimeoutSec:      DefaultTimeoutSec,
		BuildTimeoutSec: DefaultBuildTimeoutSec,
		Categories:      DefaultCategories(),
	}
}

// LoadSuiteSpec reads a suite.yaml file and fills unset fields with defaults.
func LoadSuiteSpec(path string) (*SuiteSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	spec := &SuiteSpec{}
	if err := yaml.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("parsing suite spec %s: %w", path, err)
	}

	spec.applyDefaults()

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid suite spec %s: %w", path, err)
	}

	return spec, nil
}

func (s *SuiteSpec) applyDefaults() {
	if s.ExecutableName == "" {
		s.ExecutableName = DefaultExecutableName
	}
	if s.SourceDir == "" {
		s.SourceDir = DefaultSourceDir
	}
	if s.ManifestName == "" {
		s.ManifestName = DefaultManifestName
	}
	if s.BuildDescriptor == "" {
		s.BuildDescriptor = DefaultBuildDescriptor
	}
	if s.Launcher == nil {
		s.Launcher = DefaultLauncher()
	}
	if s.TimeoutSec == 0 {
		s.TimeoutSec = DefaultTimeoutSec
	}
	if s.BuildTimeoutSec == 0 {
		s.BuildTimeoutSec = DefaultBuildTimeoutSec
	}
	if s.Categories == nil {
		s.Categories = DefaultCategories()
	}
}

// Validate checks that the suite spec is usable.
func (s *SuiteSpec) Validate() error {
	if s.TimeoutSec < 1 {
		return fmt.Errorf("timeout_seconds must be at least 1, got %d", s.TimeoutSec)
	}
	if s.BuildTimeoutSec < 1 {
		return fmt.Errorf("build_timeout_seconds must be at least 1, got %d", s.BuildTimeoutSec)
	}
	return nil
}

// Override decodes the loose override map for a category. Returns a zero
// override when none is configured.
func (s *SuiteSpec) Override(category string) (CategoryOverride, error) {
	var ov CategoryOverride
	raw, ok := s.CategoryOverrides[category]
	if !ok {
		return ov, nil
	}
	if err := mapstructure.Decode(raw, &ov); err != nil {
		return ov, fmt.Errorf("category override for %q: %w", category, err)
	}
	return ov, nil
}

// CaseTimeoutSec returns the effective per-case timeout for a category.
func (s *SuiteSpec) CaseTimeoutSec(category string) (int, error) {
	ov, err := s.Override(category)
	if err != nil {
		return 0, err
	}
	if ov.TimeoutSec > 0 {
		return ov.TimeoutSec, nil
	}
	return s.TimeoutSec, nil
}
