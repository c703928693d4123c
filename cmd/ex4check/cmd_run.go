package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amitnovick/compilation-ex4-testers/internal/archive"
	"github.com/amitnovick/compilation-ex4-testers/internal/builder"
	"github.com/amitnovick/compilation-ex4-testers/internal/config"
	"github.com/amitnovick/compilation-ex4-testers/internal/models"
	"github.com/amitnovick/compilation-ex4-testers/internal/reporting"
	"github.com/amitnovick/compilation-ex4-testers/internal/suite"
)

// suiteSpecFileName is the optional per-suite configuration file at the suite
// root.
const suiteSpecFileName = "suite.yaml"

var (
	suiteDir        string
	officialOnly    bool
	unofficialOnly  bool
	categoryFilter  string
	caseFilter      string
	verbose         bool
	parallel        bool
	workers         int
	caseTimeoutSec  int
	buildTimeoutSec int
	keepTemp        bool
	outputPath      string
	junitPath       string
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <submission.zip | source-dir>",
		Short: "Build a submission and run the test suite against it",
		Long: `Run the test suite against a submission.

Given a zip archive, the submission is extracted into a temporary directory,
validated (ids.txt, ex4/, ex4/Makefile), built with make, and exercised. Given
a directory, the analyzer executable is expected to already exist inside it.

The suite directory holds an official/ group and per-category groups under
unofficial/, each pairing tests/<name>.txt with
expected_output/<name>_Expected_Output.txt.`,
		Args: cobra.ExactArgs(1),
		RunE: runCommandE,
	}

	cmd.Flags().StringVar(&suiteDir, "suite", ".", "Suite root directory containing official/ and unofficial/")
	cmd.Flags().BoolVar(&officialOnly, "official", false, "Run only the official tests")
	cmd.Flags().BoolVar(&unofficialOnly, "unofficial", false, "Run only the unofficial tests")
	cmd.Flags().StringVar(&categoryFilter, "category", "", "Run a single category (e.g. global, if, while)")
	cmd.Flags().StringVar(&caseFilter, "filter", "", "Run only cases whose name matches this substring or glob")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show expected-vs-actual diffs for failures")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "Run cases concurrently (report is unchanged)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of concurrent workers (default: 4, requires --parallel)")
	cmd.Flags().IntVar(&caseTimeoutSec, "timeout", 0, "Per-case timeout in seconds (overrides suite.yaml)")
	cmd.Flags().IntVar(&buildTimeoutSec, "build-timeout", 0, "Build timeout in seconds (overrides suite.yaml)")
	cmd.Flags().BoolVar(&keepTemp, "keep-temp", false, "Keep the extraction directory for debugging")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output JSON file for the report")
	cmd.Flags().StringVar(&junitPath, "junit", "", "Output JUnit XML file for the report")

	return cmd
}

func runCommandE(cmd *cobra.Command, args []string) error {
	submission := args[0]

	spec, err := loadSuiteSpec(suiteDir)
	if err != nil {
		return err
	}
	if caseTimeoutSec > 0 {
		spec.TimeoutSec = caseTimeoutSec
	}
	if buildTimeoutSec > 0 {
		spec.BuildTimeoutSec = buildTimeoutSec
	}

	cfg := config.New(spec,
		config.WithSuiteDir(suiteDir),
		config.WithGroups(officialOnly, unofficialOnly),
		config.WithCategoryFilter(categoryFilter),
		config.WithCaseFilter(caseFilter),
		config.WithVerbose(verbose),
		config.WithKeepTemp(keepTemp),
		config.WithParallel(parallel, workers),
		config.WithOutputPath(outputPath),
		config.WithJUnitPath(junitPath),
	)

	ctx := context.Background()

	artifact, cleanup, err := prepareArtifact(ctx, submission, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	runner := suite.NewRunner(cfg, artifact)

	reporter := newConsoleReporter(os.Stdout, verbose)
	runner.OnProgress(reporter.Listen)

	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	reporter.PrintSummary(report)

	if cfg.OutputPath() != "" {
		if err := saveReport(report, cfg.OutputPath()); err != nil {
			return fmt.Errorf("saving report: %w", err)
		}
		fmt.Printf("Report saved to: %s\n", cfg.OutputPath())
	}
	if cfg.JUnitPath() != "" {
		if err := reporting.WriteJUnit(report, cfg.JUnitPath()); err != nil {
			return fmt.Errorf("saving JUnit report: %w", err)
		}
		fmt.Printf("JUnit report saved to: %s\n", cfg.JUnitPath())
	}

	if !report.AllPassed() {
		notPassed := report.Total - report.Passed
		return &TestFailureError{
			Message: fmt.Sprintf("%d of %d case(s) did not pass", notPassed, report.Total),
		}
	}
	return nil
}

// prepareArtifact turns the submission argument into a runnable artifact. A
// .zip goes through extraction, validation, and a build; a directory is
// expected to hold an already-built executable.
func prepareArtifact(ctx context.Context, submission string, cfg *config.RunConfig) (*models.BuildArtifact, func(), error) {
	spec := cfg.Spec()

	if strings.HasSuffix(submission, ".zip") {
		root, err := archive.Inspect(submission, spec)
		if err != nil {
			return nil, nil, err
		}
		if cfg.KeepTemp() {
			root.Retain()
			fmt.Printf("Extraction directory retained: %s\n", root.Dir)
		}

		cleanup := func() {
			if err := root.Close(); err != nil {
				slog.Warn("removing extraction directory", "dir", root.Dir, "error", err)
			}
		}

		fmt.Printf("Submission: %s\n", filepath.Base(submission))
		fmt.Printf("Student IDs: %s\n", strings.Join(root.IDs, ", "))
		fmt.Printf("Building with make (timeout %ds)...\n", spec.BuildTimeoutSec)

		artifact, err := builder.Build(ctx, root, spec)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		fmt.Printf("Built: %s\n\n", artifact.Path)
		return artifact, cleanup, nil
	}

	artifact, err := builder.Locate(submission, spec)
	if err != nil {
		return nil, nil, err
	}
	fmt.Printf("Analyzer: %s\n\n", artifact.Path)
	return artifact, func() {}, nil
}

// loadSuiteSpec reads suite.yaml from the suite root, falling back to the
// course defaults when the file is absent.
func loadSuiteSpec(dir string) (*models.SuiteSpec, error) {
	path := filepath.Join(dir, suiteSpecFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return models.DefaultSuiteSpec(), nil
	}
	return models.LoadSuiteSpec(path)
}

func saveReport(report *models.SuiteReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
