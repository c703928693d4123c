package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/amitnovick/compilation-ex4-testers/internal/archive"
	"github.com/amitnovick/compilation-ex4-testers/internal/models"
)

var (
	packIDs    []string
	packOutput string
	packForce  bool
)

func newPackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack <source-dir>",
		Short: "Create a submission archive from a source directory",
		Long: `Create a submission zip from an ex4 source directory.

The archive is named <first-id>.zip and contains ids.txt (one student ID per
line) plus the files the Makefile needs to build, under ex4/. Generated files
(*.class, the built executable, editor droppings) are excluded. The written
archive is re-validated against the same structure the run command demands.`,
		Args: cobra.ExactArgs(1),
		RunE: packCommandE,
	}

	cmd.Flags().StringArrayVar(&packIDs, "id", nil, "Student ID (repeat for team submissions)")
	cmd.Flags().StringVarP(&packOutput, "output", "o", "", "Output directory for the archive (default: current directory)")
	cmd.Flags().BoolVarP(&packForce, "force", "f", false, "Overwrite an existing archive")

	return cmd
}

func packCommandE(cmd *cobra.Command, args []string) error {
	if len(packIDs) == 0 {
		return fmt.Errorf("at least one --id is required")
	}

	sourceDir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving source directory: %w", err)
	}

	zipPath, err := archive.Create(archive.CreateOptions{
		SourceDir: sourceDir,
		IDs:       packIDs,
		OutputDir: packOutput,
		Force:     packForce,
	}, models.DefaultSuiteSpec())
	if err != nil {
		return err
	}

	fmt.Printf("Submission archive created: %s\n", zipPath)
	return nil
}
