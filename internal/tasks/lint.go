package tasks

import (
	"github.com/spf13/cobra"
)

var (
	gofmtStep    = step{"gofmt", []string{"-s", "-w", "."}}
	lintFixStep  = step{"golangci-lint", []string{"run", "--fix", "./..."}}
	yamlLintStep = step{"yamllint", []string{"."}}
	golangciStep = step{"golangci-lint", []string{"run", "./..."}}
	goVetStep    = step{"go", []string{"vet", "./..."}}
)

func (e *env) formatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "format",
		Short: "Format Go files and apply linter fixes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSteps(cmd.Context(), e.opts.Runner, e.dir, gofmtStep, lintFixStep)
		},
	}
}

func (e *env) lintCommand() *cobra.Command {
	lint := &cobra.Command{
		Use:   "lint",
		Short: "Run all linters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSteps(cmd.Context(), e.opts.Runner, e.dir, yamlLintStep, golangciStep, goVetStep)
		},
	}
	lint.AddCommand(
		e.stepCommand("yaml", "Check YAML files with yamllint", yamlLintStep),
		e.stepCommand("golangci", "Run golangci-lint", golangciStep),
		e.stepCommand("vet", "Run go vet", goVetStep),
	)
	return lint
}

func (e *env) stepCommand(use, short string, s step) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSteps(cmd.Context(), e.opts.Runner, e.dir, s)
		},
	}
}
