package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

// Runner runs one external command in dir.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ShellRunner executes commands on the host.
type ShellRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (r ShellRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	line := commandLine(name, args)
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", name, err)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	slog.Info("running", "cmd", line, "dir", dir)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", line, err)
	}
	return nil
}

type step struct {
	name string
	args []string
}

func (s step) String() string { return commandLine(s.name, s.args) }

// runSteps stops at the first failing step.
func runSteps(ctx context.Context, r Runner, dir string, steps ...step) error {
	for _, s := range steps {
		if err := r.Run(ctx, dir, s.name, s.args...); err != nil {
			return err
		}
	}
	return nil
}

func commandLine(name string, args []string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}
