// Package tasks builds the labctl command tree.
package tasks

import (
	"context"
	"io"
	"os"

	"inventory-lab/internal/config"
	"inventory-lab/internal/container"
	"inventory-lab/internal/logging"

	"github.com/spf13/cobra"
)

// ContainerManager controls the Neo4j container behind Lab2.
type ContainerManager interface {
	Up(ctx context.Context) (string, error)
	Down(ctx context.Context) error
	Logs(ctx context.Context, w io.Writer, follow bool) error
	Close() error
}

type Options struct {
	Runner       Runner
	Out          io.Writer
	NewContainer func(container.Spec) (ContainerManager, error)
}

type env struct {
	opts       Options
	configPath string
	dir        string
	cfg        *config.Config
}

// NewRootCommand builds labctl. Zero fields in opts get host defaults.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Runner == nil {
		opts.Runner = ShellRunner{Stdout: opts.Out, Stderr: os.Stderr}
	}
	if opts.NewContainer == nil {
		opts.NewContainer = func(spec container.Spec) (ContainerManager, error) {
			return container.NewManager(spec)
		}
	}
	e := &env{opts: opts}

	root := &cobra.Command{
		Use:           "labctl",
		Short:         "labctl - run, seed and check the inventory labs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(e.configPath)
			if err != nil {
				return err
			}
			logging.Init(cfg.Log.Level, cfg.Log.Format)
			e.cfg = cfg
			return nil
		},
	}
	root.SetOut(opts.Out)
	root.PersistentFlags().StringVar(&e.configPath, "config", config.PathFromEnv(), "YAML config file")
	root.PersistentFlags().StringVar(&e.dir, "dir", ".", "project directory shell commands run in")

	root.AddCommand(
		e.formatCommand(),
		e.lintCommand(),
		e.lab1Command(),
		e.lab2Command(),
	)
	return root
}

func (e *env) containerSpec() container.Spec {
	c := e.cfg.Lab2.Container
	return container.Spec{
		Name:     c.Name,
		Image:    c.Image,
		Platform: c.Platform,
		Volume:   c.Volume,
		BoltPort: c.BoltPort,
		HTTPPort: c.HTTPPort,
		Username: e.cfg.Lab2.Neo4j.Username,
		Password: e.cfg.Lab2.Neo4j.Password,
	}
}

// testCommand runs the Go tests whose names match pattern.
func (e *env) testCommand(pattern string) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Run the tests for this lab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.opts.Runner.Run(cmd.Context(), e.dir, "go", "test", "-run", pattern, "./...")
		},
	}
}
