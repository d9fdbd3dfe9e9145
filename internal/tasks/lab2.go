package tasks

import (
	"fmt"

	"inventory-lab/internal/app"
	"inventory-lab/internal/seed"

	"github.com/spf13/cobra"
)

func (e *env) lab2Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lab2",
		Short: "Lab2: inventory API on Neo4j",
	}
	cmd.AddCommand(
		e.lab2StartCommand(),
		e.lab2DestroyCommand(),
		e.lab2LoadCommand(),
		e.lab2LogsCommand(),
		e.testCommand("Lab2|Neo4j|Connectivity"),
	)
	return cmd
}

func (e *env) lab2StartCommand() *cobra.Command {
	var (
		listen      string
		noContainer bool
	)
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the Neo4j container and serve Lab2 until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !noContainer {
				m, err := e.opts.NewContainer(e.containerSpec())
				if err != nil {
					return err
				}
				_, err = m.Up(ctx)
				m.Close()
				if err != nil {
					return err
				}
			}

			cfg := e.cfg.Lab2
			if listen != "" {
				cfg.Listen = listen
			}
			srv, err := app.NewLab2(ctx, cfg)
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config, :8102)")
	cmd.Flags().BoolVar(&noContainer, "no-container", false, "use an already running Neo4j instead of starting the container")
	return cmd
}

func (e *env) lab2DestroyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "destroy",
		Short: "Remove the Neo4j container and its data volume",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := e.opts.NewContainer(e.containerSpec())
			if err != nil {
				return err
			}
			defer m.Close()
			if err := m.Down(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", e.cfg.Lab2.Container.Name)
			return nil
		},
	}
}

func (e *env) lab2LoadCommand() *cobra.Command {
	var (
		url, siteName string
		tags          bool
	)
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Seed Lab2 with a site, the tag palette and four devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := seed.LoadLab2(cmd.Context(), url, siteName, tags)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d devices into site %s (tags supported: %t)\n",
				len(result.Devices), result.Site.Name, result.TagsSupported)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", lab2URL, "base URL of the running lab")
	cmd.Flags().StringVar(&siteName, "site-name", defaultSiteName, "site the devices are located at")
	cmd.Flags().BoolVar(&tags, "tags", false, "load the tag palette and tag the devices")
	return cmd
}

func (e *env) lab2LogsCommand() *cobra.Command {
	var follow bool
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the Neo4j container logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := e.opts.NewContainer(e.containerSpec())
			if err != nil {
				return err
			}
			defer m.Close()
			return m.Logs(cmd.Context(), cmd.OutOrStdout(), follow)
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep streaming new output")
	return cmd
}
