package tasks

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"inventory-lab/internal/app"
	"inventory-lab/internal/seed"

	"github.com/spf13/cobra"
)

const (
	defaultSiteName = "site-1"
	lab1URL         = "http://localhost:8101"
	lab2URL         = "http://localhost:8102"
)

func (e *env) lab1Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lab1",
		Short: "Lab1: inventory API on SQLite",
	}
	cmd.AddCommand(
		e.lab1StartCommand(),
		e.lab1DestroyCommand(),
		e.lab1LoadCommand(),
		e.testCommand("Lab1|SQLite"),
	)
	return cmd
}

func (e *env) lab1StartCommand() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Serve Lab1 until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := e.cfg.Lab1
			if listen != "" {
				cfg.Listen = listen
			}
			srv, err := app.NewLab1(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config, :8101)")
	return cmd
}

func (e *env) lab1DestroyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "destroy",
		Short: "Delete the Lab1 database file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := e.cfg.Lab1.DBPath
			removed := false
			for _, p := range []string{path, path + "-wal", path + "-shm"} {
				err := os.Remove(p)
				switch {
				case err == nil:
					removed = true
				case !errors.Is(err, fs.ErrNotExist):
					return fmt.Errorf("failed to remove %s: %w", p, err)
				}
			}
			if !removed {
				slog.Warn("no database to remove", "path", path)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", path)
			return nil
		},
	}
}

func (e *env) lab1LoadCommand() *cobra.Command {
	var url, siteName string
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Seed Lab1 with a site and five devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := seed.LoadLab1(cmd.Context(), url, siteName)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d devices into site %s\n", len(result.Devices), result.Site.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", lab1URL, "base URL of the running lab")
	cmd.Flags().StringVar(&siteName, "site-name", defaultSiteName, "site the devices are located at")
	return cmd
}
