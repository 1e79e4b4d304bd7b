package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/brainwave-dev/atm/internal/config"
	"github.com/brainwave-dev/atm/internal/gitops"
)

func newInitCommand() *cobra.Command {
	var driver string
	var useGit bool
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default atm.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, driver, useGit, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized ATM data directory at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&driver, "driver", config.DriverJSON, "storage driver: json or sqlite")
	cmd.Flags().BoolVar(&useGit, "git", false, "initialize git and commit the data file after every change")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing atm.yaml")

	return cmd
}

func runInit(dir, driver string, useGit, force bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	cfg := config.Default()
	cfg.Storage.Driver = driver
	if driver == config.DriverSQLite {
		cfg.Storage.Path = "atm.db"
	}
	cfg.Git.AutoCommit = useGit
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if useGit && !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return err
		}
	}
	return nil
}
