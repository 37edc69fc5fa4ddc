package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/willibrandon/squeal/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write or show the configuration",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = filepath.Join(config.Dir(), "config.yaml")
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			fmt.Println(green("Wrote " + path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.Storage.Path = dbPath
			}

			source := cfg.File
			if source == "" {
				source = "defaults"
			}
			fmt.Fprintln(os.Stderr, faint("# "+source))
			return yaml.NewEncoder(os.Stdout).Encode(cfg)
		},
	}
}
