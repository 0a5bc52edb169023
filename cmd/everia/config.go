package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"everia/pkg/config"
	"everia/pkg/ui"
)

const defaultConfigPath = ".everia.yaml"

func newConfigCmd(opts *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
		Long: `Manage everia configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (EVERIA_*)
  - .env files
  - Configuration file
  - Default values (lowest priority)`,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd, opts)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, opts)
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigValidate(cmd, opts)
		},
	}

	configCmd.AddCommand(initCmd, showCmd, validateCmd)
	return configCmd
}

func runConfigInit(cmd *cobra.Command, opts *rootOptions) error {
	console := ui.NewConsole(cmd.OutOrStdout(), opts.quiet)

	configPath := opts.configFile
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); err == nil {
		err := fmt.Errorf("configuration file already exists: %s", configPath)
		console.PrintError("Refusing to overwrite", err)
		return err
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", configPath, err)
	}

	if err := config.DefaultConfig().Save(configPath); err != nil {
		console.PrintError("Failed to create configuration file", err)
		return err
	}

	console.PrintSuccess("Configuration file created: " + configPath)
	return nil
}

func runConfigShow(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.Load(opts.configFile, commandFlags(cmd, opts))
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, opts *rootOptions) error {
	console := ui.NewConsole(cmd.OutOrStdout(), opts.quiet)

	cfg, err := config.Load(opts.configFile, nil)
	if err != nil {
		console.PrintError("Configuration is invalid", err)
		return err
	}

	console.PrintSuccess("Configuration is valid")
	console.PrintInfo("Workers", fmt.Sprint(cfg.Download.Workers))
	console.PrintInfo("Retry", fmt.Sprint(cfg.Download.Retry))
	console.PrintInfo("Request timeout", cfg.Download.RequestTimeout.String())
	if cfg.Output.BaseDirectory != "" {
		console.PrintInfo("Output", cfg.Output.BaseDirectory)
	} else {
		console.PrintInfo("Output", "(derived from url)")
	}
	console.PrintInfo("Log level", cfg.Logging.Level)
	return nil
}
