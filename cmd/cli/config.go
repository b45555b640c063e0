// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"fmt"

	"query-batch/internal/config"
	"query-batch/internal/logger"

	"github.com/spf13/cobra"
)

// configFilePath returns the file the config commands read and write.
func configFilePath(opts *options) (string, error) {
	if opts.configPath != "" {
		return config.ResolvePath(opts.configPath)
	}
	return config.DefaultConfigPath()
}

// newConfigCmd is the parent command for all configuration-related subcommands
func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage query-batch configuration",
		Long: `Provides subcommands to inspect and change the defaults stored in the config file.
The API key is never stored; set API_KEY in the environment or in a .env file.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective settings",
		Long:  `Shows the settings after the config file, .env and environment have been applied.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, key := range config.Keys {
				value, err := opts.cfg.Get(key)
				if err != nil {
					return err
				}
				if value == "" {
					fmt.Fprintf(out, "%-16s %s\n", key, dimColor.Sprint("(unset)"))
					continue
				}
				fmt.Fprintf(out, "%-16s %s\n", key, identifierColor.Sprint(value))
			}
			key := dimColor.Sprint("(unset)")
			if opts.cfg.APIKey != "" {
				key = identifierColor.Sprint("(set)")
			}
			fmt.Fprintf(out, "%-16s %s\n", "api_key", key)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Persist a setting in the config file",
		Long: fmt.Sprintf(`Stores a default in the config file. Valid keys: %v.
priority_names takes a comma-separated list. An empty value clears the key.`, config.Keys),
		Example: `  qb config set api_url https://api.example.com/v1/chat-messages
  qb config set min_chars 300
  qb config set priority_names toc_html.txt,index.txt`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.Keys, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath(opts)
			if err != nil {
				return err
			}
			cfg, err := config.LoadFile(path)
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.SaveFile(path, cfg); err != nil {
				return err
			}
			logger.Info("Config updated", "key", args[0], "file", path)
			successColor.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", args[0], path)
			return nil
		},
	})

	return cmd
}
