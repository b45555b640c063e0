// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"query-batch/internal/config"
	"query-batch/internal/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	errorColor      = color.New(color.FgRed)
	successColor    = color.New(color.FgGreen)
	identifierColor = color.New(color.FgBlue)
	dimColor        = color.New(color.Faint)
)

// options holds the flag values of one invocation.
type options struct {
	configPath     string
	outputSuffix   string
	combinedOutput string
	perFile        bool
	truncate       bool
	minChars       int
	user           string
	verbose        bool

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "qb <path>",
		Short: "Send text files to an AI chat endpoint and save the answers",
		Long: `Sends a .txt file, or every .txt file in a directory, to the chat endpoint
named by API_URL (authenticated with API_KEY) and stores each answer.

For a directory, files starting with "toc_" (and toc_html.txt) go first and the
rest follow in name order. Answers are appended to
<dir>/<dirname>_combined_processed<suffix>.txt unless --combined-output names
another file, or --per-file (or an empty --combined-output) asks for one
<dirname>_<name>_processed<suffix>.txt per input.

Settings are read from ~/.config/query-batch/config.yaml, a .env file in the
working directory, and the environment, in increasing priority.`,
		Example: `  qb chapter1.txt
  qb ./book -o _v2
  qb ./book --per-file --min-chars 500
  qb ./book -c all-answers.txt --truncate`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return []string{"txt"}, cobra.ShellCompDirectiveFilterFileExt
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.InitLogger(opts.verbose)
			path, err := configFilePath(opts)
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			opts.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("combined-output") && opts.combinedOutput == "" {
				opts.perFile = true
			}
			if cmd.Flags().Changed("min-chars") {
				opts.cfg.MinChars = opts.minChars
			}
			if cmd.Flags().Changed("user") {
				opts.cfg.User = opts.user
			}
			return runPath(cmd.Context(), cmd.OutOrStdout(), opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.outputSuffix, "output-suffix", "o", "", "suffix inserted before .txt in output file names")
	flags.StringVarP(&opts.combinedOutput, "combined-output", "c", "", "combined output file path (empty string selects per-file output)")
	flags.BoolVar(&opts.perFile, "per-file", false, "write one output file per input instead of a combined file")
	flags.BoolVar(&opts.truncate, "truncate", false, "empty the combined output file before appending")
	flags.IntVar(&opts.minChars, "min-chars", config.DefaultMinChars, "files with fewer characters are skipped")
	flags.StringVarP(&opts.user, "user", "u", config.DefaultUser, "user identifier sent with each query")

	persistent := cmd.PersistentFlags()
	persistent.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/query-batch/config.yaml)")
	persistent.BoolVarP(&opts.verbose, "verbose", "v", false, "mirror logs to stderr")

	cmd.AddCommand(newConfigCmd(opts))
	return cmd
}

// RunCLI executes the root command and exits non-zero on failure.
func RunCLI() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Error("Command failed", "error", err)
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
