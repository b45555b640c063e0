// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"query-batch/internal/batch"
	"query-batch/internal/client"
	"query-batch/internal/logger"

	"github.com/mattn/go-isatty"
)

// runPath dispatches a single file or processes a directory.
func runPath(ctx context.Context, out io.Writer, opts *options, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		logger.Error("Path not usable", "path", path, "error", err)
		return fmt.Errorf("path %s does not exist", path)
	}
	if !info.IsDir() && !batch.IsTextFile(path) {
		return batch.ErrNotText
	}

	dispatcher, err := newDispatcher(out, opts)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return runFile(ctx, out, dispatcher, path)
	}

	p := &batch.Processor{
		Dispatcher:     dispatcher,
		Priority:       batch.PriorityRule{Prefix: opts.cfg.PriorityPrefix, Names: opts.cfg.PriorityNames},
		Suffix:         opts.outputSuffix,
		CombinedOutput: opts.combinedOutput,
		PerFile:        opts.perFile,
		Truncate:       opts.truncate,
	}
	summary, err := p.ProcessDirectory(ctx, path)
	if err != nil {
		return err
	}
	if summary.Files > 0 {
		successColor.Fprintf(out, "Processed %d file(s) in %s (%d skipped)\n", summary.Files, identifierColor.Sprint(path), summary.Skipped)
	}
	return nil
}

// runFile sends one .txt file and prints the raw reply.
func runFile(ctx context.Context, out io.Writer, d *batch.Dispatcher, path string) error {
	resp, err := d.DispatchFile(ctx, path)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func newDispatcher(out io.Writer, opts *options) (*batch.Dispatcher, error) {
	timeout, err := opts.cfg.RequestTimeout()
	if err != nil {
		return nil, err
	}
	c, err := client.New(client.Options{
		URL:     opts.cfg.APIURL,
		APIKey:  opts.cfg.APIKey,
		User:    opts.cfg.User,
		Timeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("Client ready", "url", opts.cfg.APIURL, "user", c.User(), "min_chars", opts.cfg.MinChars)

	return &batch.Dispatcher{
		Querier:  c,
		MinChars: opts.cfg.MinChars,
		Out:      out,
		Spinner:  isTerminal(out),
	}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
