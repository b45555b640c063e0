// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package batch reads query files, sends the ones worth sending and stores
// the answers, either per file or combined per directory.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"query-batch/internal/client"
	"query-batch/internal/logger"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Separator follows every entry written to a combined output and every
// skip notice on the console.
const Separator = "\n\n\n\n\n"

var ErrNotText = errors.New("only .txt files are supported")

var (
	skipColor = color.New(color.FgYellow)
	infoColor = color.New(color.FgCyan)
	doneColor = color.New(color.FgGreen)
)

// Querier answers a single query.
type Querier interface {
	Query(ctx context.Context, query string) (client.Response, error)
}

// Dispatcher reads one file and either skips it or sends it to the Querier.
type Dispatcher struct {
	Querier  Querier
	MinChars int

	// Out receives progress messages; nil means os.Stdout.
	Out io.Writer

	// Spinner animates while a request is in flight.
	Spinner bool
}

func (d *Dispatcher) out() io.Writer {
	if d.Out == nil {
		return os.Stdout
	}
	return d.Out
}

// SkipMessage is the answer recorded for a file below the minimum length.
func SkipMessage(path string, minChars int) string {
	return fmt.Sprintf("File %s has fewer than %d characters, skipped", filepath.Base(path), minChars)
}

// Dispatch reads path and returns the reply. Files shorter than MinChars
// characters produce a placeholder answer without any request.
func (d *Dispatcher) Dispatch(ctx context.Context, path string) (client.Response, error) {
	resp, _, err := d.dispatch(ctx, path)
	return resp, err
}

func (d *Dispatcher) dispatch(ctx context.Context, path string) (client.Response, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	content := string(data)

	if n := utf8.RuneCountInString(content); n < d.MinChars {
		msg := SkipMessage(path, d.MinChars)
		skipColor.Fprint(d.out(), msg+Separator)
		logger.Info("Skipped short file", "file", path, "chars", n, "min_chars", d.MinChars)
		return client.Response{"answer": msg}, true, nil
	}

	if d.Querier == nil {
		return nil, false, fmt.Errorf("no querier configured for %s", path)
	}

	var s *spinner.Spinner
	if d.Spinner {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(d.out()))
		s.Color("cyan")
		s.Suffix = fmt.Sprintf(" Processing file %s", filepath.Base(path))
		s.Start()
	}

	start := time.Now()
	resp, err := d.Querier.Query(ctx, content)
	if s != nil {
		s.Stop()
	}
	if err != nil {
		logger.Error("Query failed", "file", path, "error", err)
		return nil, false, fmt.Errorf("query for %s failed: %w", filepath.Base(path), err)
	}
	logger.Info("Query answered", "file", path, "elapsed", time.Since(start).String())
	return resp, false, nil
}

// DispatchFile validates that path is a .txt file before dispatching it.
func (d *Dispatcher) DispatchFile(ctx context.Context, path string) (client.Response, error) {
	if !IsTextFile(path) {
		return nil, ErrNotText
	}
	return d.Dispatch(ctx, path)
}
