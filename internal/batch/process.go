// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"query-batch/internal/logger"
)

// Processor runs every text file of a directory through a Dispatcher.
type Processor struct {
	*Dispatcher

	Priority PriorityRule

	// Suffix is inserted before ".txt" in every output name.
	Suffix string

	// CombinedOutput is the file all answers are appended to. Empty means
	// CombinedName(dir, Suffix) unless PerFile is set.
	CombinedOutput string

	// PerFile writes one output per input instead of a combined file.
	PerFile bool

	// Truncate empties the combined output before the first answer.
	Truncate bool
}

// Summary counts what a directory run did.
type Summary struct {
	Files   int
	Skipped int
	Written []string
}

func dirName(dir string) string {
	return filepath.Base(filepath.Clean(dir))
}

// CombinedName is the default combined output path for dir.
func CombinedName(dir, suffix string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_combined_processed%s.txt", dirName(dir), suffix))
}

// OutputName is the per-file output path for file inside dir.
func OutputName(dir, file, suffix string) string {
	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return filepath.Join(dir, fmt.Sprintf("%s_%s_processed%s.txt", dirName(dir), name, suffix))
}

// ProcessDirectory dispatches the ordered text files of dir and stores the
// answers. The first failure stops the run; answers already written stay.
func (p *Processor) ProcessDirectory(ctx context.Context, dir string) (Summary, error) {
	var summary Summary

	files, err := ListTextFiles(dir)
	if err != nil {
		return summary, err
	}

	combined := ""
	if !p.PerFile {
		combined = p.CombinedOutput
		if combined == "" {
			combined = CombinedName(dir, p.Suffix)
		}
		files = excludePath(files, combined)
	}

	if len(files) == 0 {
		fmt.Fprintf(p.out(), "No txt files found in directory %s\n\n", dir)
		logger.Info("No text files found", "dir", dir)
		return summary, nil
	}

	files = SortFiles(files, p.Priority)
	logger.Info("Processing directory", "dir", dir, "files", len(files), "combined", combined)

	if combined != "" && p.Truncate {
		if err := os.WriteFile(combined, nil, 0644); err != nil {
			return summary, fmt.Errorf("failed to truncate %s: %w", combined, err)
		}
	}

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		infoColor.Fprintf(p.out(), "[%d/%d] ", i+1, len(files))
		fmt.Fprintf(p.out(), "Processing file: %s\n\n", file)

		resp, skipped, err := p.dispatch(ctx, file)
		if err != nil {
			return summary, err
		}
		summary.Files++
		if skipped {
			summary.Skipped++
		}
		answer := resp.Answer()

		if combined != "" {
			if err := AppendCombined(combined, answer); err != nil {
				return summary, err
			}
			doneColor.Fprintf(p.out(), "Result appended to: %s\n\n", combined)
			if len(summary.Written) == 0 {
				summary.Written = append(summary.Written, combined)
			}
			continue
		}

		out := OutputName(dir, file, p.Suffix)
		if err := WriteResult(out, answer); err != nil {
			return summary, err
		}
		doneColor.Fprintf(p.out(), "Result saved to: %s\n\n", out)
		summary.Written = append(summary.Written, out)
	}

	logger.Info("Directory processed", "dir", dir, "files", summary.Files, "skipped", summary.Skipped)
	return summary, nil
}

// WriteResult replaces path with content.
func WriteResult(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// AppendCombined appends content and the separator to path, creating it if needed.
func AppendCombined(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if _, err := f.WriteString(content + Separator); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// excludePath drops target from files when both resolve to the same location.
func excludePath(files []string, target string) []string {
	abs, err := filepath.Abs(target)
	if err != nil {
		return files
	}
	kept := files[:0:0]
	for _, f := range files {
		if fa, err := filepath.Abs(f); err == nil && fa == abs {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}
