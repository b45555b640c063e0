// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// PriorityRule selects files that are processed ahead of the rest, such as a
// table of contents.
type PriorityRule struct {
	Prefix string
	Names  []string
}

// Matches reports whether the base name of path falls under the rule.
func (r PriorityRule) Matches(path string) bool {
	base := filepath.Base(path)
	if r.Prefix != "" && strings.HasPrefix(base, r.Prefix) {
		return true
	}
	return slices.Contains(r.Names, base)
}

// SortFiles returns paths with priority files first and everything else after,
// each group ordered by base name. The input slice is not modified.
func SortFiles(paths []string, rule PriorityRule) []string {
	var priority, rest []string
	for _, p := range paths {
		if rule.Matches(p) {
			priority = append(priority, p)
		} else {
			rest = append(rest, p)
		}
	}
	byBase := func(a, b string) int {
		if c := strings.Compare(filepath.Base(a), filepath.Base(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	}
	slices.SortStableFunc(priority, byBase)
	slices.SortStableFunc(rest, byBase)
	return append(priority, rest...)
}

// ListTextFiles returns the regular *.txt files directly inside dir.
func ListTextFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !IsTextFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

// IsTextFile reports whether name has the .txt extension.
func IsTextFile(name string) bool {
	return strings.HasSuffix(name, ".txt")
}
