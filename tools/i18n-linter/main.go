// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks that every translation key used in the Go sources
// exists in the primary locale, and that every locale carries the same keys.
//
//	go run ./tools/i18n-linter
package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
)

// keyRe matches i18n.T("key") calls and bare literals shaped like our keys,
// e.g. status notes passed around before translation.
var keyRe = regexp.MustCompile(`i18n\.T\("([^"]+)"|"((?:error|tui|cli)\.[a-z_]+)"`)

// report is the outcome of one lint run.
type report struct {
	Missing  []string            // used in code, absent from the primary locale
	Orphaned []string            // in the primary locale, never used
	Gaps     map[string][]string // locale file -> keys it lacks
}

func (r report) failed() bool {
	return len(r.Missing) > 0 || len(r.Gaps) > 0
}

func main() {
	r, err := lint(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "i18n-linter: %v\n", err)
		os.Exit(2)
	}
	printReport(os.Stdout, r)
	if r.failed() {
		os.Exit(1)
	}
}

func lint(root string) (report, error) {
	used, err := findUsedKeys(root)
	if err != nil {
		return report{}, err
	}
	dir := filepath.Join(root, localesDir)
	primary, err := loadKeys(filepath.Join(dir, primaryLocale))
	if err != nil {
		return report{}, fmt.Errorf("load primary locale: %w", err)
	}

	r := report{Gaps: map[string][]string{}}
	for k := range used {
		if _, ok := primary[k]; !ok {
			r.Missing = append(r.Missing, k)
		}
	}
	for k := range primary {
		if _, ok := used[k]; !ok {
			r.Orphaned = append(r.Orphaned, k)
		}
	}
	sort.Strings(r.Missing)
	sort.Strings(r.Orphaned)

	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return report{}, err
	}
	for _, f := range files {
		if filepath.Base(f) == primaryLocale {
			continue
		}
		keys, err := loadKeys(f)
		if err != nil {
			return report{}, fmt.Errorf("load %s: %w", f, err)
		}
		var gaps []string
		for k := range primary {
			if _, ok := keys[k]; !ok {
				gaps = append(gaps, k)
			}
		}
		if len(gaps) > 0 {
			sort.Strings(gaps)
			r.Gaps[filepath.Base(f)] = gaps
		}
	}
	return r, nil
}

// findUsedKeys scans non-test Go files below root. Vendored reference trees
// (directories starting with "_" or ".") and tools are skipped.
func findUsedKeys(root string) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (name == "tools" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, m := range keyRe.FindAllStringSubmatch(string(content), -1) {
			if m[1] != "" {
				keys[m[1]] = struct{}{}
			} else if m[2] != "" {
				keys[m[2]] = struct{}{}
			}
		}
		return nil
	})
	return keys, err
}

// loadKeys reads a flat locale file.
func loadKeys(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]string
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	keys := make(map[string]struct{}, len(data))
	for k := range data {
		keys[k] = struct{}{}
	}
	return keys, nil
}

func printReport(w io.Writer, r report) {
	for _, k := range r.Missing {
		fmt.Fprintf(w, "missing: %s\n", k)
	}
	files := make([]string, 0, len(r.Gaps))
	for f := range r.Gaps {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		for _, k := range r.Gaps[f] {
			fmt.Fprintf(w, "%s lacks: %s\n", f, k)
		}
	}
	for _, k := range r.Orphaned {
		fmt.Fprintf(w, "orphaned: %s\n", k)
	}
	if !r.failed() {
		fmt.Fprintln(w, "all translation files are consistent")
	}
}
