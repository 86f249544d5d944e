// Package manifest maintains the flat resource manifests read by the game's
// resource compiler. Manifests are append-only: existing lines are never
// reordered or rewritten and a line is never added twice.
package manifest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"chosenoffset.com/genplaceholders/internal/fileutil"

	"github.com/gofrs/flock"
)

// Conflict is a wanted line whose resource name is already declared by a
// different line in the manifest
type Conflict struct {
	Name     string
	Existing string
	Wanted   string
}

// MergeResult describes the outcome of merging wanted lines into a manifest
type MergeResult struct {
	Lines     []string   // Final manifest content
	Added     []string   // Lines appended by this merge
	Conflicts []Conflict // Reported only; the wanted line is still appended
	Changed   bool       // True when Lines differs from the existing content
}

// Merge appends each wanted line that is not already present. A line is
// present when its trimmed text matches, or when its directive matches an
// existing directive exactly, so a changed or folded comment never declares a
// resource twice. Existing lines are kept verbatim and in order.
func Merge(existing, wanted []string) MergeResult {
	known := make(map[string]bool, len(existing)+len(wanted))
	directives := make(map[string]bool, len(existing)+len(wanted))
	names := make(map[string]string)
	remember := func(trimmed string) Line {
		known[trimmed] = true
		parsed := ParseLine(trimmed)
		if parsed.Directive != "" {
			directives[parsed.Directive] = true
		}
		return parsed
	}

	for _, line := range existing {
		parsed := remember(strings.TrimSpace(line))
		if name := parsed.Name(); name != "" {
			if _, seen := names[name]; !seen {
				names[name] = parsed.Directive
			}
		}
	}

	res := MergeResult{Lines: append([]string(nil), existing...)}
	for _, line := range wanted {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || known[trimmed] {
			continue
		}
		if d := ParseLine(trimmed).Directive; d != "" && directives[d] {
			continue
		}

		parsed := remember(trimmed)
		if name := parsed.Name(); name != "" {
			if prev, seen := names[name]; seen && prev != parsed.Directive {
				res.Conflicts = append(res.Conflicts, Conflict{Name: name, Existing: prev, Wanted: parsed.Directive})
			} else if !seen {
				names[name] = parsed.Directive
			}
		}

		res.Lines = append(res.Lines, line)
		res.Added = append(res.Added, line)
	}
	res.Changed = len(res.Added) > 0
	return res
}

// Read returns the lines of a manifest. A missing file has no lines.
func Read(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return splitLines(data)
}

func splitLines(data []byte) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// Options control Ensure
type Options struct {
	DryRun    bool // Compute the result without touching the file
	ASCIIOnly bool // Fold accents out of comments before merging
}

// Result is the outcome of Ensure for one manifest file
type Result struct {
	Path string
	MergeResult
}

// Ensure merges wanted into the manifest at path and rewrites the file only
// when a line was added. The read-modify-write is serialised across
// processes with an advisory lock on path + ".lock".
func Ensure(path string, wanted []string, opts Options) (Result, error) {
	res := Result{Path: path}

	if opts.ASCIIOnly {
		folded := make([]string, len(wanted))
		for i, line := range wanted {
			folded[i] = ParseLine(line).FoldASCII().String()
		}
		wanted = folded
	}

	if !opts.DryRun {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return res, fmt.Errorf("create manifest directory: %w", err)
		}
		lock := flock.New(path + ".lock")
		if err := lock.Lock(); err != nil {
			return res, fmt.Errorf("lock manifest %s: %w", path, err)
		}
		defer func() { _ = lock.Unlock() }()
	}

	existing, err := Read(path)
	if err != nil {
		return res, err
	}

	res.MergeResult = Merge(existing, wanted)
	if !res.Changed || opts.DryRun {
		return res, nil
	}

	err = fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		_, err := io.WriteString(w, strings.Join(res.Lines, "\n")+"\n")
		return err
	})
	if err != nil {
		return res, fmt.Errorf("write manifest %s: %w", path, err)
	}
	return res, nil
}
