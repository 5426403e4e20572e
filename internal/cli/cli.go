// Package cli implements the command-line conversion workflow: reading
// documents from files, directories, or standard input, applying the quote
// conversion, and writing or reporting results. The MCP server path does not
// go through this package.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/sammcj/mdquotes/internal/config"
	"github.com/sammcj/mdquotes/internal/converter"
	"github.com/sirupsen/logrus"
)

// stdinName is the display name used for standard input in verdicts and logs.
const stdinName = "<stdin>"

// ErrNeedsConversion signals that check mode found at least one input whose
// quotes are not yet in the requested style. It maps to exit status 1 without
// an extra error message - the per-file verdicts have already been printed.
var ErrNeedsConversion = errors.New("input needs conversion")

// Options control a conversion run.
type Options struct {
	Direction converter.Direction
	InPlace   bool
	Check     bool
}

// Runner executes conversions against files, directories, and standard input.
type Runner struct {
	logger *logrus.Logger
	cfg    *config.Config
	stdin  io.Reader
	stdout io.Writer
}

// NewRunner creates a Runner using the given logger, config, and streams.
func NewRunner(logger *logrus.Logger, cfg *config.Config, stdin io.Reader, stdout io.Writer) *Runner {
	return &Runner{logger: logger, cfg: cfg, stdin: stdin, stdout: stdout}
}

// Run converts every given path. A path of "-" or "/dev/stdin" reads standard
// input; directory paths are walked for Markdown files per the config.
// Returns ErrNeedsConversion when check mode found work to do.
func (r *Runner) Run(paths []string, opts Options) error {
	files, useStdin, err := r.ExpandPaths(paths)
	if err != nil {
		return err
	}

	if useStdin && opts.InPlace {
		return fmt.Errorf("cannot use --inplace with stdin")
	}

	needsConversion := false

	if useStdin {
		changed, err := r.processStdin(opts)
		if err != nil {
			return err
		}
		needsConversion = needsConversion || changed
	}

	for _, file := range files {
		changed, err := r.ProcessFile(file, opts)
		if err != nil {
			return err
		}
		needsConversion = needsConversion || changed
	}

	if opts.Check && needsConversion {
		return ErrNeedsConversion
	}
	return nil
}

// ExpandPaths resolves the argument list into concrete files plus a flag for
// standard input. Directories are walked recursively for files matching the
// configured Markdown extensions, skipping excluded paths.
func (r *Runner) ExpandPaths(paths []string) (files []string, useStdin bool, err error) {
	if len(paths) == 0 {
		return nil, false, fmt.Errorf("no input specified (pass a file, a directory, or '-' for stdin)")
	}

	for _, p := range paths {
		if isStdinPath(p) {
			useStdin = true
			continue
		}

		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, false, fmt.Errorf("file not found: %s", p)
			}
			return nil, false, fmt.Errorf("failed to stat %s: %w", p, err)
		}

		if info.IsDir() {
			walked, err := r.collectMarkdownFiles(p)
			if err != nil {
				return nil, false, err
			}
			files = append(files, walked...)
			continue
		}

		files = append(files, p)
	}

	return files, useStdin, nil
}

// collectMarkdownFiles walks root and returns Markdown files in sorted order.
func (r *Runner) collectMarkdownFiles(root string) ([]string, error) {
	var files []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				r.logger.WithError(err).WithField("path", path).Debug("Skipping path due to permission error")
				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		if info.IsDir() {
			if rel != "." && r.cfg.Excluded(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !r.cfg.MatchesExtension(path) || r.cfg.Excluded(rel) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// processStdin converts standard input and writes the result (or a check
// verdict) to stdout.
func (r *Runner) processStdin(opts Options) (changed bool, err error) {
	data, err := io.ReadAll(r.stdin)
	if err != nil {
		return false, fmt.Errorf("failed to read stdin: %w", err)
	}

	original := string(data)
	converted := converter.Convert(original, opts.Direction)
	changed = original != converted

	if opts.Check {
		r.printVerdict(stdinName, changed)
		return changed, nil
	}

	fmt.Fprintln(r.stdout, converted)
	return changed, nil
}

// ProcessFile converts one file and writes the result according to the
// options: stdout by default, back to the file with InPlace, or a verdict
// line with Check. Returns whether the content differed.
func (r *Runner) ProcessFile(path string, opts Options) (changed bool, err error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, fmt.Errorf("file not found: %s", path)
		}
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	original := string(data)
	converted := converter.Convert(original, opts.Direction)
	changed = original != converted

	switch {
	case opts.Check:
		r.printVerdict(path, changed)

	case opts.InPlace:
		if !changed {
			r.logger.WithField("file", path).Debug("No changes needed")
			break
		}
		if err := os.WriteFile(path, []byte(converted), info.Mode().Perm()); err != nil {
			return changed, fmt.Errorf("failed to write file %s: %w", path, err)
		}
		fmt.Fprintf(r.stdout, "Converted: %s\n", path)
		r.logger.WithFields(logrus.Fields{
			"file":      path,
			"direction": opts.Direction,
		}).Info("File converted in place")

	default:
		fmt.Fprintln(r.stdout, converted)
	}

	return changed, nil
}

// printVerdict prints the one-line check-mode verdict for a single input.
func (r *Runner) printVerdict(name string, needsConversion bool) {
	if needsConversion {
		fmt.Fprintf(r.stdout, "%s: %s\n", name, color.YellowString("needs conversion"))
		return
	}
	fmt.Fprintf(r.stdout, "%s: %s\n", name, color.GreenString("ok"))
}

// isStdinPath reports whether the argument names standard input.
func isStdinPath(p string) bool {
	return p == "-" || p == "/dev/stdin"
}
