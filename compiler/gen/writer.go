package gen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/syssam/pathstr"
)

// Writer writes the generated files of packages in parallel.
type Writer struct {
	cfg *Config

	// Metrics for reporting
	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks what a run did.
type WriterMetrics struct {
	FilesWritten   int
	FilesUnchanged int
	FilesRemoved   int
	FilesStale     int
	TotalBytes     int64
}

// NewWriter creates a new writer.
func NewWriter(c *Config) *Writer {
	return &Writer{cfg: c, metrics: &WriterMetrics{}}
}

// Metrics returns the writer metrics.
func (w *Writer) Metrics() *WriterMetrics {
	return w.metrics
}

// change is the planned update of one generated file.
type change struct {
	path     string
	existing []byte // nil when the file does not exist
	content  []byte // nil removes the file
}

// WriteAll writes the generated files of all packages. Every file is
// rendered and formatted before the first one is written, and files
// already written are restored when a later write fails. In check mode
// nothing is written and the returned error joins one StaleError per
// out of date file.
func (w *Writer) WriteAll(ctx context.Context, pkgs []*Package) error {
	var (
		mu      sync.Mutex
		stale   []error
		changes = make([]*change, len(pkgs))
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(w.cfg.Workers, 1))
	for i, p := range pkgs {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			c, err := w.plan(p)
			if IsStaleError(err) {
				mu.Lock()
				stale = append(stale, err)
				mu.Unlock()
				return nil
			}
			changes[i] = c
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	if err := errors.Join(stale...); err != nil {
		return err
	}
	var done []*change
	for _, c := range changes {
		if c == nil {
			continue
		}
		if err := apply(c); err != nil {
			return errors.Join(err, rollback(done))
		}
		done = append(done, c)
	}
	for _, c := range done {
		w.record(c)
	}
	return nil
}

// Write writes the generated file of a single package. A package
// without derived types has its previously generated file removed,
// unless generation is restricted to selected types.
func (w *Writer) Write(p *Package) error {
	c, err := w.plan(p)
	if err != nil || c == nil {
		return err
	}
	if err := apply(c); err != nil {
		return err
	}
	w.record(c)
	return nil
}

// plan renders the file of a package and compares it with the one on
// disk. It returns nil when there is nothing to do.
func (w *Writer) plan(p *Package) (*change, error) {
	path := filepath.Join(p.Dir, w.cfg.Output)
	existing, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		existing = nil
	case err != nil:
		return nil, NewGenerationError("read", path, "", err)
	}
	owned := existing != nil && IsGenerated(existing)
	if len(p.Types) == 0 {
		// With a type selection, the file may belong to other types.
		if !owned || len(w.cfg.Types) > 0 {
			return nil, nil
		}
		if w.cfg.Check {
			w.update(func(m *WriterMetrics) { m.FilesStale++ })
			return nil, &StaleError{File: path, Diff: Diff(path, existing, nil)}
		}
		return &change{path: path, existing: existing}, nil
	}
	if existing != nil && !owned {
		return nil, NewGenerationError("write", path, "refusing to overwrite a file not generated by pathstr", nil)
	}

	src, err := NewJenniferGenerator(p).Source()
	if err != nil {
		return nil, err
	}
	// Format using goimports, matching what gofmt would produce.
	formatted, err := imports.Process(path, src, nil)
	if err != nil {
		if w.cfg.Check {
			return nil, NewGenerationError("format", path, "", err)
		}
		// Write unformatted file for debugging (errors intentionally ignored as we're already in error state)
		debugPath := path + ".error"
		_ = os.WriteFile(debugPath, src, 0o644)
		return nil, NewGenerationError("format", path, fmt.Sprintf("unformatted written to %s", debugPath), err)
	}

	if bytes.Equal(existing, formatted) {
		w.update(func(m *WriterMetrics) { m.FilesUnchanged++ })
		return nil, nil
	}
	if w.cfg.Check {
		w.update(func(m *WriterMetrics) { m.FilesStale++ })
		return nil, &StaleError{File: path, Diff: Diff(path, existing, formatted)}
	}
	return &change{path: path, existing: existing, content: formatted}, nil
}

// apply writes or removes the file of a change.
func apply(c *change) error {
	if c.content == nil {
		if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return NewGenerationError("remove", c.path, "", err)
		}
		return nil
	}
	if err := os.WriteFile(c.path, c.content, 0o644); err != nil {
		return NewGenerationError("write", c.path, "", err)
	}
	return nil
}

// rollback restores the files of applied changes, latest first.
func rollback(done []*change) error {
	var errs []error
	for i := len(done) - 1; i >= 0; i-- {
		c := done[i]
		var err error
		if c.existing == nil {
			err = os.Remove(c.path)
		} else {
			err = os.WriteFile(c.path, c.existing, 0o644)
		}
		if err != nil {
			errs = append(errs, NewGenerationError("restore", c.path, "", err))
		}
	}
	return errors.Join(errs...)
}

// record counts an applied change.
func (w *Writer) record(c *change) {
	w.update(func(m *WriterMetrics) {
		if c.content == nil {
			m.FilesRemoved++
			return
		}
		m.FilesWritten++
		m.TotalBytes += int64(len(c.content))
	})
}

func (w *Writer) update(f func(*WriterMetrics)) {
	w.mu.Lock()
	f(w.metrics)
	w.mu.Unlock()
}

// IsGenerated reports whether the file content starts with the pathstr header.
func IsGenerated(src []byte) bool {
	return bytes.HasPrefix(src, []byte("// "+pathstr.Header))
}

// Diff returns a unified diff from the current to the expected content.
func Diff(path string, current, expected []byte) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(current)),
		B:        difflib.SplitLines(string(expected)),
		FromFile: path,
		ToFile:   path + " (generated)",
		Context:  3,
	})
	if err != nil {
		return err.Error()
	}
	return diff
}
