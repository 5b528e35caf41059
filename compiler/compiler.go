// Package compiler provides an API for generating Path methods
// for the annotated enums of Go packages.
package compiler

import (
	"context"
	"errors"
	"fmt"

	"github.com/syssam/pathstr/compiler/gen"
	"github.com/syssam/pathstr/compiler/load"
	"github.com/syssam/pathstr/internal/logger"
)

// Generate loads the packages matching the patterns, validates their
// derived types and writes the generated files. Nothing is written
// unless every package is valid. In check mode the files are compared
// instead, and the error joins a gen.StaleError per out of date file.
//
//	metrics, err := compiler.Generate(ctx, gen.MustNewConfig(), "./...")
func Generate(ctx context.Context, cfg *gen.Config, patterns ...string) (*gen.WriterMetrics, error) {
	if cfg == nil {
		var err error
		if cfg, err = gen.NewConfig(); err != nil {
			return nil, err
		}
	}
	pkgs, err := Build(ctx, cfg, patterns...)
	if err != nil {
		return nil, err
	}
	w := gen.NewWriter(cfg)
	base := gen.GenerateFunc(w.WriteAll)
	err = gen.Chain(base, cfg.Hooks...).Generate(ctx, pkgs)
	m := w.Metrics()
	logger.FromContext(ctx).Info("generation done",
		"packages", len(pkgs),
		"written", m.FilesWritten,
		"unchanged", m.FilesUnchanged,
		"removed", m.FilesRemoved,
		"stale", m.FilesStale,
	)
	return m, err
}

// Build loads the packages matching the patterns and builds their
// derived types without writing anything.
func Build(ctx context.Context, cfg *gen.Config, patterns ...string) ([]*gen.Package, error) {
	log := logger.FromContext(ctx)
	loaded, err := load.Load(ctx, &load.Config{
		Dir:    cfg.Dir,
		Tags:   cfg.Tags,
		Output: cfg.Output,
	}, patterns...)
	if err != nil {
		return nil, err
	}
	var (
		pkgs []*gen.Package
		errs []error
	)
	for _, l := range loaded {
		p, err := gen.NewPackage(cfg, l)
		if err != nil {
			errs = append(errs, fmt.Errorf("package %s: %w", l.Path, err))
			continue
		}
		for _, name := range p.Ignored {
			log.Debug("ignoring directives without //pathstr:derive", "package", p.Path, "type", name)
		}
		for _, t := range p.Types {
			if len(t.Skipped) > 0 {
				log.Debug("constants share a value with an earlier one", "type", t.Name, "skipped", t.Skipped)
			}
		}
		pkgs = append(pkgs, p)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return pkgs, nil
}
