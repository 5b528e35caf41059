package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/syssam/pathstr/compiler"
	"github.com/syssam/pathstr/compiler/gen"
	"github.com/syssam/pathstr/compiler/load"
	"github.com/syssam/pathstr/internal/config"
	"github.com/syssam/pathstr/internal/logger"
	"github.com/syssam/pathstr/internal/watch"
)

type options struct {
	dir       string
	types     []string
	output    string
	tags      []string
	transform string
	config    string
	check     bool
	watch     bool
	logLevel  string
	logJSON   bool
}

func rootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "pathstr [flags] [packages]",
		Short: "Generate Path methods for annotated Go enums",
		Long: `pathstr generates a Path method for every enum type whose doc comment
carries //pathstr:derive. The path of a constant is the prefix of the
//pathstr:path directive, a "/", the constant name converted to the style
of //casing:serialize_all, and the suffix:

	//pathstr:derive
	//pathstr:path prefix=pages suffix=.html
	//casing:serialize_all snake_case
	type Page int

Packages default to the current directory.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &opts, args)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.dir, "dir", "C", "", "run as if started in this directory")
	f.StringSliceVarP(&opts.types, "type", "t", nil, "comma separated type names to generate")
	f.StringVarP(&opts.output, "output", "o", gen.DefaultOutput, "output file name inside each package directory")
	f.StringSliceVar(&opts.tags, "tags", nil, "comma separated build tags")
	f.StringVar(&opts.transform, "transform", "", "default case style of types without //casing:serialize_all")
	f.StringVar(&opts.config, "config", "", "YAML configuration file")
	f.BoolVar(&opts.check, "check", false, "report out of date files instead of writing them")
	f.BoolVar(&opts.watch, "watch", false, "regenerate when Go files change")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	f.BoolVar(&opts.logJSON, "log-json", false, "log in JSON")
	cmd.MarkFlagsMutuallyExclusive("check", "watch")
	return cmd
}

func run(cmd *cobra.Command, opts *options, patterns []string) error {
	file := &config.File{}
	if opts.config != "" {
		var err error
		if file, err = config.Load(opts.config); err != nil {
			return err
		}
	}
	// Flags override the configuration file.
	flags := cmd.Flags()
	if flags.Changed("type") {
		file.Types = opts.types
	}
	if flags.Changed("output") {
		file.Output = opts.output
	}
	if flags.Changed("tags") {
		file.Tags = opts.tags
	}
	if flags.Changed("transform") {
		file.Transform = opts.transform
	}
	if flags.Changed("log-level") {
		file.Log.Level = opts.logLevel
	}
	if flags.Changed("log-json") {
		file.Log.JSON = opts.logJSON
	}

	lcfg := file.Logger()
	lcfg.Output = cmd.ErrOrStderr()
	log, err := logger.New(lcfg)
	if err != nil {
		return err
	}
	ctx := logger.WithContext(cmd.Context(), log)

	cfg, err := gen.NewConfig(append(file.Options(), gen.WithDir(opts.dir), gen.WithCheck(opts.check))...)
	if err != nil {
		return err
	}

	generate := func(ctx context.Context) error {
		_, err := compiler.Generate(ctx, cfg, patterns...)
		if err != nil {
			printDiffs(cmd.OutOrStdout(), err)
		}
		return err
	}
	if !opts.watch {
		return generate(ctx)
	}

	if err := generate(ctx); err != nil {
		log.Error("generation failed", "error", err)
	}
	dirs, err := load.Dirs(ctx, &load.Config{Dir: cfg.Dir, Tags: cfg.Tags}, patterns...)
	if err != nil {
		return err
	}
	w, err := watch.New(ctx, watch.Options{Dirs: dirs, Output: cfg.Output})
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Run(ctx, generate)
}

// printDiffs prints the diff of every stale file found in err.
func printDiffs(w io.Writer, err error) {
	for _, stale := range staleErrors(err) {
		fmt.Fprint(w, stale.Diff)
	}
}

func staleErrors(err error) []*gen.StaleError {
	var stale *gen.StaleError
	switch e := err.(type) {
	case nil:
		return nil
	case interface{ Unwrap() []error }:
		var all []*gen.StaleError
		for _, err := range e.Unwrap() {
			all = append(all, staleErrors(err)...)
		}
		return all
	default:
		if errors.As(err, &stale) {
			return []*gen.StaleError{stale}
		}
		return nil
	}
}
