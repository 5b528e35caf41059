package gen

import (
	"errors"
	"runtime"
	"slices"
	"strings"

	"github.com/syssam/pathstr/casing"
)

// DefaultOutput is the name of the generated file in each package.
const DefaultOutput = "pathstr_gen.go"

// Config holds the global configuration of a generation run.
type Config struct {
	// Dir is the working directory package patterns are resolved from.
	Dir string
	// Output is the base name of the generated file in each package directory.
	Output string
	// Header is an optional comment line placed after the generated-code line.
	Header string
	// Types restricts generation to the named types. Empty means all.
	Types []string
	// Tags are build tags used when loading packages.
	Tags []string
	// Transform is the case style used for types that have no
	// //casing:serialize_all directive. Empty means no conversion.
	Transform string
	// Casing resolves case style names. Defaults to casing.Default().
	Casing *casing.Registry
	// Workers bounds the number of packages written in parallel.
	Workers int
	// Check reports stale files instead of writing them.
	Check bool
	// Hooks wrap the writer of the generated files.
	Hooks []Hook
}

// Option configures code generation.
type Option func(*Config) error

// WithDir sets the working directory.
func WithDir(dir string) Option {
	return func(c *Config) error {
		c.Dir = dir
		return nil
	}
}

// WithOutput sets the generated file name.
// The name is a base name; the file is always written next to the package files.
func WithOutput(name string) Option {
	return func(c *Config) error {
		switch {
		case name == "":
			return NewConfigError("Output", nil, "output file name cannot be empty")
		case strings.ContainsAny(name, `/\`):
			return NewConfigError("Output", name, "output must be a file name, not a path")
		case !strings.HasSuffix(name, ".go"):
			return NewConfigError("Output", name, "output file must have the .go extension")
		case strings.HasSuffix(name, "_test.go"):
			return NewConfigError("Output", name, "output file cannot be a test file")
		}
		c.Output = name
		return nil
	}
}

// WithHeader sets an extra header comment.
// The header is added after the generated-code line of each file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		if strings.Contains(header, "\n") {
			return NewConfigError("Header", header, "header must be a single line")
		}
		c.Header = header
		return nil
	}
}

// WithTypes restricts generation to the given type names.
func WithTypes(names ...string) Option {
	return func(c *Config) error {
		for _, n := range names {
			if n = strings.TrimSpace(n); n != "" && !slices.Contains(c.Types, n) {
				c.Types = append(c.Types, n)
			}
		}
		return nil
	}
}

// WithTags sets build tags used when loading packages.
func WithTags(tags ...string) Option {
	return func(c *Config) error {
		for _, t := range tags {
			if t = strings.TrimSpace(t); t != "" {
				c.Tags = append(c.Tags, t)
			}
		}
		return nil
	}
}

// WithCasing sets the registry used to resolve case styles.
func WithCasing(r *casing.Registry) Option {
	return func(c *Config) error {
		if r == nil {
			return NewConfigError("Casing", nil, "registry cannot be nil")
		}
		c.Casing = r
		return nil
	}
}

// WithTransform sets the default case style.
// It is validated against the registry when the config is built.
func WithTransform(style string) Option {
	return func(c *Config) error {
		c.Transform = style
		return nil
	}
}

// WithWorkers sets the number of packages written in parallel.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Workers", n, "workers cannot be negative")
		}
		c.Workers = n
		return nil
	}
}

// WithCheck switches to check mode: files are compared, not written.
func WithCheck(check bool) Option {
	return func(c *Config) error {
		c.Check = check
		return nil
	}
}

// WithHooks adds generation hooks.
// Hooks are called before/after the files are written.
func WithHooks(hooks ...Hook) Option {
	return func(c *Config) error {
		c.Hooks = append(c.Hooks, hooks...)
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options and defaults.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.ApplyAll(opts...); err != nil {
		return nil, err
	}
	if err := c.defaults(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Config) defaults() error {
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Casing == nil {
		c.Casing = casing.Default()
	}
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if _, err := c.Casing.Lookup(c.Transform); err != nil {
		return NewConfigError("Transform", c.Transform, err.Error())
	}
	return nil
}

// selected reports whether the type is selected by Config.Types.
func (c *Config) selected(name string) bool {
	return len(c.Types) == 0 || slices.Contains(c.Types, name)
}
