// Package config reads the YAML configuration file of the pathstr tool.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/pathstr/compiler/gen"
	"github.com/syssam/pathstr/internal/logger"
)

// File is the content of a configuration file:
//
//	output: pathstr_gen.go
//	tags: [integration]
//	transform: snake_case
//	types: [Page]
//	header: ""
//	workers: 4
//	log:
//	  level: info
//	  json: false
type File struct {
	Output    string   `yaml:"output"`
	Tags      []string `yaml:"tags"`
	Transform string   `yaml:"transform"`
	Types     []string `yaml:"types"`
	Header    string   `yaml:"header"`
	Workers   int      `yaml:"workers"`
	Log       Log      `yaml:"log"`

	// Path is the file the configuration was read from.
	Path string `yaml:"-"`
}

// Log configures logging.
type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Load reads the configuration file at path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Decode reads a configuration from r. Unknown keys are rejected and
// an empty document is an empty configuration.
func Decode(r io.Reader) (*File, error) {
	var cfg File
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}
	return &cfg, nil
}

// Options returns the generator options of the values that are set.
func (f *File) Options() []gen.Option {
	var opts []gen.Option
	if f.Output != "" {
		opts = append(opts, gen.WithOutput(f.Output))
	}
	if len(f.Tags) > 0 {
		opts = append(opts, gen.WithTags(f.Tags...))
	}
	if f.Transform != "" {
		opts = append(opts, gen.WithTransform(f.Transform))
	}
	if len(f.Types) > 0 {
		opts = append(opts, gen.WithTypes(f.Types...))
	}
	if f.Header != "" {
		opts = append(opts, gen.WithHeader(f.Header))
	}
	if f.Workers != 0 {
		opts = append(opts, gen.WithWorkers(f.Workers))
	}
	return opts
}

// Logger returns the logger configuration.
func (f *File) Logger() *logger.Config {
	cfg := logger.DefaultConfig()
	if f.Log.Level != "" {
		cfg.Level = f.Log.Level
	}
	cfg.JSON = f.Log.JSON
	return cfg
}
