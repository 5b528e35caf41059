package gen

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/pathstr/casing"
)

func TestWithOutput(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		wantErr bool
	}{
		{"go file", "paths_gen.go", false},
		{"empty", "", true},
		{"path", "gen/paths.go", true},
		{"windows path", `gen\paths.go`, true},
		{"not go", "paths.txt", true},
		{"test file", "paths_test.go", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithOutput(tt.output)(c)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.output, c.Output)
			}
		})
	}
}

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		err := WithHeader("Copyright 2024 The Authors.")(c)

		require.NoError(t, err)
		assert.Equal(t, "Copyright 2024 The Authors.", c.Header)
	})

	t.Run("multi-line header is rejected", func(t *testing.T) {
		c := &Config{}
		err := WithHeader("one\ntwo")(c)

		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestWithTypes(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithTypes("Page", " Asset ", "", "Page")(c))

	assert.Equal(t, []string{"Page", "Asset"}, c.Types)
	assert.True(t, c.selected("Page"))
	assert.False(t, c.selected("Other"))
	assert.True(t, (&Config{}).selected("Other"))
}

func TestWithTags(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithTags("linux", " ", "integration ")(c))
	assert.Equal(t, []string{"linux", "integration"}, c.Tags)
}

func TestWithWorkers(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithWorkers(3)(c))
	assert.Equal(t, 3, c.Workers)

	err := WithWorkers(-1)(c)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestWithCasing(t *testing.T) {
	r := casing.NewRegistry()
	c := &Config{}
	require.NoError(t, WithCasing(r)(c))
	assert.Same(t, r, c.Casing)

	assert.Error(t, WithCasing(nil)(c))
}

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := NewConfig()
		require.NoError(t, err)

		assert.Equal(t, DefaultOutput, c.Output)
		assert.Same(t, casing.Default(), c.Casing)
		assert.Equal(t, runtime.GOMAXPROCS(0), c.Workers)
		assert.False(t, c.Check)
	})

	t.Run("options are applied", func(t *testing.T) {
		c, err := NewConfig(
			WithDir("/tmp/project"),
			WithOutput("paths.go"),
			WithTransform("snake_case"),
			WithCheck(true),
		)
		require.NoError(t, err)

		assert.Equal(t, "/tmp/project", c.Dir)
		assert.Equal(t, "paths.go", c.Output)
		assert.Equal(t, "snake_case", c.Transform)
		assert.True(t, c.Check)
	})

	t.Run("unknown transform", func(t *testing.T) {
		_, err := NewConfig(WithTransform("sPoNgEbOb"))
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})

	t.Run("all option errors are joined", func(t *testing.T) {
		_, err := NewConfig(WithOutput(""), WithWorkers(-1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Output")
		assert.Contains(t, err.Error(), "Workers")
	})
}

func TestMustNewConfig(t *testing.T) {
	assert.NotPanics(t, func() { MustNewConfig() })
	assert.Panics(t, func() { MustNewConfig(WithOutput("")) })
}

func TestApply(t *testing.T) {
	c := &Config{}
	err := c.Apply(WithOutput(""), WithWorkers(-1))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Output")
	assert.NotContains(t, err.Error(), "Workers")
}
