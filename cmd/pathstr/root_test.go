package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/pathstr/compiler/gen"
)

const routesSource = `package routes

//pathstr:derive
//pathstr:path prefix=api
type Route int

const (
	RouteUsers Route = iota
	RouteOrderItems
)
`

func writeModule(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/app\n\ngo 1.22\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "routes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "routes", "routes.go"), []byte(routesSource), 0o644))
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRoot(t *testing.T) {
	dir := writeModule(t)

	t.Run("generate", func(t *testing.T) {
		_, _, err := execute(t, "-C", dir, "--transform", "snake_case", "./...")
		require.NoError(t, err)

		content, err := os.ReadFile(filepath.Join(dir, "routes", gen.DefaultOutput))
		require.NoError(t, err)
		assert.Contains(t, string(content), `return "api/route_users"`)
		assert.Contains(t, string(content), `return "api/route_order_items"`)
	})

	t.Run("check up to date", func(t *testing.T) {
		_, _, err := execute(t, "-C", dir, "--transform", "snake_case", "--check", "./...")
		assert.NoError(t, err)
	})

	t.Run("check prints diff", func(t *testing.T) {
		stdout, _, err := execute(t, "-C", dir, "--check", "./...")
		require.Error(t, err)
		assert.True(t, gen.IsStaleError(err))
		assert.Contains(t, stdout, `-		return "api/route_users"`)
		assert.Contains(t, stdout, `+		return "api/RouteUsers"`)
	})

	t.Run("output flag", func(t *testing.T) {
		_, _, err := execute(t, "-C", dir, "-o", "routes_path.go", "./routes")
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "routes", "routes_path.go"))
		// Two generated files would both declare Route.Path.
		require.NoError(t, os.Remove(filepath.Join(dir, "routes", "routes_path.go")))
	})

	t.Run("config file", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(dir, "routes", gen.DefaultOutput)))
		cfg := filepath.Join(t.TempDir(), "pathstr.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("output: from_config.go\ntransform: kebab-case\nlog:\n  level: debug\n"), 0o644))

		_, stderr, err := execute(t, "-C", dir, "--config", cfg, "./...")
		require.NoError(t, err)
		content, err := os.ReadFile(filepath.Join(dir, "routes", "from_config.go"))
		require.NoError(t, err)
		assert.Contains(t, string(content), `return "api/route-order-items"`)
		assert.Contains(t, stderr, "generation done")

		// Flags win over the file.
		_, _, err = execute(t, "-C", dir, "--config", cfg, "--transform", "UPPERCASE", "./...")
		require.NoError(t, err)
		content, err = os.ReadFile(filepath.Join(dir, "routes", "from_config.go"))
		require.NoError(t, err)
		assert.Contains(t, string(content), `return "api/ROUTEUSERS"`)
	})

	t.Run("invalid flag values", func(t *testing.T) {
		_, _, err := execute(t, "-C", dir, "--transform", "nope", "./...")
		assert.True(t, gen.IsConfigError(err))

		_, _, err = execute(t, "-C", dir, "--log-level", "loud", "./...")
		assert.Error(t, err)

		_, _, err = execute(t, "-C", dir, "--check", "--watch", "./...")
		assert.Error(t, err)
	})
}

func TestRootErrors(t *testing.T) {
	dir := writeModule(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "routes", "routes.go"), []byte(`package routes

//pathstr:derive
type Route int

const RouteUsers Route = 0
`), 0o644))

	_, _, err := execute(t, "-C", dir, "./...")
	require.Error(t, err)
	assert.True(t, gen.IsConfigError(err))
	assert.NoFileExists(t, filepath.Join(dir, "routes", gen.DefaultOutput))
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "pathstr version dev")
}
