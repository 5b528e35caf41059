package compiler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/pathstr/compiler/gen"
)

// writeModule creates a module in a temporary directory.
func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files["go.mod"] = "module example.com/site\n\ngo 1.22\n"
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

const pagesSource = `package pages

// Page is a page of the site.
//
//pathstr:derive
//pathstr:path prefix=pages suffix=.html trimprefix=Page
//casing:serialize_all kebab-case
type Page int

const (
	PageHome Page = iota
	PageAboutUs
)
`

func TestGenerate(t *testing.T) {
	dir := writeModule(t, map[string]string{"pages/pages.go": pagesSource})
	output := filepath.Join(dir, "pages", gen.DefaultOutput)
	ctx := context.Background()

	metrics, err := Generate(ctx, gen.MustNewConfig(gen.WithDir(dir)), "./...")
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.FilesWritten)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	code := string(content)
	assert.True(t, gen.IsGenerated(content))
	assert.Contains(t, code, "package pages")
	assert.Contains(t, code, `return "pages/home.html"`)
	assert.Contains(t, code, `return "pages/about-us.html"`)
	assert.Contains(t, code, `return "pages/Page(" + strconv.FormatInt(int64(p), 10) + ").html"`)

	t.Run("check passes on fresh output", func(t *testing.T) {
		metrics, err := Generate(ctx, gen.MustNewConfig(gen.WithDir(dir), gen.WithCheck(true)), "./...")
		require.NoError(t, err)
		assert.Equal(t, 1, metrics.FilesUnchanged)
	})

	t.Run("regeneration is idempotent", func(t *testing.T) {
		metrics, err := Generate(ctx, gen.MustNewConfig(gen.WithDir(dir)), "./...")
		require.NoError(t, err)
		assert.Equal(t, 0, metrics.FilesWritten)

		again, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, content, again)
	})

	t.Run("check reports stale output", func(t *testing.T) {
		updated := pagesSource + "\nconst PageContact Page = 2\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "pages", "pages.go"), []byte(updated), 0o644))

		_, err := Generate(ctx, gen.MustNewConfig(gen.WithDir(dir), gen.WithCheck(true)), "./...")
		require.Error(t, err)
		var stale *gen.StaleError
		require.True(t, errors.As(err, &stale))
		assert.Contains(t, stale.Diff, `pages/contact.html`)

		_, err = Generate(ctx, gen.MustNewConfig(gen.WithDir(dir)), "./...")
		require.NoError(t, err)
		content, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Contains(t, string(content), "case PageContact:")
	})

	t.Run("removed derive deletes output", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "pages", "pages.go"), []byte("package pages\n\ntype Page int\n"), 0o644))

		metrics, err := Generate(ctx, gen.MustNewConfig(gen.WithDir(dir)), "./...")
		require.NoError(t, err)
		assert.Equal(t, 1, metrics.FilesRemoved)
		assert.NoFileExists(t, output)
	})
}

func TestGenerateNothingWrittenOnError(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"pages/pages.go": pagesSource,
		"shapes/shapes.go": `package shapes

//pathstr:derive
//pathstr:path prefix=shapes
type Point struct{ X, Y int }
`,
	})

	_, err := Generate(context.Background(), gen.MustNewConfig(gen.WithDir(dir)), "./...")
	require.Error(t, err)
	assert.True(t, gen.IsShapeError(err))
	assert.Contains(t, err.Error(), "example.com/site/shapes")
	assert.NoFileExists(t, filepath.Join(dir, "pages", gen.DefaultOutput))
}

func TestGenerateHooks(t *testing.T) {
	dir := writeModule(t, map[string]string{"pages/pages.go": pagesSource})
	var seen []string
	hook := func(next gen.Generator) gen.Generator {
		return gen.GenerateFunc(func(ctx context.Context, pkgs []*gen.Package) error {
			for _, p := range pkgs {
				for _, typ := range p.Types {
					seen = append(seen, typ.Name)
				}
			}
			return next.Generate(ctx, pkgs)
		})
	}

	_, err := Generate(context.Background(), gen.MustNewConfig(gen.WithDir(dir), gen.WithHooks(hook)), "./...")
	require.NoError(t, err)
	assert.Equal(t, []string{"Page"}, seen)
	assert.FileExists(t, filepath.Join(dir, "pages", gen.DefaultOutput))
}

func TestBuild(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"pages/pages.go": pagesSource,
		"pages/marker.go": `package pages

//pathstr:path prefix=assets
type Asset int

const Logo Asset = 0
`,
	})

	pkgs, err := Build(context.Background(), gen.MustNewConfig(gen.WithDir(dir)), "./pages")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	require.Len(t, pkgs[0].Types, 1)
	assert.Equal(t, []string{"pages/home.html", "pages/about-us.html"}, pkgs[0].Types[0].Paths())
	assert.Equal(t, []string{"Asset"}, pkgs[0].Ignored)
	assert.NoFileExists(t, filepath.Join(dir, "pages", gen.DefaultOutput))
}
