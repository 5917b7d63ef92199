package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"posfind"}, args...))
	return out.String(), err
}

func findFlag(t *testing.T, cmd *cli.Command, name string) cli.Flag {
	t.Helper()
	for _, flag := range cmd.Flags {
		for _, n := range flag.Names() {
			if n == name {
				return flag
			}
		}
	}
	t.Fatalf("flag %q not found on %s", name, cmd.Name)
	return nil
}

func TestCommandFlags(t *testing.T) {
	app := newApp()
	commands := map[string]*cli.Command{}
	for _, cmd := range app.Commands {
		commands[cmd.Name] = cmd
	}

	t.Run("file is required for import", func(t *testing.T) {
		flag, ok := findFlag(t, commands["import"], "file").(*cli.StringFlag)
		require.True(t, ok)
		assert.True(t, flag.Required)
	})

	t.Run("search exposes scoping flags", func(t *testing.T) {
		for _, name := range []string{"db", "category", "no-subcategories", "available", "max-hits", "missing-phrase-last", "language"} {
			assert.NotNil(t, findFlag(t, commands["search"], name))
		}
	})

	t.Run("every command accepts db", func(t *testing.T) {
		for _, cmd := range app.Commands {
			assert.NotNil(t, findFlag(t, cmd, "db"))
		}
	})

	t.Run("missing file flag", func(t *testing.T) {
		_, err := runApp(t, "import", "--db", filepath.Join(t.TempDir(), "db"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file")
	})
}

func TestSeedAndSearch(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog")

	out, err := runApp(t, "seed", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 7 categories, 14 products")

	t.Run("phrase position ranking", func(t *testing.T) {
		out, err := runApp(t, "search", "--db", dbPath, "cup")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "Found 2 hits", lines[0])
		assert.Contains(t, lines[1], "'Cup Holder'")
		assert.Contains(t, lines[2], "'Coffee Cup'")
	})

	t.Run("accent insensitive", func(t *testing.T) {
		out, err := runApp(t, "search", "--db", dbPath, "creme", "brulee")
		require.NoError(t, err)
		assert.Contains(t, out, "Found 1 hits")
		assert.Contains(t, out, "Crème Brûlée")
	})

	t.Run("scoped to category without subcategories", func(t *testing.T) {
		out, err := runApp(t, "search", "--db", dbPath, "--category", "1", "--no-subcategories", "chair")
		require.NoError(t, err)
		assert.Contains(t, out, "Found 1 hits")
		assert.Contains(t, out, "Chair Cushion")
	})

	t.Run("available and max hits", func(t *testing.T) {
		out, err := runApp(t, "search", "--db", dbPath, "--available", "--max-hits", "2", "chair")
		require.NoError(t, err)
		assert.Contains(t, out, "Found 2 hits")
		assert.NotContains(t, out, "Conference Chair")
	})

	t.Run("barcode lookup", func(t *testing.T) {
		out, err := runApp(t, "search", "--db", dbPath, "5400000000017")
		require.NoError(t, err)
		assert.Contains(t, out, "'Office Chair' (101) [FURN_0001] barcode=5400000000017")
	})

	t.Run("invalid language", func(t *testing.T) {
		_, err := runApp(t, "search", "--db", dbPath, "--language", "not a tag!", "cup")
		assert.Error(t, err)
	})

	t.Run("category tree", func(t *testing.T) {
		out, err := runApp(t, "categories", "--db", dbPath)
		require.NoError(t, err)
		assert.Contains(t, out, "Furniture (1) - 1 products\n  Chairs (2) - 3 products\n")
		assert.Contains(t, out, "Drinks (5) - 1 products\n  Hot Drinks (6) - 2 products\n")
	})
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "catalog")
	file := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(file, []byte(`{
		"categories": [{"id": 1, "name": "Bakery"}],
		"products": [
			{"id": 1, "name": "Sourdough Loaf", "category_ids": [[1, "Bakery"]]},
			{"id": 2, "name": "Rye Loaf", "category_ids": [1], "available": false},
			{"id": 3, "name": ""}
		]
	}`), 0o644))

	out, err := runApp(t, "import", "--db", dbPath, "--file", file, "--batch-size", "1", "--progress")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 categories, 2 products (1 skipped)")

	out, err = runApp(t, "search", "--db", dbPath, "--available", "loaf")
	require.NoError(t, err)
	assert.Contains(t, out, "Sourdough Loaf")
	assert.NotContains(t, out, "Rye Loaf")

	_, err = runApp(t, "import", "--db", dbPath, "--file", filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = runApp(t, "import", "--db", dbPath, "--file", file, "--batch-size", "0")
	assert.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := runApp(t, "--log-level", "loud", "categories", "--db", filepath.Join(t.TempDir(), "db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
