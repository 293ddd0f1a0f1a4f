package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedded(t *testing.T) {
	files, err := Embedded()
	require.NoError(t, err)
	require.Len(t, files, 3)

	for i, f := range files {
		assert.Equal(t, uint(i+1), f.Version)
		assert.True(t, f.HasDown, "migration %d has no down script", f.Version)
	}
	assert.Equal(t, "init_shop", files[0].Name)
}

func TestEmbedded_QuotesOrderTable(t *testing.T) {
	data, err := migrationsFS.ReadFile("sql/000003_init_customer_order.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), `CREATE TABLE IF NOT EXISTS "order"`)
}

func TestList(t *testing.T) {
	t.Run("ignores unrelated files", func(t *testing.T) {
		fsys := fstest.MapFS{
			"000002_b.up.sql":   {},
			"000001_a.up.sql":   {},
			"000001_a.down.sql": {},
			"README.md":         {},
		}
		files, err := List(fsys)
		require.NoError(t, err)
		assert.Equal(t, []File{
			{Version: 1, Name: "a", HasDown: true},
			{Version: 2, Name: "b"},
		}, files)
	})

	t.Run("conflicting names", func(t *testing.T) {
		fsys := fstest.MapFS{
			"000001_a.up.sql":   {},
			"000001_b.down.sql": {},
		}
		_, err := List(fsys)
		assert.ErrorContains(t, err, "conflicting names")
	})
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()

	up, down, err := Create(dir, "Add product tags")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "000001_add_product_tags.up.sql"), up)
	assert.Equal(t, filepath.Join(dir, "000001_add_product_tags.down.sql"), down)

	up, _, err = Create(dir, "seo-url index")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "000002_seo_url_index.up.sql"), up)

	data, err := os.ReadFile(up)
	require.NoError(t, err)
	assert.Equal(t, "-- seo-url index\n", string(data))

	_, _, err = Create(dir, "!!!")
	assert.Error(t, err)
}
