package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/erp-obras/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"add stage budget":      "add_stage_budget",
		"Add-Stage--Budget":     "add_stage_budget",
		"  medições 2026  ":     "medies_2026",
		"trailing_":             "trailing",
		"_leading":              "leading",
		"special!@#$characters": "specialcharacters",
		"":                      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, slugify(in), in)
	}
}

func TestCreate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")
	now := time.Date(2026, 10, 18, 14, 30, 5, 0, time.UTC)

	nf, err := Create(dir, "add stage budget", "Planned budget per stage", now)
	require.NoError(t, err)

	assert.Equal(t, "20261018143005", nf.Version)
	assert.Equal(t, filepath.Join(dir, "20261018143005_add_stage_budget.up.sql"), nf.UpPath)

	up, err := os.ReadFile(nf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- add stage budget (up)")
	assert.Contains(t, string(up), "-- Planned budget per stage")

	down, err := os.ReadFile(nf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(down)")

	_, err = Create(dir, "add stage budget", "", now)
	assert.Error(t, err, "same version and name must not overwrite")

	_, err = Create(dir, "!!!", "", now)
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	source := fstest.MapFS{
		"20260301090100_b.up.sql":   {},
		"20260301090100_b.down.sql": {},
		"20260301090000_a.up.sql":   {},
		"20260301090000_a.down.sql": {},
		"README.md":                 {},
	}
	names, err := List(source)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260301090000_a", "20260301090100_b"}, names)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	names, err := List(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		_, err := migrations.FS.Open(name + ".down.sql")
		assert.NoError(t, err, "%s has no down migration", name)
	}
}
