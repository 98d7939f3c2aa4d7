package nixstore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE ValidPaths (
	id INTEGER PRIMARY KEY,
	path TEXT NOT NULL,
	hash TEXT NOT NULL DEFAULT '',
	registrationTime INTEGER NOT NULL DEFAULT 0,
	deriver TEXT,
	narSize INTEGER,
	ultimate INTEGER,
	sigs TEXT,
	ca TEXT
);
CREATE TABLE Refs (
	referrer INTEGER NOT NULL,
	reference INTEGER NOT NULL,
	PRIMARY KEY (referrer, reference)
);`

type testRow struct {
	id           int64
	path         string
	registerTime int64
	ca           string
}

func newTestDatabase(t *testing.T, rows []testRow, refs [][2]int64) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "db.sqlite")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	for _, row := range rows {
		var ca any
		if row.ca != "" {
			ca = row.ca
		}

		_, err = db.Exec(`INSERT INTO ValidPaths (id, path, registrationTime, ca) VALUES (?, ?, ?, ?)`,
			row.id, row.path, row.registerTime, ca)
		require.NoError(t, err)
	}

	for _, ref := range refs {
		_, err = db.Exec(`INSERT INTO Refs (referrer, reference) VALUES (?, ?)`, ref[0], ref[1])
		require.NoError(t, err)
	}

	return path
}

func TestDatabaseSourceSystemStores(t *testing.T) {
	path := newTestDatabase(t, []testRow{
		{id: 1, path: "/nix/store/aaa-glxinfo-8.4.0", registerTime: 5000},
		{id: 2, path: "/nix/store/bbb-wine-wow-4.0-rc5-staging", registerTime: 5000},
		// Content-addressed paths are filtered by the query.
		{id: 3, path: "/nix/store/ccc-hidden-1.0", registerTime: 5000, ca: "fixed:sha256"},
		// Artifacts filtered by the query.
		{id: 4, path: "/nix/store/ddd-bash-completions", registerTime: 5000},
		{id: 5, path: "/nix/store/eee-source-1.0.tar.gz", registerTime: 5000},
		// Parse rejection, silently skipped.
		{id: 6, path: "/nix/store/fff-fix-static.patch", registerTime: 5000},
		// Two versions registered in one update: ambiguous, dropped.
		{id: 7, path: "/nix/store/ggg-gcc-7.4.0", registerTime: 5000},
		{id: 8, path: "/nix/store/hhh-gcc-8.3.0", registerTime: 5100},
	}, nil)

	src, err := NewDatabaseSource(DatabaseSourceConfig{Path: path})
	require.NoError(t, err)
	defer src.Close()

	stores, err := src.SystemStores(context.Background())
	require.NoError(t, err)

	assert.Len(t, stores, 2)

	require.Contains(t, stores, "glxinfo")
	assert.Equal(t, "8.4.0", stores["glxinfo"].Version)
	assert.Equal(t, int64(1), stores["glxinfo"].ID)
	assert.Equal(t, int64(5000), stores["glxinfo"].RegisterTime)

	require.Contains(t, stores, "wine-wow|staging")
	assert.Equal(t, "4.0-rc5", stores["wine-wow|staging"].Version)

	assert.NotContains(t, stores, "gcc", "same-update duplicates must be dropped")
	assert.NotContains(t, stores, "hidden")
}

func TestDatabaseSourceClosure(t *testing.T) {
	path := newTestDatabase(t, []testRow{
		{id: 1, path: "/nix/store/aaa-wine-4.1", registerTime: 9000},
		{id: 2, path: "/nix/store/bbb-vulkan-loader-1.1.85", registerTime: 1000},
		{id: 3, path: "/nix/store/ccc-glibc-2.27", registerTime: 1000},
		{id: 4, path: "/nix/store/ddd-unrelated-2.0", registerTime: 1000},
	}, [][2]int64{
		{1, 2},
		{1, 3},
		// Self reference, excluded by the query.
		{1, 1},
	})

	src, err := NewDatabaseSource(DatabaseSourceConfig{Path: path})
	require.NoError(t, err)
	defer src.Close()

	closure, err := src.Closure(context.Background(), mustParse(t, "/nix/store/aaa-wine-4.1", 1, 9000))
	require.NoError(t, err)

	names := make([]string, 0, len(closure))
	for _, dep := range closure {
		names = append(names, dep.Name)
	}

	assert.ElementsMatch(t, []string{"vulkan-loader", "glibc"}, names)
}

func TestNewDatabaseSourceMissingFile(t *testing.T) {
	_, err := NewDatabaseSource(DatabaseSourceConfig{
		Path: filepath.Join(t.TempDir(), "does-not-exist.sqlite"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatabaseOpen)
}
