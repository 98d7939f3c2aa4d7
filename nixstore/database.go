package nixstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/nixdiff/nixdiff/store"
)

// DefaultDatabasePath is where Nix keeps its registration database.
const DefaultDatabasePath = "/nix/var/nix/db/db.sqlite"

// systemStoresQuery lists every registered top-level store path, newest
// first. Content-addressed paths and obvious non-package artifacts are
// filtered out up front so the parser sees fewer lines.
const systemStoresQuery = `
SELECT id, path, registrationTime
FROM ValidPaths
WHERE ca IS NULL
  AND path NOT LIKE '%-completions'
  AND path NOT LIKE '%.tar.%'
ORDER BY registrationTime DESC`

// closureQuery lists the direct references of a store path recursively
// recorded by Nix in the Refs table, excluding the store itself.
const closureQuery = `
SELECT v.id, v.path, v.registrationTime
FROM ValidPaths v
JOIN Refs r ON r.reference = v.id
WHERE r.referrer = ?
  AND v.id != ?
  AND v.ca IS NULL
ORDER BY v.registrationTime DESC`

type DatabaseSourceConfig struct {
	// Path to the Nix registration database.
	Path string
}

func DefaultDatabaseSourceConfig() DatabaseSourceConfig {
	return DatabaseSourceConfig{
		Path: DefaultDatabasePath,
	}
}

type databaseSource struct {
	db *sql.DB
}

var _ Source = (*databaseSource)(nil)

// NewDatabaseSource opens the Nix database read-only. The immutable open
// works without locks even while a build holds the database; when it fails a
// plain read-only open is attempted before giving up.
func NewDatabaseSource(config DatabaseSourceConfig) (*databaseSource, error) {
	if config.Path == "" {
		config.Path = DefaultDatabasePath
	}

	db, err := openSqlite(fmt.Sprintf("file:%s?mode=ro&immutable=1", config.Path))
	if err != nil {
		db, err = openSqlite(fmt.Sprintf("file:%s?mode=ro", config.Path))
	}

	if err != nil {
		if os.Geteuid() != 0 {
			return nil, ErrDatabaseOpen.Wrap(fmt.Errorf("%s (not running as root): %w", config.Path, err))
		}

		return nil, ErrDatabaseOpen.Wrap(fmt.Errorf("%s: %w", config.Path, err))
	}

	return &databaseSource{db: db}, nil
}

func openSqlite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// sql.Open is lazy, force the file open now so failures surface here.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (d *databaseSource) Name() string {
	return "database"
}

func (d *databaseSource) Close() error {
	return d.db.Close()
}

func (d *databaseSource) SystemStores(ctx context.Context) (store.StoreSet, error) {
	paths, err := d.queryStores(ctx, systemStoresQuery)
	if err != nil {
		return nil, ErrDatabaseQuery.Wrap(fmt.Errorf("listing system stores: %w", err))
	}

	return store.Unique(paths), nil
}

func (d *databaseSource) Closure(ctx context.Context, path store.StorePath) ([]store.StorePath, error) {
	paths, err := d.queryStores(ctx, closureQuery, path.ID, path.ID)
	if err != nil {
		return nil, ErrDatabaseQuery.Wrap(fmt.Errorf("closure of %s: %w", path.Name, err))
	}

	return paths, nil
}

// queryStores runs a (id, path, registrationTime) query and parses each row,
// silently skipping rows that do not name a versioned package.
func (d *databaseSource) queryStores(ctx context.Context, query string, args ...any) ([]store.StorePath, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []store.StorePath

	for rows.Next() {
		var (
			id           int64
			rawPath      string
			registerTime int64
		)

		if err := rows.Scan(&id, &rawPath, &registerTime); err != nil {
			return nil, err
		}

		parsed, ok := store.Parse(rawPath)
		if !ok {
			continue
		}

		parsed.ID = id
		parsed.RegisterTime = registerTime
		paths = append(paths, parsed)
	}

	return paths, rows.Err()
}
