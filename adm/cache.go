package adm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/NASA-AMMOS/anms-ace/ari"
)

const nicknameCacheSchema = `
CREATE TABLE IF NOT EXISTS nicknames (
	namespace   TEXT NOT NULL,
	object_type INTEGER NOT NULL,
	name        TEXT NOT NULL,
	enum        INTEGER NOT NULL,
	PRIMARY KEY (namespace, object_type, name)
);
`

// NicknameCache persists resolved namespace/object enumerator lookups
// across ace_ari invocations (spec.md §6.3, SPEC_FULL.md component H).
// ace_ari fills it from the loaded catalog; catalog loading itself always
// parses the ADM JSON files and does not read from the cache. Grounded on
// bureau-foundation-bureau's lib/sqlitepool: one pragma-tuned connection, scaled to a single *sqlite.Conn since the workload is one
// CLI process at a time rather than a concurrent service.
type NicknameCache struct {
	conn   *sqlite.Conn
	logger *slog.Logger
}

// OpenCache opens (creating if necessary) the SQLite nickname cache at
// path, applying the same WAL/pragma tuning bureau-foundation-bureau's
// sqlitepool applies, then ensures the schema exists.
func OpenCache(path string, logger *slog.Logger) (*NicknameCache, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("adm: creating cache directory: %w", err)
		}
	}

	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite|sqlite.OpenCreate)
	if err != nil {
		return nil, fmt.Errorf("adm: opening nickname cache %s: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=OFF",
	}
	for _, p := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, p, nil); err != nil {
			conn.Close()
			return nil, fmt.Errorf("adm: %s: %w", p, err)
		}
	}
	if err := sqlitex.ExecuteScript(conn, nicknameCacheSchema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("adm: creating nickname cache schema: %w", err)
	}

	logger.Info("nickname cache opened", "path", path)
	return &NicknameCache{conn: conn, logger: logger}, nil
}

// Close releases the cache's connection.
func (c *NicknameCache) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Put records the resolved enumerator for (namespace, objType, name),
// overwriting any prior entry.
func (c *NicknameCache) Put(_ context.Context, namespace string, objType ari.ObjectType, name string, enum int64) error {
	return sqlitex.Execute(c.conn,
		`INSERT INTO nicknames (namespace, object_type, name, enum) VALUES (?, ?, ?, ?)
		 ON CONFLICT (namespace, object_type, name) DO UPDATE SET enum = excluded.enum`,
		&sqlitex.ExecOptions{Args: []any{namespace, int(objType), name, enum}})
}

// Lookup returns the cached enumerator for (namespace, objType, name), or
// ok=false if no entry has been cached for that triple.
func (c *NicknameCache) Lookup(_ context.Context, namespace string, objType ari.ObjectType, name string) (enum int64, ok bool, err error) {
	err = sqlitex.Execute(c.conn,
		`SELECT enum FROM nicknames WHERE namespace = ? AND object_type = ? AND name = ?`,
		&sqlitex.ExecOptions{
			Args: []any{namespace, int(objType), name},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				enum = stmt.ColumnInt64(0)
				ok = true
				return nil
			},
		})
	return enum, ok, err
}

// Prime populates the cache from a frozen Catalog, recording the
// enumerator of every object that has a symbolic name, so that Lookup can
// answer for it from the cache file later.
func (c *NicknameCache) Prime(ctx context.Context, cat *Catalog) error {
	cat.mu.RLock()
	defer cat.mu.RUnlock()
	for _, ns := range cat.byName {
		for objType, table := range ns.Objects {
			for name, desc := range table.byName {
				if err := c.Put(ctx, ns.Name.Text, objType, name, desc.Name.Enum); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
