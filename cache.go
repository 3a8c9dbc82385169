package niceview

import (
	"crypto/sha1"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // register sqlite3 driver
)

// Cache remembers previous conversions keyed by the SHA-1 of the source
// file and the conversion settings.
type Cache struct {
	db *sql.DB
}

// OpenCache opens or creates the SQLite cache database at file.
func OpenCache(file string) (*Cache, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	// Conversion workers share the one connection rather than fight over
	// the database lock
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS bitmap (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL, options TEXT NOT NULL, data BLOB NOT NULL, UNIQUE(sha1, options))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{
		db: db,
	}, nil
}

func checksum(b []byte) string {
	return fmt.Sprintf("%X", sha1.Sum(b))
}

// Get returns the cached bitmap data, or nil if there is none.
func (c *Cache) Get(sha, options string) ([]byte, error) {
	var data []byte
	switch err := c.db.QueryRow("SELECT data FROM bitmap WHERE sha1 = ? AND options = ?", sha, options).Scan(&data); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return data, nil
	default:
		return nil, err
	}
}

// Put stores bitmap data, replacing any previous entry.
func (c *Cache) Put(sha, options string, data []byte) error {
	if _, err := c.db.Exec("INSERT OR REPLACE INTO bitmap (sha1, options, data) VALUES (?, ?, ?)", sha, options, data); err != nil {
		return err
	}
	return nil
}

// Len returns the number of cached bitmaps.
func (c *Cache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM bitmap").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}
