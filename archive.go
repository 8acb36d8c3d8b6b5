package tileworld

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const (
	sqlPutAsset   = `INSERT INTO assets (path, data, modified) VALUES (:path, :data, :modified) ON CONFLICT (path) DO UPDATE SET data=EXCLUDED.data, modified=EXCLUDED.modified;`
	sqlGetAsset   = `SELECT path, data, modified FROM assets WHERE path=:path LIMIT 1;`
	sqlListAssets = `SELECT path FROM assets ORDER BY path;`
)

// ArchiveReader holds map documents, tilesets & images in a single sqlite
// file so a whole world can be shipped (& read) as one asset.
type ArchiveReader struct {
	filename string
	db       *sqlx.DB
}

// NewArchive creates an empty archive at `fname`, replacing any existing file.
func NewArchive(fname string) (*ArchiveReader, error) {
	err := os.Remove(fname)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return OpenArchive(fname)
}

// OpenArchive given it's filename on disk.
// Will create if it doesn't exist.
func OpenArchive(fname string) (*ArchiveReader, error) {
	db, err := sqlx.Open("sqlite3", fname)
	if err != nil {
		return nil, err
	}

	a := &ArchiveReader{db: db, filename: fname}
	if err := a.init(); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// Filename returns the path to the archive on disk
func (a *ArchiveReader) Filename() string {
	return a.filename
}

// Put writes `data` to the archive under `name`, overwriting anything there.
func (a *ArchiveReader) Put(name string, data []byte) error {
	_, err := a.db.NamedExec(sqlPutAsset, newDBAsset(name, data, time.Now()))
	return err
}

// PutReader is Put for a stream.
func (a *ArchiveReader) PutReader(name string, r io.Reader) error {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return err
	}
	return a.Put(name, data)
}

// ReadFrom returns the asset stored under `name`.
// A missing asset returns an error wrapping os.ErrNotExist.
func (a *ArchiveReader) ReadFrom(name string) (io.ReadCloser, error) {
	row, err := a.get(name)
	if err != nil {
		return nil, err
	}
	return ioutil.NopCloser(bytes.NewReader(row.Data)), nil
}

// Modified returns when the asset was last written.
func (a *ArchiveReader) Modified(name string) (time.Time, error) {
	row, err := a.get(name)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, row.Modified), nil
}

// Paths returns the name of every asset in the archive, sorted.
func (a *ArchiveReader) Paths() ([]string, error) {
	names := []string{}
	err := a.db.Select(&names, sqlListAssets)
	return names, err
}

// Close the underlying database
func (a *ArchiveReader) Close() error {
	return a.db.Close()
}

func (a *ArchiveReader) get(name string) (*dbAsset, error) {
	rows, err := a.db.NamedQuery(sqlGetAsset, map[string]interface{}{"path": path.Clean(name)})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("archive %s: %s: %w", a.filename, name, os.ErrNotExist)
	}

	row := &dbAsset{}
	if err := rows.StructScan(row); err != nil {
		return nil, err
	}
	return row, nil
}

// init creates our table if it doesn't exist
func (a *ArchiveReader) init() error {
	createAssets := `CREATE TABLE IF NOT EXISTS assets(
		path TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		modified INTEGER NOT NULL
	    );`
	_, err := a.db.Exec(createAssets)
	return err
}

// dbAsset encodes a single stored file.
type dbAsset struct {
	Path     string `db:"path"`
	Data     []byte `db:"data"`
	Modified int64  `db:"modified"`
}

// newDBAsset crafts a dbAsset struct given it's inputs
func newDBAsset(name string, data []byte, modified time.Time) dbAsset {
	if data == nil {
		data = []byte{}
	}
	return dbAsset{Path: path.Clean(name), Data: data, Modified: modified.UnixNano()}
}
