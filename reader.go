package tileworld

import (
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// ResourceReader represents somewhere we can read map documents & tilesets from
type ResourceReader interface {
	// ReadFrom opens the resource at `path`.
	// Paths are slash separated & relative to the reader's root.
	ReadFrom(path string) (io.ReadCloser, error)
}

// DirReader reads resources from a directory on disk
type DirReader struct {
	root string
}

// NewDirReader returns a reader rooted at `root` (~ is expanded)
func NewDirReader(root string) (*DirReader, error) {
	expanded, err := homedir.Expand(root)
	if err != nil {
		return nil, err
	}
	return &DirReader{root: expanded}, nil
}

// Root returns the directory we read from
func (d *DirReader) Root() string {
	return d.root
}

// ReadFrom opens the file at `path` under our root
func (d *DirReader) ReadFrom(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(d.root, filepath.FromSlash(name)))
}

// FSReader reads resources from any fs.FS (eg. an embed.FS)
type FSReader struct {
	fsys fs.FS
}

// NewFSReader returns a reader over `fsys`
func NewFSReader(fsys fs.FS) *FSReader {
	return &FSReader{fsys: fsys}
}

// ReadFrom opens the file at `name` in the underlying fs
func (f *FSReader) ReadFrom(name string) (io.ReadCloser, error) {
	return f.fsys.Open(path.Clean(name))
}

// resolvePath returns `ref` as seen from the document at `doc`.
// Both are slash separated.
func resolvePath(doc, ref string) string {
	if path.IsAbs(ref) {
		return path.Clean(ref)
	}
	return path.Join(path.Dir(doc), ref)
}
