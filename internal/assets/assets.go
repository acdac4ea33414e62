package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"sort"

	"github.com/gaspardpetit/spahost/core/logx"
	hashfs "github.com/gaspardpetit/spahost/internal/fs"
	"github.com/gaspardpetit/spahost/web"
)

// DefaultContentType is used for files whose extension has no known MIME type.
const DefaultContentType = "application/octet-stream"

// Entry is a single bundled file. Data must be treated as read-only.
type Entry struct {
	Path        string
	Data        []byte
	Size        int64
	ContentType string
	Digest      string
}

// Table maps slash-separated relative paths to bundled files. It is built
// once and never modified, so concurrent reads need no locking. A nil Table
// behaves as an empty one.
type Table struct {
	entries map[string]Entry
	size    int64
}

// Load reads every regular file of fsys into a new Table. A missing root
// yields an empty table.
func Load(fsys fs.FS) (*Table, error) {
	t := &Table{entries: make(map[string]Entry)}
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read asset %s: %w", p, err)
		}
		e := Entry{
			Path:        p,
			Data:        data,
			Size:        int64(len(data)),
			ContentType: ContentType(p),
			Digest:      hashfs.Digest(data),
		}
		t.entries[p] = e
		t.size += e.Size
		logx.Log.Debug().Str("path", p).Int64("size", e.Size).Str("content_type", e.ContentType).Msg("asset loaded")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// LoadDir scans dir on disk into a new Table.
func LoadDir(dir string) (*Table, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static dir %s is not a directory", dir)
	}
	return Load(os.DirFS(dir))
}

// Embedded builds a Table from the front-end bundle compiled into the binary.
func Embedded() (*Table, error) {
	sub, err := fs.Sub(web.Content(), web.DistDir)
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Get returns the entry stored under p.
func (t *Table) Get(p string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	e, ok := t.entries[p]
	return e, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Size returns the total number of bytes held by the table.
func (t *Table) Size() int64 {
	if t == nil {
		return 0
	}
	return t.size
}

// Paths returns all entry paths in lexical order.
func (t *Table) Paths() []string {
	if t == nil {
		return nil
	}
	res := make([]string, 0, len(t.entries))
	for p := range t.entries {
		res = append(res, p)
	}
	sort.Strings(res)
	return res
}

// Entries returns all entries ordered by path.
func (t *Table) Entries() []Entry {
	paths := t.Paths()
	res := make([]Entry, 0, len(paths))
	for _, p := range paths {
		res = append(res, t.entries[p])
	}
	return res
}

// ContentType guesses the MIME type of p from its extension.
func ContentType(p string) string {
	if ct := mime.TypeByExtension(path.Ext(p)); ct != "" {
		return ct
	}
	return DefaultContentType
}
