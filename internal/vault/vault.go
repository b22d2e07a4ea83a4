// Package vault is the document store over a directory of markdown notes.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/huangsam/tomato/internal/contract"
	"github.com/huangsam/tomato/schema"
	"github.com/spf13/afero"
)

// Store reads and writes the notes of one vault.
// Hidden directories such as .obsidian, .git or .trash are never listed.
type Store struct {
	fs    afero.Fs
	root  string
	cache contract.CacheStore // nil disables the metadata cache
}

var _ contract.DocumentStore = &Store{} // Compile-time check

// NewStore creates a store rooted at root. cache may be nil.
func NewStore(fsys afero.Fs, root string, cache contract.CacheStore) *Store {
	return &Store{fs: fsys, root: filepath.Clean(root), cache: cache}
}

// ListDocuments implements contract.DocumentStore.
func (s *Store) ListDocuments(ctx context.Context, ext string) ([]schema.Document, error) {
	var docs []schema.Document
	err := afero.Walk(s.fs, s.root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.IsDir() {
			if p != s.root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(p), ext) {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		docs = append(docs, schema.Document{ID: filepath.ToSlash(rel), Path: p})
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: list %s: %w", schema.ErrStorageIO, s.root, err)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// ReadText implements contract.DocumentStore.
func (s *Store) ReadText(ctx context.Context, doc schema.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := afero.ReadFile(s.fs, s.resolve(doc))
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", schema.ErrStorageIO, doc.ID, err)
	}
	return string(data), nil
}

// WriteText implements contract.DocumentStore. The file keeps its permissions.
func (s *Store) WriteText(ctx context.Context, doc schema.Document, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p := s.resolve(doc)
	info, err := s.fs.Stat(p)
	if err != nil {
		return fmt.Errorf("%w: write %s: %w", schema.ErrStorageIO, doc.ID, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: write %s: is a directory", schema.ErrStorageIO, doc.ID)
	}
	if err := afero.WriteFile(s.fs, p, []byte(text), info.Mode().Perm()); err != nil {
		return fmt.Errorf("%w: write %s: %w", schema.ErrStorageIO, doc.ID, err)
	}
	return nil
}

// CreateDocument implements contract.DocumentStore. Missing parent folders are created.
func (s *Store) CreateDocument(ctx context.Context, id string, text string) (schema.Document, error) {
	if err := ctx.Err(); err != nil {
		return schema.Document{}, err
	}
	doc := schema.Document{ID: path.Clean(id)}
	doc.Path = s.resolve(doc)

	if err := s.fs.MkdirAll(filepath.Dir(doc.Path), 0o755); err != nil {
		return schema.Document{}, fmt.Errorf("%w: create %s: %w", schema.ErrStorageIO, doc.ID, err)
	}
	f, err := s.fs.OpenFile(doc.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return schema.Document{}, fmt.Errorf("%w: create %s: %w", schema.ErrStorageIO, doc.ID, err)
	}
	_, werr := f.WriteString(text)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		return schema.Document{}, fmt.Errorf("%w: create %s: %w", schema.ErrStorageIO, doc.ID, err)
	}
	return doc, nil
}

// Exists implements contract.DocumentStore.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := afero.Exists(s.fs, s.resolve(schema.Document{ID: id}))
	if err != nil {
		return false, fmt.Errorf("%w: stat %s: %w", schema.ErrStorageIO, id, err)
	}
	return ok, nil
}

// resolve returns the filesystem path of a document.
func (s *Store) resolve(doc schema.Document) string {
	if doc.Path != "" {
		return doc.Path
	}
	return filepath.Join(s.root, filepath.FromSlash(doc.ID))
}
