package vault

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/huangsam/tomato/internal/frontmatter"
	"github.com/huangsam/tomato/schema"
)

// currentCacheVersion defines the version of the cached metadata encoding.
const currentCacheVersion = 1

// maxCacheAge bounds how long a cached block is trusted.
const maxCacheAge = 7 * 24 * time.Hour

// contentDigestLimit is the largest note whose content is hashed into the cache key.
const contentDigestLimit = 64 << 10

// CachedMetadata implements contract.DocumentStore.
//
// The parsed block is cached per (path, mtime, size). Notes up to
// contentDigestLimit bytes also key on a digest of their content, so an edit
// that keeps the size within the mtime granularity is still seen. Larger notes
// are not re-read when unchanged. A document without a block is cached as an
// empty value. Malformed blocks are never cached.
func (s *Store) CachedMetadata(ctx context.Context, doc schema.Document) (schema.Metadata, bool, error) {
	if err := ctx.Err(); err != nil {
		return schema.Metadata{}, false, err
	}
	if s.cache == nil {
		text, err := s.ReadText(ctx, doc)
		if err != nil {
			return schema.Metadata{}, false, err
		}
		return s.parseAndStore(doc, "", text)
	}

	p := s.resolve(doc)
	info, err := s.fs.Stat(p)
	if err != nil {
		return schema.Metadata{}, false, fmt.Errorf("%w: stat %s: %w", schema.ErrStorageIO, doc.ID, err)
	}

	var text, digest string
	read := false
	if info.Size() <= contentDigestLimit {
		if text, err = s.ReadText(ctx, doc); err != nil {
			return schema.Metadata{}, false, err
		}
		digest = fmt.Sprintf("%x", sha256.Sum256([]byte(text)))
		read = true
	}
	key := metadataCacheKey(p, info.ModTime(), info.Size(), digest)

	if meta, ok, hit := s.checkCacheHit(key); hit {
		return meta, ok, nil
	}
	if !read {
		if text, err = s.ReadText(ctx, doc); err != nil {
			return schema.Metadata{}, false, err
		}
	}
	return s.parseAndStore(doc, key, text)
}

// checkCacheHit returns the cached metadata when a fresh entry exists.
func (s *Store) checkCacheHit(key string) (meta schema.Metadata, ok bool, hit bool) {
	if s.cache == nil {
		return schema.Metadata{}, false, false
	}
	data, version, ts, err := s.cache.Get(key)
	if err != nil || version != currentCacheVersion {
		return schema.Metadata{}, false, false
	}
	if time.Since(time.Unix(ts, 0)) > maxCacheAge {
		return schema.Metadata{}, false, false
	}
	if len(data) == 0 {
		return schema.Metadata{}, false, true
	}
	meta, _, err = frontmatter.Parse(string(data))
	if err != nil {
		return schema.Metadata{}, false, false
	}
	return meta, true, true
}

// parseAndStore parses the document text, then caches the block under key.
func (s *Store) parseAndStore(doc schema.Document, key, text string) (schema.Metadata, bool, error) {
	if !frontmatter.HasBlock(text) {
		s.store(key, nil)
		return schema.Metadata{}, false, nil
	}

	meta, _, err := frontmatter.Parse(text)
	if err != nil {
		return schema.Metadata{}, false, fmt.Errorf("%s: %w", doc.ID, err)
	}

	if block, err := frontmatter.Serialize(meta); err == nil {
		s.store(key, []byte(block))
	}
	return meta, true, nil
}

func (s *Store) store(key string, value []byte) {
	if s.cache == nil {
		return
	}
	if value == nil {
		value = []byte{}
	}
	_ = s.cache.Set(key, value, currentCacheVersion, time.Now().Unix())
}

// metadataCacheKey identifies one version of a file. digest may be empty.
func metadataCacheKey(path string, modTime time.Time, size int64, digest string) string {
	key := fmt.Sprintf("%s|%d|%d|%s", path, modTime.UnixNano(), size, digest)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
