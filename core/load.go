package core

import (
	"context"
	"errors"

	"github.com/huangsam/tomato/core/agg"
	"github.com/huangsam/tomato/internal/contract"
	"github.com/huangsam/tomato/schema"
	"golang.org/x/sync/errgroup"
)

// loadProjects lists the markdown notes and returns the project notes with
// their metadata, ordered by document ID.
//
// Notes whose metadata block is malformed cannot be told apart from other notes,
// so they are left out with a warning and reported in skipped. Any other error
// stops the run.
func loadProjects(ctx context.Context, cfg *contract.Config, store contract.DocumentStore) (projects []schema.DocumentMetadata, skipped []string, err error) {
	docs, err := store.ListDocuments(ctx, schema.MarkdownExt)
	if err != nil {
		return nil, nil, err
	}

	type loaded struct {
		meta     schema.Metadata
		hasBlock bool
		err      error
	}
	results := make([]loaded, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i, doc := range docs {
		g.Go(func() error {
			meta, ok, err := store.CachedMetadata(gctx, doc)
			if err != nil && !errors.Is(err, schema.ErrMalformedDocument) {
				return err
			}
			// Each goroutine writes to its own index
			results[i] = loaded{meta: meta, hasBlock: ok, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	all := make([]schema.DocumentMetadata, 0, len(docs))
	for i, r := range results {
		if r.err != nil {
			contract.LogWarn("Skipping document", r.err)
			skipped = append(skipped, docs[i].ID)
			continue
		}
		if !r.hasBlock {
			continue
		}
		all = append(all, schema.DocumentMetadata{Document: docs[i], Metadata: r.meta})
	}
	return agg.FilterProjects(all), skipped, nil
}
