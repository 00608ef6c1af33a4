package builder

import (
	"context"
	"fmt"

	"github.com/climatescout/profiler/internal/registry"
)

// Synthesize generates and persists a profile for an author already in
// the roster and archive.
//
// A record that already carries a profile is an idempotent no-op unless
// force is set; profile text is otherwise written once and only the
// feedback path produces further variants. On generation failure nothing
// is written.
func (b *Builder) Synthesize(ctx context.Context, key string, force bool) (registry.AuthorRecord, error) {
	rec, ok := b.lookup(key)
	if !ok {
		return registry.AuthorRecord{}, fmt.Errorf("%w: %q", ErrNotFound, key)
	}

	if rec.ProfileText != "" && !force {
		return rec, nil
	}

	entry, ok := b.Archive.Get(rec.Identity)
	if !ok {
		return registry.AuthorRecord{}, fmt.Errorf("no archived papers for %s; run ingestion first", rec.DisplayName)
	}

	text, tags, err := b.Gen.Synthesize(ctx, rec.DisplayName, entry.Papers)
	if err != nil {
		return registry.AuthorRecord{}, fmt.Errorf("%w: generating profile for %s: %v", ErrGenerationUnavailable, rec.DisplayName, err)
	}

	rec.ProfileText = text
	rec.Tags = tags

	if err := b.Registry.Upsert(rec); err != nil {
		return registry.AuthorRecord{}, fmt.Errorf("storing profile for %s: %w", rec.DisplayName, err)
	}
	if err := b.Registry.Save(); err != nil {
		return registry.AuthorRecord{}, fmt.Errorf("saving roster for %s: %w", rec.DisplayName, err)
	}

	return rec, nil
}

// Build runs the whole pipeline for a name: resolve, ingest, synthesize.
// Each stage is individually idempotent, so re-running after a partial
// failure picks up where the last run stopped.
func (b *Builder) Build(ctx context.Context, name string) (registry.AuthorRecord, int, error) {
	identity, canonical, err := b.Resolve(ctx, name)
	if err != nil {
		return registry.AuthorRecord{}, 0, err
	}
	if identity == "" {
		// Durably recorded, but nothing more can happen without an identity.
		rec, _ := b.Registry.FindByName(canonical)
		return rec, 0, nil
	}

	_, count, err := b.Ingest(ctx, identity, canonical)
	if err != nil {
		return registry.AuthorRecord{}, 0, err
	}

	rec, err := b.Synthesize(ctx, identity, false)
	if err != nil {
		return registry.AuthorRecord{}, 0, err
	}

	return rec, count, nil
}
