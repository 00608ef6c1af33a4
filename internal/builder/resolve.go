package builder

import (
	"context"
	"fmt"

	"github.com/climatescout/profiler/internal/registry"
)

// Resolve maps a human-entered name to a stable author identity.
//
// The roster is checked first: repeated calls for a known name return
// the stored identity (possibly empty, if an earlier remote lookup
// failed) without re-querying the source. On a miss, a placeholder
// record is inserted and saved before the remote call, so the name is
// durably recorded even if the lookup fails or the process dies
// mid-flight. The first remote match wins; no match leaves the identity
// empty, which downstream stages treat as "unresolved", not a crash.
func (b *Builder) Resolve(ctx context.Context, name string) (identity, canonicalName string, err error) {
	if registry.NormalizeName(name) == "" {
		return "", "", fmt.Errorf("%w: author name is empty", ErrInvalidInput)
	}

	if rec, ok := b.Registry.FindByName(name); ok {
		return rec.Identity, rec.DisplayName, nil
	}

	placeholder := registry.AuthorRecord{
		DisplayName: name,
		Institution: b.Institution,
	}
	if err := b.Registry.Upsert(placeholder); err != nil {
		return "", "", fmt.Errorf("recording %q: %w", name, err)
	}
	if err := b.Registry.Save(); err != nil {
		return "", "", fmt.Errorf("saving roster for %q: %w", name, err)
	}

	authors, err := b.Source.SearchAuthors(ctx, name, b.InstitutionID)
	if err != nil {
		// The placeholder stays; resolution can be retried later.
		return "", name, fmt.Errorf("%w: searching for %q: %v", ErrSourceUnavailable, name, err)
	}

	if len(authors) > 0 {
		placeholder.Identity = authors[0].ID
	}

	if err := b.Registry.Upsert(placeholder); err != nil {
		return "", "", fmt.Errorf("recording identity for %q: %w", name, err)
	}
	if err := b.Registry.Save(); err != nil {
		return "", "", fmt.Errorf("saving roster for %q: %w", name, err)
	}

	return placeholder.Identity, name, nil
}

// ResolveByID records an author whose identity the operator already
// knows, skipping the remote search. Dedup rules match Resolve: an
// existing record for the identity (or unresolved record for the name)
// is returned as-is.
func (b *Builder) ResolveByID(identity, name string) (registry.AuthorRecord, error) {
	if identity == "" || registry.NormalizeName(name) == "" {
		return registry.AuthorRecord{}, fmt.Errorf("%w: identity and name are both required", ErrInvalidInput)
	}

	if rec, ok := b.Registry.FindByIdentity(identity); ok {
		return rec, nil
	}

	rec := registry.AuthorRecord{
		Identity:    identity,
		DisplayName: name,
		Institution: b.Institution,
	}
	if err := b.Registry.Upsert(rec); err != nil {
		return registry.AuthorRecord{}, fmt.Errorf("recording %q: %w", name, err)
	}
	if err := b.Registry.Save(); err != nil {
		return registry.AuthorRecord{}, fmt.Errorf("saving roster for %q: %w", name, err)
	}
	return rec, nil
}
