// Package builder orchestrates the profile lifecycle pipeline: identity
// resolution, paper ingestion, profile synthesis, and the feedback loop.
// It owns all writes to the roster and the paper archive; every mutating
// operation saves before returning so the persisted stores never diverge
// from memory across a restart.
package builder

import (
	"context"

	"github.com/climatescout/profiler/internal/archive"
	"github.com/climatescout/profiler/internal/openalex"
	"github.com/climatescout/profiler/internal/registry"
)

// Source is the bibliographic backend: author search constrained to an
// institution, and exhaustive listing of an author's works.
type Source interface {
	SearchAuthors(ctx context.Context, name, institutionID string) ([]openalex.Author, error)
	ListAuthorWorks(ctx context.Context, authorID string) ([]openalex.Work, error)
}

// Generator produces and revises profile text.
type Generator interface {
	Synthesize(ctx context.Context, authorName string, papers []archive.PaperRecord) (string, []string, error)
	Regenerate(ctx context.Context, existingProfile, feedback string) (string, error)
}

// Builder wires the pipeline together. All operations are synchronous;
// the operator is waiting on the other end.
type Builder struct {
	Registry *registry.Registry
	Archive  *archive.Archive
	Source   Source
	Gen      Generator

	// InstitutionID constrains identity resolution to one affiliation.
	InstitutionID string

	// Institution is the free-text affiliation recorded on new records.
	Institution string

	// ReferenceYear is the fixed horizon for citations-per-year.
	ReferenceYear int
}

// lookup finds a roster record by identity first, then by normalized
// name. The key string is whatever the operator typed.
func (b *Builder) lookup(key string) (registry.AuthorRecord, bool) {
	if rec, ok := b.Registry.FindByIdentity(key); ok {
		return rec, true
	}
	return b.Registry.FindByName(key)
}

// Find returns the roster record matching an identity or name.
func (b *Builder) Find(key string) (registry.AuthorRecord, bool) {
	return b.lookup(key)
}
