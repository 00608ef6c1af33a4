package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/climatescout/profiler/internal/profile"
	"github.com/climatescout/profiler/internal/registry"
)

// Accept marks an author's generated profile as accepted as-is. Terminal
// for the feedback state machine; repeated accepts are a no-op.
func (b *Builder) Accept(key string) (registry.AuthorRecord, error) {
	rec, ok := b.lookup(key)
	if !ok {
		return registry.AuthorRecord{}, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	if rec.ProfileText == "" {
		return registry.AuthorRecord{}, fmt.Errorf("%w for %s", ErrNoProfile, rec.DisplayName)
	}

	if rec.Status() == registry.FeedbackAccepted {
		return rec, nil
	}

	rec.FeedbackStatus = registry.FeedbackAccepted
	if err := b.Registry.Upsert(rec); err != nil {
		return registry.AuthorRecord{}, fmt.Errorf("recording acceptance for %s: %w", rec.DisplayName, err)
	}
	if err := b.Registry.Save(); err != nil {
		return registry.AuthorRecord{}, fmt.Errorf("saving roster for %s: %w", rec.DisplayName, err)
	}
	return rec, nil
}

// Revise folds reviewer feedback into a revised profile.
//
// The generated profile is never overwritten; the revision lands in its
// own field, and later feedback may overwrite that revision again. On
// generation failure the record is left exactly as it was; the feedback
// text is not even recorded, so a retry starts clean.
func (b *Builder) Revise(ctx context.Context, key, feedback string) (registry.AuthorRecord, error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return registry.AuthorRecord{}, fmt.Errorf("%w: feedback text is empty", ErrInvalidInput)
	}
	if len(feedback) > registry.MaxFeedbackLen {
		return registry.AuthorRecord{}, fmt.Errorf("%w: feedback exceeds %d characters", ErrInvalidInput, registry.MaxFeedbackLen)
	}

	rec, ok := b.lookup(key)
	if !ok {
		return registry.AuthorRecord{}, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	if rec.ProfileText == "" {
		return registry.AuthorRecord{}, fmt.Errorf("%w for %s", ErrNoProfile, rec.DisplayName)
	}

	revised, err := b.Gen.Regenerate(ctx, rec.ProfileText, feedback)
	if err != nil {
		return registry.AuthorRecord{}, fmt.Errorf("%w: revising profile for %s: %v", ErrGenerationUnavailable, rec.DisplayName, err)
	}

	rec.FeedbackText = feedback
	rec.ProfileRevised = revised
	rec.FeedbackStatus = registry.FeedbackRevisionRequested
	rec.Tags = pickTags(revised, rec.Tags)

	if err := b.Registry.Upsert(rec); err != nil {
		return registry.AuthorRecord{}, fmt.Errorf("storing revision for %s: %w", rec.DisplayName, err)
	}
	if err := b.Registry.Save(); err != nil {
		return registry.AuthorRecord{}, fmt.Errorf("saving roster for %s: %w", rec.DisplayName, err)
	}
	return rec, nil
}

// pickTags reparses tags from revised text, keeping the old tags when
// the model dropped the marker line.
func pickTags(revised string, old []string) []string {
	if tags := profile.ParseTags(revised); len(tags) > 0 {
		return tags
	}
	return old
}
