// Package profile turns an author's cached papers into a short
// natural-language profile with classification tags, and folds reviewer
// feedback into revised profiles. It never touches persisted state;
// callers own the write path.
package profile

import (
	"context"
	"strings"

	"github.com/climatescout/profiler/internal/archive"
)

// MaxSourcePapers bounds how many papers feed a single prompt.
const MaxSourcePapers = 10

// Completer is the generative-model dependency: one system instruction,
// one user prompt, one text response.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Synthesizer generates and revises researcher profiles.
type Synthesizer struct {
	model Completer
}

// NewSynthesizer creates a Synthesizer backed by the given model.
func NewSynthesizer(model Completer) *Synthesizer {
	return &Synthesizer{model: model}
}

// SelectSources picks the papers that feed the prompt: the first
// MaxSourcePapers in archive order whose abstract is non-empty.
func SelectSources(papers []archive.PaperRecord) []archive.PaperRecord {
	var selected []archive.PaperRecord
	for _, p := range papers {
		if strings.TrimSpace(p.Abstract) == "" {
			continue
		}
		selected = append(selected, p)
		if len(selected) == MaxSourcePapers {
			break
		}
	}
	return selected
}

// Synthesize writes a fresh profile for an author from their papers.
//
// With no usable abstracts it returns the fixed fallback text and nil
// tags without calling the model. Otherwise the returned text is the
// model output verbatim (marker line included, so re-parsing the stored
// profile yields the same tags), and tags are parsed from the marker.
func (s *Synthesizer) Synthesize(ctx context.Context, authorName string, papers []archive.PaperRecord) (string, []string, error) {
	sources := SelectSources(papers)
	if len(sources) == 0 {
		return FallbackText(authorName), nil, nil
	}

	text, err := s.model.Complete(ctx, systemPrompt, buildSynthesisPrompt(authorName, sources))
	if err != nil {
		return "", nil, err
	}

	return text, ParseTags(text), nil
}

// Regenerate merges reviewer feedback into an existing profile. Pure
// with respect to persisted state: the caller decides what to store.
func (s *Synthesizer) Regenerate(ctx context.Context, existingProfile, feedback string) (string, error) {
	return s.model.Complete(ctx, systemPrompt, buildRevisionPrompt(existingProfile, feedback))
}

// ParseTags extracts classification tags from profile text by locating
// the literal marker; everything after it is split on commas and
// trimmed. A missing marker yields nil; that is a format deviation from
// the model, not a failure.
func ParseTags(text string) []string {
	idx := strings.Index(text, TagMarker)
	if idx == -1 {
		return nil
	}

	rest := strings.TrimSpace(text[idx+len(TagMarker):])

	var tags []string
	for _, part := range strings.Split(rest, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
