package builder

import (
	"context"
	"fmt"

	"github.com/climatescout/profiler/internal/archive"
)

// Ingest fetches and archives an author's qualifying publications.
//
// Already-archived authors are an idempotent no-op: the cached papers
// come back unchanged and nothing is re-fetched. Otherwise the source is
// paginated to exhaustion and the archive entry is written only once the
// complete set is in hand, never partially. Zero matching papers is a
// valid outcome, not an error; the author still gets an (empty) entry.
func (b *Builder) Ingest(ctx context.Context, authorID, authorName string) ([]archive.PaperRecord, int, error) {
	if authorID == "" {
		return nil, 0, fmt.Errorf("%w: author %q has no resolved identity", ErrInvalidInput, authorName)
	}

	if entry, ok := b.Archive.Get(authorID); ok {
		return entry.Papers, len(entry.Papers), nil
	}

	works, err := b.Source.ListAuthorWorks(ctx, authorID)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: fetching papers for %s (%s): %v", ErrSourceUnavailable, authorName, authorID, err)
	}

	papers := make([]archive.PaperRecord, 0, len(works))
	for _, w := range works {
		papers = append(papers, archive.PaperRecord{
			ID:              w.ID,
			DOI:             w.DOI,
			Title:           w.Title,
			Abstract:        w.Abstract(),
			TopicID:         w.TopicID(),
			PublicationYear: w.PublicationYear,
			CitedByCount:    w.CitedByCount,
			CitationsPerYr:  archive.CitationsPerYear(w.CitedByCount, w.PublicationYear, b.ReferenceYear),
			IsCorresponding: w.HasCorrespondingAuthor(authorID),
		})
	}

	entry := archive.Entry{
		AuthorID:   authorID,
		AuthorName: authorName,
		Papers:     papers,
	}
	if err := b.Archive.Put(entry); err != nil {
		return nil, 0, fmt.Errorf("archiving papers for %s: %w", authorName, err)
	}
	if err := b.Archive.Save(); err != nil {
		return nil, 0, fmt.Errorf("saving archive for %s: %w", authorName, err)
	}

	return papers, len(papers), nil
}
