// Package archive caches the papers fetched for each author. An author's
// entry is written once, after a complete fetch, and never re-fetched.
package archive

import "math"

// PaperRecord holds the metadata kept for one publication.
type PaperRecord struct {
	ID              string  `json:"id"`
	DOI             string  `json:"doi,omitempty"`
	Title           string  `json:"title"`
	Abstract        string  `json:"abstract,omitempty"`
	TopicID         string  `json:"topic_id,omitempty"`
	PublicationYear int     `json:"publication_year"`
	CitedByCount    int     `json:"cited_by_count"`
	CitationsPerYr  float64 `json:"citations_per_year"`
	IsCorresponding bool    `json:"is_corresponding_author"`
}

// Entry is the cached paper set for one author. Papers keep the order
// the source returned them in.
type Entry struct {
	AuthorID   string        `json:"author_id"`
	AuthorName string        `json:"name"`
	Papers     []PaperRecord `json:"papers"`
}

// CitationsPerYear computes citations normalized by paper age against a
// fixed reference year, rounded to two decimals. The reference year is a
// deliberate forward-looking constant, not the current date, so the
// metric is comparable across runs. The max(...,1) floor guards papers
// published in (or after) the reference year.
func CitationsPerYear(citedByCount, publicationYear, referenceYear int) float64 {
	years := referenceYear - publicationYear
	if years < 1 {
		years = 1
	}
	return math.Round(float64(citedByCount)/float64(years)*100) / 100
}
