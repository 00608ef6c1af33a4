package openalex

import "sort"

// Author is the subset of the OpenAlex author object the pipeline uses.
type Author struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Work is the subset of the OpenAlex work object the pipeline uses.
// OpenAlex does not ship abstracts as plain text; they arrive as an
// inverted index and are reconstructed client-side.
type Work struct {
	ID                    string           `json:"id"`
	DOI                   string           `json:"doi"`
	Title                 string           `json:"title"`
	PublicationYear       int              `json:"publication_year"`
	CitedByCount          int              `json:"cited_by_count"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
	PrimaryTopic          *Topic           `json:"primary_topic"`
	CorrespondingAuthors  []string         `json:"corresponding_author_ids"`
}

// Topic identifies a work's primary topic.
type Topic struct {
	ID string `json:"id"`
}

// Abstract reconstructs the plain-text abstract from the inverted index.
// Returns "" when the work has none.
func (w *Work) Abstract() string {
	return ReconstructAbstract(w.AbstractInvertedIndex)
}

// TopicID returns the primary topic ID, or "" if the work has none.
func (w *Work) TopicID() string {
	if w.PrimaryTopic == nil {
		return ""
	}
	return w.PrimaryTopic.ID
}

// HasCorrespondingAuthor reports whether the given author ID appears in
// the work's corresponding-author list.
func (w *Work) HasCorrespondingAuthor(authorID string) bool {
	for _, id := range w.CorrespondingAuthors {
		if id == authorID {
			return true
		}
	}
	return false
}

// ReconstructAbstract rebuilds an abstract from OpenAlex's inverted
// index (word -> positions). Positions are zero-based and dense enough
// in practice that simple position sorting restores the original text.
func ReconstructAbstract(index map[string][]int) string {
	if len(index) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var words []posWord
	for word, positions := range index {
		for _, p := range positions {
			words = append(words, posWord{pos: p, word: word})
		}
	}
	sort.Slice(words, func(i, j int) bool { return words[i].pos < words[j].pos })

	buf := make([]byte, 0, len(words)*8)
	for i, w := range words {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, w.word...)
	}
	return string(buf)
}

// meta is the pagination envelope common to list responses.
type meta struct {
	Count      int    `json:"count"`
	NextCursor string `json:"next_cursor"`
}

type authorsResponse struct {
	Meta    meta     `json:"meta"`
	Results []Author `json:"results"`
}

type worksResponse struct {
	Meta    meta   `json:"meta"`
	Results []Work `json:"results"`
}
