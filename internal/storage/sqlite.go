package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/climatescout/profiler/internal/archive"
	"github.com/climatescout/profiler/internal/registry"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite mirror of the JSONL stores. The JSONL files stay the
// source of truth; the mirror exists for ad-hoc querying and is rebuilt
// wholesale, never written incrementally.
type DB struct {
	db *sql.DB
}

const selectPaperFields = `p.id, p.author_id, a.name, p.doi, p.title, p.abstract,
	p.topic_id, p.pub_year, p.cited_by_count, p.citations_per_year, p.is_corresponding`

// OpenDB opens or creates the mirror database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		-- Author roster. identity is empty for unresolved placeholders,
		-- so uniqueness is only enforced where it is set.
		CREATE TABLE IF NOT EXISTS authors (
			identity TEXT,
			name TEXT NOT NULL,
			institution TEXT,
			email TEXT,
			profile TEXT,
			feedback TEXT,
			profile_revised TEXT,
			feedback_status TEXT NOT NULL,
			tags_json TEXT,
			tags_text TEXT
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_authors_identity
			ON authors(identity) WHERE identity != '';

		CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			author_id TEXT NOT NULL,
			doi TEXT,
			title TEXT NOT NULL,
			abstract TEXT,
			topic_id TEXT,
			pub_year INTEGER NOT NULL,
			cited_by_count INTEGER NOT NULL,
			citations_per_year REAL NOT NULL,
			is_corresponding INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_papers_author ON papers(author_id);

		-- Full-text search over papers (standalone, not external content)
		CREATE VIRTUAL TABLE IF NOT EXISTS papers_fts USING fts5(
			id,
			title,
			abstract,
			author_name
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromStores clears the mirror and repopulates it from the roster
// and the paper archive. Returns the number of authors and papers loaded.
func (d *DB) RebuildFromStores(reg *registry.Registry, arc *archive.Archive) (int, int, error) {
	for _, table := range []string{"authors", "papers", "papers_fts"} {
		if _, err := d.db.Exec("DELETE FROM " + table); err != nil {
			return 0, 0, fmt.Errorf("clearing %s table: %w", table, err)
		}
	}

	authorStmt, err := d.db.Prepare(`
		INSERT INTO authors (
			identity, name, institution, email,
			profile, feedback, profile_revised, feedback_status,
			tags_json, tags_text
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing authors insert: %w", err)
	}
	defer authorStmt.Close()

	names := make(map[string]string, reg.Len())
	for _, rec := range reg.All() {
		var tagsJSON []byte
		if len(rec.Tags) > 0 {
			tagsJSON, err = json.Marshal(rec.Tags)
			if err != nil {
				return 0, 0, fmt.Errorf("marshaling tags for %s: %w", rec.DisplayName, err)
			}
		}
		_, err = authorStmt.Exec(
			rec.Identity, rec.DisplayName,
			nullableStringValue(rec.Institution), nullableStringValue(rec.Contact),
			nullableStringValue(rec.ProfileText), nullableStringValue(rec.FeedbackText),
			nullableStringValue(rec.ProfileRevised), string(rec.Status()),
			nullableString(tagsJSON), nullableStringValue(strings.Join(rec.Tags, ", ")),
		)
		if err != nil {
			return 0, 0, fmt.Errorf("inserting author %s: %w", rec.DisplayName, err)
		}
		if rec.Identity != "" {
			names[rec.Identity] = rec.DisplayName
		}
	}

	paperStmt, err := d.db.Prepare(`
		INSERT INTO papers (
			id, author_id, doi, title, abstract, topic_id,
			pub_year, cited_by_count, citations_per_year, is_corresponding
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing papers insert: %w", err)
	}
	defer paperStmt.Close()

	ftsStmt, err := d.db.Prepare(`
		INSERT INTO papers_fts (id, title, abstract, author_name)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	papers := 0
	for _, entry := range arc.All() {
		authorName := entry.AuthorName
		if n, ok := names[entry.AuthorID]; ok {
			authorName = n
		}
		for _, p := range entry.Papers {
			_, err = paperStmt.Exec(
				p.ID, entry.AuthorID,
				nullableStringValue(p.DOI), p.Title, nullableStringValue(p.Abstract),
				nullableStringValue(p.TopicID),
				p.PublicationYear, p.CitedByCount, p.CitationsPerYr, boolToInt(p.IsCorresponding),
			)
			if err != nil {
				return 0, 0, fmt.Errorf("inserting paper %s: %w", p.ID, err)
			}
			if _, err = ftsStmt.Exec(p.ID, p.Title, p.Abstract, authorName); err != nil {
				return 0, 0, fmt.Errorf("inserting fts for %s: %w", p.ID, err)
			}
			papers++
		}
	}

	return reg.Len(), papers, nil
}

// PaperRow is a paper joined with its author's display name.
type PaperRow struct {
	ID              string  `json:"id"`
	AuthorID        string  `json:"author_id"`
	AuthorName      string  `json:"author_name"`
	DOI             string  `json:"doi,omitempty"`
	Title           string  `json:"title"`
	Abstract        string  `json:"abstract,omitempty"`
	TopicID         string  `json:"topic_id,omitempty"`
	PublicationYear int     `json:"publication_year"`
	CitedByCount    int     `json:"cited_by_count"`
	CitationsPerYr  float64 `json:"citations_per_year"`
	IsCorresponding bool    `json:"is_corresponding_author"`
}

// SearchFilters contains optional filters for SearchPapers. All specified
// criteria must match (AND logic).
type SearchFilters struct {
	Keyword       string  // FTS across title, abstract, author name
	Author        string  // FTS on author name, prefix matched
	Title         string  // FTS on title only
	Tag           string  // Author tag, substring match
	YearFrom      int     // Minimum publication year (0 = no minimum)
	YearTo        int     // Maximum publication year (0 = no maximum)
	MinCitesPerYr float64 // Minimum citations per year (0 = no minimum)
	Corresponding bool    // Only papers where the author is corresponding
}

// SearchPapers returns papers matching all specified filters.
func (d *DB) SearchPapers(filters SearchFilters, limit int) ([]PaperRow, error) {
	var ftsTerms []string
	var args []interface{}

	if filters.Keyword != "" {
		ftsTerms = append(ftsTerms, prepareFTSQuery(filters.Keyword))
	}
	if filters.Title != "" {
		ftsTerms = append(ftsTerms, "title:"+prepareFTSQuery(filters.Title))
	}
	if filters.Author != "" {
		ftsTerms = append(ftsTerms, "author_name:"+prepareAuthorQuery(filters.Author))
	}

	query := `SELECT ` + selectPaperFields + `
		FROM papers p
		JOIN authors a ON a.identity = p.author_id`
	if len(ftsTerms) > 0 {
		query += ` WHERE p.id IN (SELECT id FROM papers_fts WHERE papers_fts MATCH ?)`
		args = append(args, strings.Join(ftsTerms, " AND "))
	} else {
		query += ` WHERE 1=1`
	}

	if filters.Tag != "" {
		query += " AND a.tags_text LIKE ?"
		args = append(args, "%"+filters.Tag+"%")
	}
	if filters.YearFrom > 0 {
		query += " AND p.pub_year >= ?"
		args = append(args, filters.YearFrom)
	}
	if filters.YearTo > 0 {
		query += " AND p.pub_year <= ?"
		args = append(args, filters.YearTo)
	}
	if filters.MinCitesPerYr > 0 {
		query += " AND p.citations_per_year >= ?"
		args = append(args, filters.MinCitesPerYr)
	}
	if filters.Corresponding {
		query += " AND p.is_corresponding = 1"
	}

	query += " ORDER BY p.citations_per_year DESC LIMIT ?"
	args = append(args, limit)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching papers: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// AuthorPapers returns the archived papers for one author, most cited
// per year first.
func (d *DB) AuthorPapers(authorID string) ([]PaperRow, error) {
	rows, err := d.db.Query(`
		SELECT `+selectPaperFields+`
		FROM papers p
		JOIN authors a ON a.identity = p.author_id
		WHERE p.author_id = ?
		ORDER BY p.citations_per_year DESC`, authorID)
	if err != nil {
		return nil, fmt.Errorf("listing papers for %s: %w", authorID, err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// Stats summarizes the mirror's contents.
type Stats struct {
	Authors    int `json:"authors"`
	Resolved   int `json:"resolved"`
	Profiled   int `json:"profiled"`
	Accepted   int `json:"accepted"`
	InRevision int `json:"in_revision"`
	Papers     int `json:"papers"`
}

// Summary returns counts across both tables.
func (d *DB) Summary() (Stats, error) {
	var s Stats
	row := d.db.QueryRow(`
		SELECT COUNT(*),
			COUNT(CASE WHEN identity != '' THEN 1 END),
			COUNT(profile),
			COUNT(CASE WHEN feedback_status = 'accepted' THEN 1 END),
			COUNT(CASE WHEN feedback_status = 'revision_requested' THEN 1 END)
		FROM authors`)
	if err := row.Scan(&s.Authors, &s.Resolved, &s.Profiled, &s.Accepted, &s.InRevision); err != nil {
		return Stats{}, fmt.Errorf("counting authors: %w", err)
	}
	if err := d.db.QueryRow("SELECT COUNT(*) FROM papers").Scan(&s.Papers); err != nil {
		return Stats{}, fmt.Errorf("counting papers: %w", err)
	}
	return s, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPaper(s scanner) (*PaperRow, error) {
	var p PaperRow
	var doi, abstract, topicID sql.NullString
	var corresponding int

	err := s.Scan(
		&p.ID, &p.AuthorID, &p.AuthorName, &doi, &p.Title, &abstract,
		&topicID, &p.PublicationYear, &p.CitedByCount, &p.CitationsPerYr, &corresponding,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	p.DOI = doi.String
	p.Abstract = abstract.String
	p.TopicID = topicID.String
	p.IsCorresponding = corresponding != 0

	return &p, nil
}

func scanPapers(rows *sql.Rows) ([]PaperRow, error) {
	var papers []PaperRow
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		if p != nil {
			papers = append(papers, *p)
		}
	}
	return papers, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(b []byte) sql.NullString {
	if len(b) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	if strings.ContainsAny(query, "\"*+-:(){}[]^~") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}

// prepareAuthorQuery prepares an author name for FTS5 search with prefix
// matching, so "Tim" matches "Timothy".
func prepareAuthorQuery(author string) string {
	author = strings.TrimSpace(author)
	if author == "" {
		return author
	}

	parts := strings.Fields(author)
	var terms []string
	for _, part := range parts {
		escaped := strings.ReplaceAll(part, "\"", "\"\"")
		terms = append(terms, "\""+escaped+"\"*")
	}

	return "(" + strings.Join(terms, " OR ") + ")"
}
