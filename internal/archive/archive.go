package archive

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// MaxLineCapacity is the maximum buffer size for reading JSONL lines.
// Prolific authors produce long lines.
const MaxLineCapacity = 4 * 1024 * 1024

// Archive owns the cached paper sets and their persistence boundary.
// Entries are append-only at the top level; the file is fully rewritten
// on every change.
type Archive struct {
	path        string
	entries     []Entry
	quarantined string
}

// Load reads the archive from a JSONL file. A missing file yields an
// empty archive. A file that cannot be parsed is moved aside to
// <path>.corrupt and an empty archive is returned; Quarantined() reports
// where the damaged file went.
func Load(path string) (*Archive, error) {
	a := &Archive{path: path}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return a, nil
		}
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	buf := make([]byte, MaxLineCapacity)
	scanner.Buffer(buf, MaxLineCapacity)

	var entries []Entry
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			f.Close()
			corrupt := path + ".corrupt"
			if err := os.Rename(path, corrupt); err != nil {
				return nil, fmt.Errorf("quarantining corrupt archive: %w", err)
			}
			a.entries = nil
			a.quarantined = corrupt
			return a, nil
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	a.entries = entries
	return a, nil
}

// Path returns the file the archive persists to.
func (a *Archive) Path() string { return a.path }

// Quarantined returns the path the corrupt archive file was moved to on
// load, or "" if the archive was intact.
func (a *Archive) Quarantined() string { return a.quarantined }

// Len returns the number of archived authors.
func (a *Archive) Len() int { return len(a.entries) }

// Has reports whether an author is already archived.
func (a *Archive) Has(authorID string) bool {
	_, ok := a.Get(authorID)
	return ok
}

// Get returns the entry for an author.
func (a *Archive) Get(authorID string) (Entry, bool) {
	if authorID == "" {
		return Entry{}, false
	}
	for i := range a.entries {
		if a.entries[i].AuthorID == authorID {
			return a.entries[i], true
		}
	}
	return Entry{}, false
}

// All returns a copy of all entries in archive order.
func (a *Archive) All() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Put appends an entry for an author not yet archived. Archived entries
// are immutable; re-ingesting an author is the caller's idempotent no-op,
// so a Put for an existing author is a programming error.
func (a *Archive) Put(e Entry) error {
	if e.AuthorID == "" {
		return fmt.Errorf("entry has empty author identity")
	}
	if a.Has(e.AuthorID) {
		return fmt.Errorf("author %s already archived", e.AuthorID)
	}
	a.entries = append(a.entries, e)
	return nil
}

// Save rewrites the whole archive file.
func (a *Archive) Save() error {
	f, err := os.Create(a.path)
	if err != nil {
		return fmt.Errorf("creating archive file: %w", err)
	}
	defer f.Close()

	for i := range a.entries {
		data, err := json.Marshal(&a.entries[i])
		if err != nil {
			return fmt.Errorf("encoding entry %d: %w", i, err)
		}
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
		if _, err := f.WriteString("\n"); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}

	return nil
}
