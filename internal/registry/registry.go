package registry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// MaxLineCapacity is the maximum buffer size for reading JSONL lines.
const MaxLineCapacity = 1024 * 1024

// Registry owns the loaded author roster and its persistence boundary.
// The whole table is rewritten to disk on every Save; there is no
// write-ahead log. Single-operator, single-process use is assumed.
type Registry struct {
	path    string
	records []AuthorRecord

	// quarantined is the path the corrupt roster file was moved to
	// during Load, or "" if the file was readable.
	quarantined string

	// duplicatesDropped counts records dropped on Load because another
	// record already claimed the same identity.
	duplicatesDropped int
}

// Load reads the roster from a JSONL file. A missing file yields an
// empty registry. A file that cannot be parsed is quarantined: it is
// moved aside to <path>.corrupt and an empty registry is returned, so a
// damaged store never prevents startup. Quarantined() reports where the
// damaged file went.
func Load(path string) (*Registry, error) {
	r := &Registry{path: path}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("opening roster: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	buf := make([]byte, MaxLineCapacity)
	scanner.Buffer(buf, MaxLineCapacity)

	var records []AuthorRecord
	seen := make(map[string]bool)
	dropped := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec AuthorRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			f.Close()
			return quarantine(path, r)
		}
		// Duplicate identities violate the roster invariant; keep the
		// first record, drop the rest.
		if rec.Identity != "" {
			if seen[rec.Identity] {
				dropped++
				continue
			}
			seen[rec.Identity] = true
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}

	r.records = records
	r.duplicatesDropped = dropped
	return r, nil
}

// quarantine moves a corrupt roster file aside and returns an empty
// registry pointing at the original path.
func quarantine(path string, r *Registry) (*Registry, error) {
	corrupt := path + ".corrupt"
	if err := os.Rename(path, corrupt); err != nil {
		return nil, fmt.Errorf("quarantining corrupt roster: %w", err)
	}
	r.records = nil
	r.quarantined = corrupt
	return r, nil
}

// Path returns the file the registry persists to.
func (r *Registry) Path() string { return r.path }

// Quarantined returns the path the corrupt roster file was moved to on
// load, or "" if the roster was intact.
func (r *Registry) Quarantined() string { return r.quarantined }

// DuplicatesDropped returns the number of duplicate-identity records
// discarded on load.
func (r *Registry) DuplicatesDropped() int { return r.duplicatesDropped }

// Len returns the number of records.
func (r *Registry) Len() int { return len(r.records) }

// All returns a copy of all records in roster order.
func (r *Registry) All() []AuthorRecord {
	out := make([]AuthorRecord, len(r.records))
	copy(out, r.records)
	return out
}

// FindByIdentity returns the record with the given identity.
func (r *Registry) FindByIdentity(identity string) (AuthorRecord, bool) {
	if identity == "" {
		return AuthorRecord{}, false
	}
	for i := range r.records {
		if r.records[i].Identity == identity {
			return r.records[i], true
		}
	}
	return AuthorRecord{}, false
}

// FindByName returns the first record whose display name matches after
// normalization.
func (r *Registry) FindByName(name string) (AuthorRecord, bool) {
	want := NormalizeName(name)
	if want == "" {
		return AuthorRecord{}, false
	}
	for i := range r.records {
		if NormalizeName(r.records[i].DisplayName) == want {
			return r.records[i], true
		}
	}
	return AuthorRecord{}, false
}

// Upsert inserts or updates a record.
//
// The key is the identity when non-empty. When the identity key misses,
// a normalized-name match takes over so that a placeholder inserted
// before resolution ("name known, identity not yet") is filled in rather
// than duplicated. Records with the same name but different resolved
// identities are distinct people and stay separate rows.
//
// Post-condition: at most one record matches rec.Identity.
func (r *Registry) Upsert(rec AuthorRecord) error {
	if NormalizeName(rec.DisplayName) == "" {
		return fmt.Errorf("record has empty display name")
	}

	if rec.Identity != "" {
		for i := range r.records {
			if r.records[i].Identity == rec.Identity {
				r.records[i] = rec
				return nil
			}
		}
	}

	want := NormalizeName(rec.DisplayName)
	for i := range r.records {
		if NormalizeName(r.records[i].DisplayName) != want {
			continue
		}
		existing := r.records[i].Identity
		if existing == "" || existing == rec.Identity {
			r.records[i] = rec
			return nil
		}
		// Same name, different resolved identity: another person.
	}

	r.records = append(r.records, rec)
	return nil
}

// Save rewrites the whole roster file. Callers invoke this after every
// mutation so the persisted store and the in-memory view never diverge
// across a process restart.
func (r *Registry) Save() error {
	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("creating roster file: %w", err)
	}
	defer f.Close()

	for i := range r.records {
		data, err := json.Marshal(&r.records[i])
		if err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
		if _, err := f.WriteString("\n"); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}

	return nil
}
