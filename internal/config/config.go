// Package config handles workspace and global configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config represents workspace configuration stored in .profiler/config.json.
type Config struct {
	// InstitutionID is the OpenAlex institution the author search is
	// constrained to. Defaults to Imperial College London.
	InstitutionID string `json:"institution_id"`

	// ReferenceYear is the fixed horizon used for the citations-per-year
	// metric. It is deliberately not "now" so the metric stays comparable
	// across runs.
	ReferenceYear int `json:"reference_year"`

	// Institution is the free-text institution name recorded on new
	// author records (never validated).
	Institution string `json:"institution,omitempty"`
}

const (
	ProfilerDir = ".profiler"
	ConfigFile  = "config.json"
	AuthorsFile = "authors.jsonl"
	PapersFile  = "papers.jsonl"
	CacheDir    = "cache"
	DBFile      = "profiler.db"
)

// Defaults applied by Init and by Load when a field is unset.
const (
	DefaultInstitutionID = "https://openalex.org/I47508984"
	DefaultReferenceYear = 2026
	DefaultInstitution   = "Imperial College London"
)

// ProfilerPath returns the path to the .profiler directory from a root path.
func ProfilerPath(root string) string {
	return filepath.Join(root, ProfilerDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, ProfilerDir, ConfigFile)
}

// AuthorsPath returns the path to authors.jsonl from a root path.
func AuthorsPath(root string) string {
	return filepath.Join(root, ProfilerDir, AuthorsFile)
}

// PapersPath returns the path to papers.jsonl from a root path.
func PapersPath(root string) string {
	return filepath.Join(root, ProfilerDir, PapersFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, ProfilerDir, CacheDir)
}

// DBPath returns the path to the SQLite mirror from a root path.
func DBPath(root string) string {
	return filepath.Join(root, ProfilerDir, CacheDir, DBFile)
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		InstitutionID: DefaultInstitutionID,
		ReferenceYear: DefaultReferenceYear,
		Institution:   DefaultInstitution,
	}
}

// IsWorkspace checks if the given path contains a profiler workspace.
func IsWorkspace(root string) bool {
	info, err := os.Stat(ProfilerPath(root))
	return err == nil && info.IsDir()
}

// FindWorkspace walks up from the given path to find a profiler workspace.
// Returns the workspace root path or an error if not found.
func FindWorkspace(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsWorkspace(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a profiler workspace (no .profiler directory found)")
		}
		abs = parent
	}
}

// Load reads configuration from the workspace at the given root.
// Missing fields fall back to defaults.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.InstitutionID == "" {
		cfg.InstitutionID = DefaultInstitutionID
	}
	if cfg.ReferenceYear == 0 {
		cfg.ReferenceYear = DefaultReferenceYear
	}

	return &cfg, nil
}

// Save writes configuration to the workspace at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
