// Package integration provides integration tests for profiler commands.
package integration

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

var (
	profilerBinary     string
	profilerBinaryOnce sync.Once
	profilerBinaryErr  error
)

// getProfilerBinary builds the profiler binary once and returns its path.
func getProfilerBinary(t *testing.T) string {
	t.Helper()
	profilerBinaryOnce.Do(func() {
		// Get module root directory
		_, filename, _, ok := runtime.Caller(0)
		if !ok {
			profilerBinaryErr = os.ErrInvalid
			return
		}
		moduleRoot := filepath.Dir(filepath.Dir(filepath.Dir(filename)))

		// Build profiler to a temp location
		tmpDir, err := os.MkdirTemp("", "profiler-test-*")
		if err != nil {
			profilerBinaryErr = err
			return
		}
		profilerBinary = filepath.Join(tmpDir, "profiler")

		cmd := exec.Command("go", "build", "-o", profilerBinary, "./cmd/profiler")
		cmd.Dir = moduleRoot
		if output, err := cmd.CombinedOutput(); err != nil {
			profilerBinaryErr = &buildError{output: string(output), err: err}
			return
		}
	})
	if profilerBinaryErr != nil {
		t.Fatalf("failed to build profiler: %v", profilerBinaryErr)
	}
	return profilerBinary
}

type buildError struct {
	output string
	err    error
}

func (e *buildError) Error() string {
	return e.err.Error() + ": " + e.output
}

// setupTestWorkspace creates a minimal profiler workspace with seeded stores.
// The global config under <workspace>/config points workspace_path at it.
func setupTestWorkspace(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	pfDir := filepath.Join(tmpDir, ".profiler")
	if err := os.MkdirAll(filepath.Join(pfDir, "cache"), 0755); err != nil {
		t.Fatal(err)
	}

	configContent := `{"institution_id":"https://openalex.org/I47508984","reference_year":2026,"institution":"Imperial College London"}`
	if err := os.WriteFile(filepath.Join(pfDir, "config.json"), []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	authorsContent := `{"identity":"https://openalex.org/A1","name":"Ada Lovelace","institution":"Imperial College London","profile":"Ada works on direct air capture. Relevant climate challenges: Carbon capture","tags":["Carbon capture"]}
{"name":"Unresolved Person","institution":"Imperial College London"}
`
	if err := os.WriteFile(filepath.Join(pfDir, "authors.jsonl"), []byte(authorsContent), 0644); err != nil {
		t.Fatal(err)
	}

	papersContent := `{"author_id":"https://openalex.org/A1","name":"Ada Lovelace","papers":[{"id":"https://openalex.org/W1","title":"Direct Air Capture at Scale","abstract":"Capturing carbon from ambient air.","publication_year":2020,"cited_by_count":60,"citations_per_year":10,"is_corresponding_author":true},{"id":"https://openalex.org/W2","title":"Sorbent Materials Review","abstract":"A survey of sorbents.","publication_year":2023,"cited_by_count":9,"citations_per_year":3,"is_corresponding_author":false}]}
`
	if err := os.WriteFile(filepath.Join(pfDir, "papers.jsonl"), []byte(papersContent), 0644); err != nil {
		t.Fatal(err)
	}

	// Global config directory with workspace_path pointing at the test workspace
	configDir := filepath.Join(tmpDir, "config", "profiler")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	globalConfig := "workspace_path: " + tmpDir + "\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yml"), []byte(globalConfig), 0644); err != nil {
		t.Fatal(err)
	}

	return tmpDir
}

// runProfiler executes the profiler command with given args and returns output.
// Uses XDG_CONFIG_HOME to point to test-specific global config with workspace_path.
func runProfiler(t *testing.T, workspace string, args ...string) (string, error) {
	t.Helper()
	bin := getProfilerBinary(t)
	cmd := exec.Command(bin, args...)
	cmd.Dir = workspace
	configHome := filepath.Join(workspace, "config")
	cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+configHome, "OPENAI_API_KEY=", "OPENALEX_MAILTO=")
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func TestInit(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "ws")

	// Point global config somewhere empty so discovery doesn't escape the sandbox
	configHome := filepath.Join(tmpDir, "config")
	bin := getProfilerBinary(t)
	cmd := exec.Command(bin, "init", target)
	cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+configHome)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("init failed: %v\nOutput: %s", err, output)
	}

	for _, f := range []string{"config.json", "authors.jsonl", "papers.jsonl"} {
		if _, err := os.Stat(filepath.Join(target, ".profiler", f)); err != nil {
			t.Errorf("missing %s after init: %v", f, err)
		}
	}
	if _, err := os.Stat(filepath.Join(target, ".profiler", "cache")); err != nil {
		t.Errorf("missing cache dir: %v", err)
	}

	// Re-init must refuse
	cmd = exec.Command(bin, "init", target)
	cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+configHome)
	if _, err := cmd.CombinedOutput(); err == nil {
		t.Error("second init succeeded, want error")
	}
}

func TestResolveByIDAndGet(t *testing.T) {
	ws := setupTestWorkspace(t)

	output, err := runProfiler(t, ws, "resolve", "Grace Hopper", "--id", "https://openalex.org/A2")
	if err != nil {
		t.Fatalf("resolve failed: %v\nOutput: %s", err, output)
	}

	var res struct {
		Identity string `json:"identity"`
		Resolved bool   `json:"resolved"`
	}
	if err := json.Unmarshal([]byte(output), &res); err != nil {
		t.Fatalf("parsing resolve output: %v\nOutput: %s", err, output)
	}
	if !res.Resolved || res.Identity != "https://openalex.org/A2" {
		t.Errorf("resolve result = %+v", res)
	}

	// Lookup works by ID and by messy-cased name
	for _, key := range []string{"https://openalex.org/A2", "grace HOPPER"} {
		output, err := runProfiler(t, ws, "get", key)
		if err != nil {
			t.Fatalf("get %q failed: %v\nOutput: %s", key, err, output)
		}
		var rec struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal([]byte(output), &rec); err != nil {
			t.Fatal(err)
		}
		if rec.Name != "Grace Hopper" {
			t.Errorf("get %q name = %q", key, rec.Name)
		}
	}
}

func TestList(t *testing.T) {
	ws := setupTestWorkspace(t)

	output, err := runProfiler(t, ws, "list")
	if err != nil {
		t.Fatalf("list failed: %v\nOutput: %s", err, output)
	}

	var res struct {
		Authors []struct {
			Name     string `json:"name"`
			Status   string `json:"status"`
			Profiled bool   `json:"profiled"`
		} `json:"authors"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal([]byte(output), &res); err != nil {
		t.Fatalf("parsing list output: %v\nOutput: %s", err, output)
	}
	if res.Total != 2 {
		t.Errorf("total = %d, want 2", res.Total)
	}
	if res.Authors[0].Name != "Ada Lovelace" || !res.Authors[0].Profiled {
		t.Errorf("first author = %+v", res.Authors[0])
	}
	if res.Authors[0].Status != "none" {
		t.Errorf("status = %q, want none", res.Authors[0].Status)
	}
}

func TestPapers(t *testing.T) {
	ws := setupTestWorkspace(t)

	output, err := runProfiler(t, ws, "papers", "Ada Lovelace")
	if err != nil {
		t.Fatalf("papers failed: %v\nOutput: %s", err, output)
	}

	var entry struct {
		AuthorID string `json:"author_id"`
		Papers   []struct {
			Title string `json:"title"`
		} `json:"papers"`
	}
	if err := json.Unmarshal([]byte(output), &entry); err != nil {
		t.Fatal(err)
	}
	if len(entry.Papers) != 2 {
		t.Errorf("papers = %d, want 2", len(entry.Papers))
	}

	// Unresolved author has nothing archived
	if _, err := runProfiler(t, ws, "papers", "Unresolved Person"); err == nil {
		t.Error("papers for unresolved author succeeded, want error")
	}
}

func TestFeedbackAccept(t *testing.T) {
	ws := setupTestWorkspace(t)

	output, err := runProfiler(t, ws, "feedback", "Ada Lovelace", "--accept")
	if err != nil {
		t.Fatalf("feedback --accept failed: %v\nOutput: %s", err, output)
	}

	// Acceptance is persisted in the roster
	data, err := os.ReadFile(filepath.Join(ws, ".profiler", "authors.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"feedback_status":"accepted"`) {
		t.Errorf("roster missing accepted status:\n%s", data)
	}

	// Accepting an author without a profile fails
	if _, err := runProfiler(t, ws, "feedback", "Unresolved Person", "--accept"); err == nil {
		t.Error("accept without profile succeeded, want error")
	}
}

func TestSyncQueryInfo(t *testing.T) {
	ws := setupTestWorkspace(t)

	output, err := runProfiler(t, ws, "sync")
	if err != nil {
		t.Fatalf("sync failed: %v\nOutput: %s", err, output)
	}
	var sync struct {
		Authors int `json:"authors"`
		Papers  int `json:"papers"`
	}
	if err := json.Unmarshal([]byte(output), &sync); err != nil {
		t.Fatal(err)
	}
	if sync.Authors != 2 || sync.Papers != 2 {
		t.Errorf("sync = %+v", sync)
	}

	output, err = runProfiler(t, ws, "query", "--keyword", "carbon")
	if err != nil {
		t.Fatalf("query failed: %v\nOutput: %s", err, output)
	}
	var q struct {
		Papers []struct {
			ID string `json:"id"`
		} `json:"papers"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal([]byte(output), &q); err != nil {
		t.Fatal(err)
	}
	if q.Total != 1 || q.Papers[0].ID != "https://openalex.org/W1" {
		t.Errorf("query result = %+v", q)
	}

	output, err = runProfiler(t, ws, "info")
	if err != nil {
		t.Fatalf("info failed: %v\nOutput: %s", err, output)
	}
	var info struct {
		Stats struct {
			Authors  int `json:"authors"`
			Resolved int `json:"resolved"`
			Profiled int `json:"profiled"`
			Papers   int `json:"papers"`
		} `json:"stats"`
	}
	if err := json.Unmarshal([]byte(output), &info); err != nil {
		t.Fatal(err)
	}
	if info.Stats.Authors != 2 || info.Stats.Resolved != 1 || info.Stats.Profiled != 1 {
		t.Errorf("info stats = %+v", info.Stats)
	}
}

func TestCorruptRosterQuarantine(t *testing.T) {
	ws := setupTestWorkspace(t)

	rosterPath := filepath.Join(ws, ".profiler", "authors.jsonl")
	if err := os.WriteFile(rosterPath, []byte("{not json\n"), 0644); err != nil {
		t.Fatal(err)
	}

	output, err := runProfiler(t, ws, "list")
	if err != nil {
		t.Fatalf("list on corrupt roster failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "warning: corrupt roster") {
		t.Errorf("missing quarantine warning:\n%s", output)
	}

	if _, err := os.Stat(rosterPath + ".corrupt"); err != nil {
		t.Errorf("quarantine file missing: %v", err)
	}
}

func TestConfigGetSet(t *testing.T) {
	ws := setupTestWorkspace(t)

	output, err := runProfiler(t, ws, "config", "set", "reference_year", "2030")
	if err != nil {
		t.Fatalf("config set failed: %v\nOutput: %s", err, output)
	}

	output, err = runProfiler(t, ws, "config", "get")
	if err != nil {
		t.Fatalf("config get failed: %v\nOutput: %s", err, output)
	}
	var cfg struct {
		ReferenceYear int `json:"reference_year"`
	}
	if err := json.Unmarshal([]byte(output), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.ReferenceYear != 2030 {
		t.Errorf("reference_year = %d, want 2030", cfg.ReferenceYear)
	}

	// Unknown keys and bad years are rejected
	if _, err := runProfiler(t, ws, "config", "set", "nope", "x"); err == nil {
		t.Error("unknown key accepted")
	}
	if _, err := runProfiler(t, ws, "config", "set", "reference_year", "soon"); err == nil {
		t.Error("non-numeric year accepted")
	}
}
