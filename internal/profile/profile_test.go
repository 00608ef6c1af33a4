package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/climatescout/profiler/internal/archive"
)

// stubModel records calls and returns canned output.
type stubModel struct {
	calls    int
	lastUser string
	response string
	err      error
}

func (m *stubModel) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.calls++
	m.lastUser = userPrompt
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func paperWithAbstract(i int) archive.PaperRecord {
	return archive.PaperRecord{
		ID:       fmt.Sprintf("W%d", i),
		Title:    fmt.Sprintf("Paper %d", i),
		Abstract: fmt.Sprintf("Abstract %d", i),
	}
}

func TestSelectSources(t *testing.T) {
	var papers []archive.PaperRecord
	// 15 papers, every third one missing its abstract
	for i := 0; i < 15; i++ {
		p := paperWithAbstract(i)
		if i%3 == 0 {
			p.Abstract = ""
		}
		papers = append(papers, p)
	}

	selected := SelectSources(papers)
	if len(selected) != 10 {
		t.Fatalf("len(selected) = %d, want 10", len(selected))
	}
	for _, p := range selected {
		if p.Abstract == "" {
			t.Errorf("selected paper %s has no abstract", p.ID)
		}
	}
	// Archive order preserved
	if selected[0].ID != "W1" || selected[1].ID != "W2" || selected[2].ID != "W4" {
		t.Errorf("selection order wrong: %v %v %v", selected[0].ID, selected[1].ID, selected[2].ID)
	}
}

func TestSelectSources_WhitespaceAbstract(t *testing.T) {
	papers := []archive.PaperRecord{{ID: "W1", Abstract: "   \n "}}
	if got := SelectSources(papers); len(got) != 0 {
		t.Errorf("SelectSources() = %v, want none for whitespace abstract", got)
	}
}

func TestSynthesize_NoAbstractsFallback(t *testing.T) {
	model := &stubModel{}
	s := NewSynthesizer(model)

	papers := []archive.PaperRecord{{ID: "W1", Title: "No abstract here"}}
	text, tags, err := s.Synthesize(context.Background(), "Paul Atreides", papers)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if model.calls != 0 {
		t.Errorf("model called %d times, want 0 for fallback", model.calls)
	}
	want := "No abstracts available to generate a detailed profile for Paul Atreides."
	if text != want {
		t.Errorf("text = %q, want fallback", text)
	}
	if len(tags) != 0 {
		t.Errorf("tags = %v, want empty", tags)
	}
}

func TestSynthesize_ParsesTags(t *testing.T) {
	model := &stubModel{
		response: "Paul Atreides specialises in desert hydrology. Relevant climate challenges: Water, Food, Energy",
	}
	s := NewSynthesizer(model)

	text, tags, err := s.Synthesize(context.Background(), "Paul Atreides", []archive.PaperRecord{paperWithAbstract(1)})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if text != model.response {
		t.Errorf("text = %q, want model output verbatim", text)
	}
	want := []string{"Water", "Food", "Energy"}
	if len(tags) != 3 || tags[0] != want[0] || tags[1] != want[1] || tags[2] != want[2] {
		t.Errorf("tags = %v, want %v", tags, want)
	}

	// Round-trip: re-parsing the stored profile yields the same tags.
	again := ParseTags(text)
	if len(again) != 3 || again[2] != "Energy" {
		t.Errorf("re-parsed tags = %v, want %v", again, want)
	}

	// Prompt carried the name and the source pair
	if !strings.Contains(model.lastUser, "Paul Atreides") {
		t.Error("prompt missing author name")
	}
	if !strings.Contains(model.lastUser, "Abstract 1") {
		t.Error("prompt missing abstract text")
	}
}

func TestSynthesize_ModelError(t *testing.T) {
	model := &stubModel{err: errors.New("boom")}
	s := NewSynthesizer(model)

	_, _, err := s.Synthesize(context.Background(), "X", []archive.PaperRecord{paperWithAbstract(1)})
	if err == nil {
		t.Fatal("Synthesize() expected error")
	}
}

func TestParseTags_MissingMarker(t *testing.T) {
	text := "A profile with no classification line at all."
	if tags := ParseTags(text); tags != nil {
		t.Errorf("ParseTags() = %v, want nil for missing marker", tags)
	}
}

func TestParseTags_Whitespace(t *testing.T) {
	tags := ParseTags("blah Relevant climate challenges:  Water ,  Food ,Energy ")
	want := []string{"Water", "Food", "Energy"}
	if len(tags) != 3 {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i], want[i])
		}
	}
}

func TestRegenerate(t *testing.T) {
	model := &stubModel{response: "Updated profile. Relevant climate challenges: Water, Energy"}
	s := NewSynthesizer(model)

	got, err := s.Regenerate(context.Background(), "Old profile.", "mention the desalination work")
	if err != nil {
		t.Fatalf("Regenerate() error = %v", err)
	}
	if got != model.response {
		t.Errorf("Regenerate() = %q", got)
	}
	if !strings.Contains(model.lastUser, "Old profile.") {
		t.Error("revision prompt missing existing profile")
	}
	if !strings.Contains(model.lastUser, "mention the desalination work") {
		t.Error("revision prompt missing feedback text")
	}
}

func TestRegenerate_ErrorPropagates(t *testing.T) {
	model := &stubModel{err: errors.New("timeout")}
	s := NewSynthesizer(model)

	if _, err := s.Regenerate(context.Background(), "p", "f"); err == nil {
		t.Fatal("Regenerate() expected error")
	}
}
