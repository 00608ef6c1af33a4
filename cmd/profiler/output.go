package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/climatescout/profiler/internal/builder"
	"github.com/climatescout/profiler/internal/registry"
)

// Constants for output formatting.
const (
	DefaultQueryLimit = 50 // Default limit for query command

	ListTitleMaxLen = 50  // Used in papers command output
	TextWrapWidth   = 72  // Profile text wrap width
	AbstractSnippet = 160 // Abstract preview length in query output
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitWithPipelineError maps pipeline sentinel errors onto exit codes.
func exitWithPipelineError(err error) {
	code := ExitError
	switch {
	case errors.Is(err, builder.ErrNotFound):
		code = ExitNotFound
	case errors.Is(err, builder.ErrSourceUnavailable):
		code = ExitSourceError
	case errors.Is(err, builder.ErrGenerationUnavailable):
		code = ExitModelError
	case errors.Is(err, builder.ErrNoProfile):
		code = ExitDataError
	}
	exitWithError(code, "%v", err)
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// printAuthorHuman prints one roster record in human-readable format.
// Set full to include the profile text and feedback fields.
func printAuthorHuman(rec registry.AuthorRecord, full bool) {
	fmt.Printf("%s\n", rec.DisplayName)
	if rec.Identity != "" {
		fmt.Printf("  ID: %s\n", rec.Identity)
	} else {
		fmt.Printf("  ID: (unresolved)\n")
	}
	if rec.Institution != "" {
		fmt.Printf("  Institution: %s\n", rec.Institution)
	}
	if rec.Contact != "" {
		fmt.Printf("  Contact: %s\n", rec.Contact)
	}
	fmt.Printf("  Status: %s\n", rec.Status())
	if len(rec.Tags) > 0 {
		fmt.Printf("  Tags: %s\n", strings.Join(rec.Tags, ", "))
	}
	if !full {
		return
	}
	if rec.ProfileText != "" {
		fmt.Printf("\nProfile:\n  %s\n", wrapText(rec.ProfileText, TextWrapWidth, "  "))
	}
	if rec.FeedbackText != "" {
		fmt.Printf("\nFeedback:\n  %s\n", wrapText(rec.FeedbackText, TextWrapWidth, "  "))
	}
	if rec.ProfileRevised != "" {
		fmt.Printf("\nRevised profile:\n  %s\n", wrapText(rec.ProfileRevised, TextWrapWidth, "  "))
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// wrapText wraps text to the specified width with indentation on subsequent lines.
func wrapText(text string, width int, indent string) string {
	if len(text) <= width {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	var currentLine strings.Builder

	for _, word := range words {
		if currentLine.Len() == 0 {
			currentLine.WriteString(word)
		} else if currentLine.Len()+1+len(word) <= width {
			currentLine.WriteString(" ")
			currentLine.WriteString(word)
		} else {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentLine.WriteString(word)
		}
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return strings.Join(lines, "\n"+indent)
}
