package profile

import (
	"fmt"
	"strings"

	"github.com/climatescout/profiler/internal/archive"
)

// TagMarker is the literal classification marker the model is instructed
// to emit. Everything after it, comma-split, becomes the tags.
const TagMarker = "Relevant climate challenges: "

// systemPrompt frames every generation call.
const systemPrompt = `You are writing a scientific outreach profile for researchers and scientists. This needs to be engaging and not too specific.
Classify the researcher within 2 or 3 climate tech challenge spaces (defined by you). Be specific.
Only provide truthful insights based on the provided information. Use British English.`

// buildSynthesisPrompt assembles the user prompt for a fresh profile:
// the author's name, the selected title/abstract pairs, and the output
// format instructions.
func buildSynthesisPrompt(authorName string, papers []archive.PaperRecord) string {
	var sources strings.Builder
	for _, p := range papers {
		fmt.Fprintf(&sources, "Title: %s\nAbstract: %s\n", p.Title, p.Abstract)
	}

	return fmt.Sprintf(`The researcher's name is %[1]s.
Here are selected titles and abstracts for this researcher:
%[2]s
Based on this information, write a very brief 50-100 words profile for the researcher starting with
variations of '%[1]s specialises in' or '%[1]s's work focuses ...', use other ways to say this as well.
The profile needs to be written in layman terms, but still add keywords or
technical words if you need to. Write it like a holistic view of what the researcher does.
And classify their work within 2 or 3 best-fit climate tech challenge spaces specified by you,
in this format: %[3]sX, Y, Z`, authorName, sources.String(), TagMarker)
}

// buildRevisionPrompt assembles the user prompt for merging reviewer
// feedback into an existing profile.
func buildRevisionPrompt(existingProfile, feedback string) string {
	return fmt.Sprintf(`Here is the original profile:
%s

The user has provided additional input:
%s

Update the profile to include the user's input while maintaining the same professional tone.
Ensure the profile remains concise and within 100 words.
Re-write the %sin the format: X, Y, Z`, existingProfile, feedback, TagMarker)
}

// FallbackText is the fixed profile used when an author has no abstracts
// to draw on. This is a valid terminal state, not an error.
func FallbackText(authorName string) string {
	return fmt.Sprintf("No abstracts available to generate a detailed profile for %s.", authorName)
}
