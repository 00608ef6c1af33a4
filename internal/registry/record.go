// Package registry stores the author roster: one record per researcher,
// holding identity fields, the generated and revised profile texts, and
// reviewer feedback state.
package registry

import "strings"

// FeedbackStatus tracks whether a reviewer has acted on a profile.
type FeedbackStatus string

const (
	// FeedbackNone means no reviewer has acted yet.
	FeedbackNone FeedbackStatus = "none"

	// FeedbackAccepted means the reviewer accepted the generated profile
	// as-is. Terminal.
	FeedbackAccepted FeedbackStatus = "accepted"

	// FeedbackRevisionRequested means the reviewer supplied input and a
	// revised profile was generated. A later feedback submission may
	// re-enter this state and overwrite the revised profile.
	FeedbackRevisionRequested FeedbackStatus = "revision_requested"
)

// MaxFeedbackLen is the maximum length of reviewer feedback text.
const MaxFeedbackLen = 200

// AuthorRecord is one row of the author roster.
//
// Identity is the stable OpenAlex author ID (a URL). It is empty until
// resolution succeeds; a record with an empty identity is a durable
// placeholder for a name whose remote lookup failed or has not run yet.
type AuthorRecord struct {
	Identity    string `json:"identity,omitempty"`
	DisplayName string `json:"name"`
	Institution string `json:"institution,omitempty"`
	Contact     string `json:"email,omitempty"`

	// ProfileText is the synthesized profile. Written once; overwritten
	// only by an explicit re-synthesis, never by the feedback path.
	ProfileText string `json:"profile,omitempty"`

	// FeedbackText is the reviewer's free-text input (<= MaxFeedbackLen).
	FeedbackText string `json:"feedback,omitempty"`

	// ProfileRevised is the profile re-synthesized after feedback.
	// Empty until feedback is submitted.
	ProfileRevised string `json:"profile_revised,omitempty"`

	FeedbackStatus FeedbackStatus `json:"feedback_status,omitempty"`

	// Tags are the classification labels parsed from the profile text
	// (typically 2-3).
	Tags []string `json:"tags,omitempty"`
}

// Status returns the feedback status, mapping the zero value to FeedbackNone.
func (r *AuthorRecord) Status() FeedbackStatus {
	if r.FeedbackStatus == "" {
		return FeedbackNone
	}
	return r.FeedbackStatus
}

// Resolved reports whether the record has a resolved identity.
func (r *AuthorRecord) Resolved() bool {
	return r.Identity != ""
}

// CurrentProfile returns the revised profile if present, otherwise the
// generated one.
func (r *AuthorRecord) CurrentProfile() string {
	if r.ProfileRevised != "" {
		return r.ProfileRevised
	}
	return r.ProfileText
}

// NormalizeName canonicalizes a display name for matching: collapse
// whitespace, trim, case-fold.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// SameName reports whether two display names match after normalization.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}
