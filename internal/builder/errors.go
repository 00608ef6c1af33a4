package builder

import "errors"

// The pipeline error taxonomy. Every failure surfaced to the operator
// wraps one of these, with the author name or identity in the message.
var (
	// ErrInvalidInput covers operator mistakes: empty names, oversized
	// feedback. No state changes.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceUnavailable means the bibliographic source could not be
	// queried after retries were exhausted. Ingestion aborts with
	// nothing written; partial data is never returned.
	ErrSourceUnavailable = errors.New("bibliographic source unavailable")

	// ErrGenerationUnavailable means the generative model call failed or
	// timed out. Prior profile state is preserved.
	ErrGenerationUnavailable = errors.New("profile generation unavailable")

	// ErrNotFound means the author is not in the roster.
	ErrNotFound = errors.New("author not found")

	// ErrNoProfile means an operation needed an existing profile (e.g.
	// feedback) but none has been generated yet.
	ErrNoProfile = errors.New("no profile generated yet")
)
