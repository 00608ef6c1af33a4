package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing config, no workspace, missing API key)
	ExitDataError   = 3 // Data error (malformed store, validation failure)
	ExitNotFound    = 4 // Author not found in the roster
	ExitSourceError = 5 // OpenAlex unavailable (rate limit, network)
	ExitModelError  = 6 // Profile generation unavailable (LLM failure)
)
