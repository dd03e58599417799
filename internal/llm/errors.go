package llm

import "errors"

var (
	// ErrNoCredentials is returned when a call is attempted without an API key.
	ErrNoCredentials = errors.New("llm: no API key configured")

	// ErrEmptyResponse is returned when the model service answers with no
	// usable content (no choices, or an empty message).
	ErrEmptyResponse = errors.New("llm: model returned empty response")
)
