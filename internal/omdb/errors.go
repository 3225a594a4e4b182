package omdb

import "errors"

var (
	// ErrMissingAPIKey is returned before any network call when the client
	// was built without an API key. Retrying cannot help until the service
	// is reconfigured.
	ErrMissingAPIKey = errors.New("omdb: api key is missing")

	// ErrNotFound wraps OMDB's Response:"False" answers ("Movie not
	// found!", "Incorrect IMDb ID." and friends).
	ErrNotFound = errors.New("omdb: not found")
)

// NotFoundError carries the upstream error message so callers can surface
// it verbatim. It matches ErrNotFound under errors.Is.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return ErrNotFound.Error()
	}
	return e.Message
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
