package robustlink

import "errors"

// Assembly failures are deterministic validation errors, never transient.
// Callers match them with errors.Is.
var (
	ErrMissingHref        = errors.New("missing href")
	ErrMissingOriginalURL = errors.New("missing original URL")
	ErrMissingVersionDate = errors.New("missing version date")

	ErrInvalidHref        = errors.New("href is not an absolute http(s) URI")
	ErrInvalidOriginalURL = errors.New("original URL is not an absolute http(s) URI")
	ErrInvalidVersionDate = errors.New("version date has no recognized encoding")
)
