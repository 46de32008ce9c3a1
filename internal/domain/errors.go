package domain

import "errors"

var (
	ErrMissingParameters = errors.New("missing required parameters")
	ErrZipNotFound       = errors.New("zip code not found")
	ErrMalformedResponse = errors.New("invalid response format")
)
