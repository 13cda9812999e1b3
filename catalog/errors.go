package catalog

import (
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

const (
	TextCodeGemNotFound    = "GEM_NOT_FOUND"
	TextCodeInvalidGemID   = "INVALID_GEM_ID"
	TextCodeInvalidRequest = "INVALID_GEM_REQUEST"
	TextCodeEmptySearch    = "EMPTY_SEARCH_TERM"
	TextCodeStoreFailure   = "STORE_FAILURE"
	TextCodeDataFile       = "DATA_FILE_ERROR"
)

// ErrNotFound is returned by lookups and mutations that target a missing gem.
var ErrNotFound = errors.New("gem not found", errors.CategoryNotFound).
	WithTextCode(TextCodeGemNotFound)

// ErrEmptySearch is returned by Search for an empty term.
var ErrEmptySearch = errors.New("search term is required", errors.CategoryValidation).
	WithTextCode(TextCodeEmptySearch)

// IsNotFound reports whether err means the gem does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.IsNotFound(err)
}

// ParseID parses a gem identifier.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, errors.CategoryBadInput, "invalid gem id").
			WithTextCode(TextCodeInvalidGemID).
			WithMetadata(map[string]any{"id": raw})
	}
	return id, nil
}

// StoreError wraps a backend failure as a retryable external error. Not-found
// and validation outcomes, and errors already wrapped, pass through unchanged.
func StoreError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) || errors.IsValidation(err) || errors.IsRetryableError(err) {
		return err
	}
	wrapped := errors.WrapRetryable(err, errors.CategoryExternal, msg)
	wrapped.BaseError.WithTextCode(TextCodeStoreFailure)
	return wrapped
}

// DataFileError wraps an IO or parse failure of a data source.
func DataFileError(err error, msg, path string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, errors.CategoryOperation, msg).
		WithTextCode(TextCodeDataFile).
		WithMetadata(map[string]any{"path": path})
}
