package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a session id is unknown or was ended.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrCatalogNotFound indicates the quiz content could not be loaded.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrEmptyCatalog is returned for a catalog with no items; a session cannot start on it.
	ErrEmptyCatalog = errors.New("catalog is empty")
	// ErrInvalidCatalog indicates malformed catalog content.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrItemNotFound indicates a checked item id is not part of the catalog.
	ErrItemNotFound = errors.New("item not found")
	// ErrInvalidResult rejects malformed result records.
	ErrInvalidResult = errors.New("invalid result record")
	// ErrResultNotFound is returned when no record exists for a session.
	ErrResultNotFound = errors.New("result not found")
)
