package errors

import "errors"

// Domain errors
var (
	// Catalog errors
	ErrCatalogNotFound   = errors.New("assessment catalog not found")
	ErrCatalogEmpty      = errors.New("catalog must contain at least one section")
	ErrSectionEmpty      = errors.New("section must contain at least one question")
	ErrDuplicateQuestion = errors.New("duplicate question id in catalog")
	ErrEmptyCatalogType  = errors.New("assessment type cannot be empty")

	// Session errors
	ErrSessionNotFound = errors.New("assessment session not found")
	ErrInvalidAnswer   = errors.New("answer must be yes, partial, or no")
	ErrEmptyQuestionID = errors.New("question id cannot be empty")

	// Results errors
	ErrResultsNotReady = errors.New("not enough sections completed to view results")
	ErrResultNotFound  = errors.New("saved result not found")
	ErrEmptyUserID     = errors.New("user id cannot be empty")

	// Account errors
	ErrUnauthenticated = errors.New("not authenticated - please log in")
	ErrAccountURL      = errors.New("account service URL is not configured")

	// Repository errors
	ErrSnapshotMismatch = errors.New("snapshot does not match the active catalog")
)
