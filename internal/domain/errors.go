package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCandidateNotFound signals a missing candidate.
	ErrCandidateNotFound = errors.New("candidate not found")
	// ErrAlreadyExists signals a duplicate candidate identifier.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidCandidate signals a candidate that fails validation.
	ErrInvalidCandidate = errors.New("invalid candidate")
	// ErrInvalidWeight signals a negative or non-finite ranking weight.
	ErrInvalidWeight = errors.New("invalid weight")
	// ErrInvalidRequest signals a malformed ranking request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrDimensionMismatch signals vectors of different length.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrUndefinedSimilarity signals a zero-norm vector in a cosine computation.
	ErrUndefinedSimilarity = errors.New("undefined similarity")
	// ErrMalformedEmbedding signals an embedding that fails shape validation.
	ErrMalformedEmbedding = errors.New("malformed embedding")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrSnapshotNotLoaded signals a ranking attempt before the candidate snapshot exists.
	ErrSnapshotNotLoaded = errors.New("candidate snapshot not loaded")
)

// DimensionMismatchError wraps ErrDimensionMismatch with both lengths.
type DimensionMismatchError struct {
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %d, got %d", ErrDimensionMismatch.Error(), e.Expected, e.Got)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }

// NewDimensionMismatch creates a dimension mismatch error.
func NewDimensionMismatch(expected, got int) error {
	return &DimensionMismatchError{Expected: expected, Got: got}
}
