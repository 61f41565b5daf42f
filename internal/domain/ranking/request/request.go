package request

import (
	"fmt"

	"github.com/kailas-cloud/resumerank/internal/domain"
	"github.com/kailas-cloud/resumerank/internal/domain/ranking/requirement"
	"github.com/kailas-cloud/resumerank/internal/domain/ranking/weight"
)

// MaxQuerySize caps the job description length in bytes.
const MaxQuerySize = 65536

// Request is a validated ranking request (immutable value object).
type Request struct {
	query        string
	requirements requirement.Set
	weights      weight.Pair
	limit        int
}

// New creates a Request. requirementsCSV is parsed with requirement.Parse.
// limit 0 means "return every candidate".
func New(query, requirementsCSV string, weights weight.Pair, limit int) (Request, error) {
	if len(query) > MaxQuerySize {
		return Request{}, fmt.Errorf("job description too large (max %d bytes): %w", MaxQuerySize, domain.ErrInvalidRequest)
	}
	if limit < 0 {
		return Request{}, fmt.Errorf("limit must be >= 0, got %d: %w", limit, domain.ErrInvalidRequest)
	}
	return Request{
		query:        query,
		requirements: requirement.Parse(requirementsCSV),
		weights:      weights,
		limit:        limit,
	}, nil
}

// Query returns the job description text.
func (r *Request) Query() string { return r.query }

// Requirements returns the parsed requirement phrases.
func (r *Request) Requirements() requirement.Set { return r.requirements }

// Weights returns the keyword/semantic weight pair.
func (r *Request) Weights() weight.Pair { return r.weights }

// Limit returns the maximum number of records to return (0 = all).
func (r *Request) Limit() int { return r.limit }
