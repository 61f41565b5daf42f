package candidate

import (
	"fmt"
	"math"
	"regexp"

	"github.com/kailas-cloud/resumerank/internal/domain"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// MaxTextSize is the maximum candidate text size in bytes.
const MaxTextSize = 524288 // 512KB

// Candidate is a scored document (resume). Immutable value object.
type Candidate struct {
	id        string
	text      string
	embedding []float32
	seq       int64
}

// New validates and creates a Candidate without an embedding.
// ID: ^[a-zA-Z0-9._-]+$, 1-256 chars (file names are valid ids). Text: non-empty, max 512KB.
func New(id, text string) (Candidate, error) {
	if id == "" {
		return Candidate{}, fmt.Errorf("candidate ID is required: %w", domain.ErrInvalidCandidate)
	}
	if len(id) > 256 {
		return Candidate{}, fmt.Errorf("candidate ID too long (max 256): %w", domain.ErrInvalidCandidate)
	}
	if !idRegex.MatchString(id) {
		return Candidate{}, fmt.Errorf(
			"candidate ID must contain only letters, digits, '.', '_' and '-': %w", domain.ErrInvalidCandidate,
		)
	}
	if id == "." || id == ".." {
		return Candidate{}, fmt.Errorf("candidate ID %q is reserved: %w", id, domain.ErrInvalidCandidate)
	}
	if text == "" {
		return Candidate{}, fmt.Errorf("text is required: %w", domain.ErrInvalidCandidate)
	}
	if len(text) > MaxTextSize {
		return Candidate{}, fmt.Errorf("text too large (max %d bytes): %w", MaxTextSize, domain.ErrInvalidCandidate)
	}
	return Candidate{id: id, text: text}, nil
}

// Reconstruct creates a Candidate without validation (storage hydration and tests).
func Reconstruct(id, text string, embedding []float32, seq int64) Candidate {
	return Candidate{id: id, text: text, embedding: embedding, seq: seq}
}

// ID returns the candidate identifier.
func (c *Candidate) ID() string { return c.id }

// Text returns the full candidate text.
func (c *Candidate) Text() string { return c.text }

// Embedding returns the precomputed embedding vector. Callers must not mutate it.
func (c *Candidate) Embedding() []float32 { return c.embedding }

// Seq returns the insertion sequence assigned by the store (0 if not persisted).
func (c *Candidate) Seq() int64 { return c.seq }

// WithEmbedding returns a copy with the given embedding set.
func (c *Candidate) WithEmbedding(v []float32) Candidate {
	return Candidate{id: c.id, text: c.text, embedding: v, seq: c.seq}
}

// WithSeq returns a copy with the given insertion sequence.
func (c *Candidate) WithSeq(seq int64) Candidate {
	return Candidate{id: c.id, text: c.text, embedding: c.embedding, seq: seq}
}

// ValidateEmbedding checks the basic shape of a vector: non-empty, every component finite.
// A failing vector is never replaced by a zero vector.
func ValidateEmbedding(v []float32) error {
	if len(v) == 0 {
		return fmt.Errorf("empty vector: %w", domain.ErrMalformedEmbedding)
	}
	for i, f := range v {
		x := float64(f)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("non-finite component at index %d: %w", i, domain.ErrMalformedEmbedding)
		}
	}
	return nil
}
