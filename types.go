package resumerank

import (
	"context"

	"github.com/kailas-cloud/resumerank/internal/domain"
)

// Embedder turns text into a vector. Resumes and job descriptions must go through the same model.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult is the vector returned by an Embedder, with optional token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Candidate is a stored resume.
type Candidate struct {
	ID         string
	Text       string // set by Get only
	Seq        int64
	Dimensions int
}

// BatchItem is one resume for IngestBatch.
type BatchItem struct {
	ID   string
	Text string
}

// BatchStatus is the outcome of one IngestBatch item.
type BatchStatus string

// Batch statuses.
const (
	StatusOK      BatchStatus = "ok"
	StatusSkipped BatchStatus = "skipped"
	StatusError   BatchStatus = "error"
)

// BatchResult is the outcome of one IngestBatch item.
type BatchResult struct {
	ID     string
	Status BatchStatus
	Err    error
}

// Result is one ranked candidate. Scores are percentages in [0,100] with 2 decimals.
type Result struct {
	ID            string
	FinalScore    float64
	KeywordScore  float64
	SemanticScore float64
}

// Skipped is a candidate left out of a ranking.
type Skipped struct {
	ID     string
	Reason string
}

// Ranking is the outcome of a RankBuilder query.
type Ranking struct {
	Results []Result
	Skipped []Skipped
}

// Errors returned by Client methods. Match them with errors.Is.
var (
	ErrNotFound         = domain.ErrCandidateNotFound
	ErrAlreadyExists    = domain.ErrAlreadyExists
	ErrInvalidCandidate = domain.ErrInvalidCandidate
	ErrInvalidWeight    = domain.ErrInvalidWeight
	ErrInvalidRequest   = domain.ErrInvalidRequest
	ErrEmbedding        = domain.ErrEmbeddingProviderError
	ErrMalformedVector  = domain.ErrMalformedEmbedding
)
