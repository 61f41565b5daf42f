package chi

import (
	dombatch "github.com/kailas-cloud/resumerank/internal/domain/batch"
	domcand "github.com/kailas-cloud/resumerank/internal/domain/candidate"
	"github.com/kailas-cloud/resumerank/internal/domain/ranking/request"
	"github.com/kailas-cloud/resumerank/internal/domain/ranking/score"
	rankinguc "github.com/kailas-cloud/resumerank/internal/usecase/ranking"
)

const (
	maxBatchSize = 100
	maxLimit     = 10000
)

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest             = "bad_request"
	codeValidationFailed       = "validation_failed"
	codeInvalidWeight          = "invalid_weight"
	codeInvalidCandidate       = "invalid_candidate"
	codeCandidateNotFound      = "candidate_not_found"
	codeAlreadyExists          = "already_exists"
	codeDimensionMismatch      = "dimension_mismatch"
	codeMalformedEmbedding     = "malformed_embedding"
	codeEmbeddingProviderError = "embedding_provider_error"
	codeSnapshotNotLoaded      = "snapshot_not_loaded"
	codeInternalError          = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// rankRequest is the JSON body of POST /rank. Weights are fractions; nil means the server default.
type rankRequest struct {
	JobDescription string   `json:"job_description" validate:"max=65536"`
	Requirements   string   `json:"requirements" validate:"max=65536"`
	KeywordWeight  *float64 `json:"keyword_weight"`
	SemanticWeight *float64 `json:"semantic_weight"`
	Limit          int      `json:"limit" validate:"min=0,max=10000"`
}

// rankForm is the form-encoded body of POST /rank. Weights are non-negative slider
// values, usually 0..100, divided by 100.
type rankForm struct {
	JobDescription string `validate:"max=65536"`
	Requirements   string `validate:"max=65536"`
	KeywordWeight  *int
	SemanticWeight *int
	Limit          int `validate:"min=0,max=10000"`
}

type scoreItem struct {
	ID            string  `json:"id"`
	FinalScore    float64 `json:"final_score"`
	KeywordScore  float64 `json:"keyword_score"`
	SemanticScore float64 `json:"semantic_score"`
	ResumeURL     string  `json:"resume_url"`
}

type skippedItem struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type rankResponse struct {
	Items        []scoreItem   `json:"items"`
	Total        int           `json:"total"`
	Skipped      []skippedItem `json:"skipped"`
	Requirements []string      `json:"requirements"`
}

type createCandidateRequest struct {
	ID   string `json:"id" validate:"omitempty,max=256"`
	Text string `json:"text" validate:"required"`
}

type batchCreateRequest struct {
	Candidates []createCandidateRequest `json:"candidates" validate:"required,min=1,max=100,dive"`
}

type candidateResponse struct {
	ID         string `json:"id"`
	Text       string `json:"text,omitempty"`
	Dimensions int    `json:"dimensions"`
	Seq        int64  `json:"seq"`
}

type candidateListResponse struct {
	Items []candidateResponse `json:"items"`
	Total int                 `json:"total"`
}

type batchResultItem struct {
	ID     string         `json:"id"`
	Status string         `json:"status"`
	Error  *errorResponse `json:"error,omitempty"`
}

type batchResponse struct {
	Items     []batchResultItem `json:"items"`
	Succeeded int               `json:"succeeded"`
	Skipped   int               `json:"skipped"`
	Failed    int               `json:"failed"`
}

type snapshotResponse struct {
	Candidates int `json:"candidates"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func rankResponseFrom(req *request.Request, out rankinguc.Outcome) rankResponse {
	items := make([]scoreItem, len(out.Records))
	for i := range out.Records {
		items[i] = scoreItemFrom(&out.Records[i])
	}
	skipped := make([]skippedItem, len(out.Skipped))
	for i, sk := range out.Skipped {
		skipped[i] = skippedItem{ID: sk.ID, Reason: sk.Reason}
	}
	phrases := req.Requirements().Phrases()
	if phrases == nil {
		phrases = []string{}
	}
	return rankResponse{
		Items:        items,
		Total:        len(items),
		Skipped:      skipped,
		Requirements: phrases,
	}
}

func scoreItemFrom(r *score.Record) scoreItem {
	return scoreItem{
		ID:            r.ID(),
		FinalScore:    r.Final(),
		KeywordScore:  r.Keyword(),
		SemanticScore: r.Semantic(),
		ResumeURL:     "/resumes/" + r.ID(),
	}
}

func candidateResponseFrom(c *domcand.Candidate, withText bool) candidateResponse {
	resp := candidateResponse{
		ID:         c.ID(),
		Dimensions: len(c.Embedding()),
		Seq:        c.Seq(),
	}
	if withText {
		resp.Text = c.Text()
	}
	return resp
}

func batchResultFrom(r dombatch.Result) batchResultItem {
	item := batchResultItem{ID: r.ID(), Status: string(r.Status())}
	if r.Err() != nil {
		item.Error = &errorResponse{
			Code:    errorCode(r.Err()),
			Message: safeDomainMessage(r.Err()),
		}
	}
	return item
}
