// Package batch describes per-item outcomes of bulk candidate ingestion.
package batch

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK      ItemStatus = "ok"
	StatusSkipped ItemStatus = "skipped"
	StatusError   ItemStatus = "error"
)

// Result is the outcome of ingesting one candidate in a batch.
type Result struct {
	id     string
	status ItemStatus
	err    error
}

// NewOK creates a successful batch result.
func NewOK(id string) Result { return Result{id: id, status: StatusOK} }

// NewSkipped marks an item that was intentionally not ingested (e.g. it already exists).
// The reason is kept in Err so callers can still match it with errors.Is.
func NewSkipped(id string, reason error) Result {
	return Result{id: id, status: StatusSkipped, err: reason}
}

// NewError creates a failed batch result.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// ID returns the candidate identifier.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error or skip reason, if any.
func (r Result) Err() error { return r.err }

// Counts tallies results by status.
func Counts(results []Result) (ok, skipped, failed int) {
	for _, r := range results {
		switch r.status {
		case StatusOK:
			ok++
		case StatusSkipped:
			skipped++
		case StatusError:
			failed++
		}
	}
	return ok, skipped, failed
}
