package candidate

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/kailas-cloud/resumerank/internal/domain"
	domcand "github.com/kailas-cloud/resumerank/internal/domain/candidate"
)

// Hash field names. The "__" prefix keeps them apart from any future metadata fields.
const (
	fieldText   = "__text"
	fieldVector = "__vector"
	fieldSeq    = "__seq"
)

// buildHashFields converts a Candidate into a flat map[string]string for HSET.
// __seq is written separately by Create (HSETNX) and is not part of the map.
func buildHashFields(c *domcand.Candidate) map[string]string {
	return map[string]string{
		fieldText:   c.Text(),
		fieldVector: vectorToBytes(c.Embedding()),
	}
}

// parseHashFields converts a flat hash map back into a Candidate.
// A vector whose byte length is not a multiple of 4 yields domain.ErrMalformedEmbedding.
func parseHashFields(id string, m map[string]string) (domcand.Candidate, error) {
	vec, err := bytesToVector(m[fieldVector])
	if err != nil {
		return domcand.Candidate{}, fmt.Errorf("candidate %q: %w", id, err)
	}
	var seq int64
	if raw, ok := m[fieldSeq]; ok {
		seq, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return domcand.Candidate{}, fmt.Errorf("candidate %q: invalid seq %q: %w", id, raw, err)
		}
	}
	return domcand.Reconstruct(id, m[fieldText], vec, seq), nil
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) ([]float32, error) {
	b := []byte(s)
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("vector length %d is not a multiple of 4: %w", len(b), domain.ErrMalformedEmbedding)
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}
