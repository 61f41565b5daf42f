package candidate

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/kailas-cloud/resumerank/internal/domain"
)

func TestNew_Valid(t *testing.T) {
	for _, id := range []string{"alice", "resume_01.txt", "Bob-Smith.pdf", strings.Repeat("a", 256)} {
		c, err := New(id, "Go developer")
		if err != nil {
			t.Fatalf("New(%q): unexpected error: %v", id, err)
		}
		if c.ID() != id || c.Text() != "Go developer" {
			t.Errorf("unexpected candidate: %+v", c)
		}
		if c.Embedding() != nil {
			t.Error("expected nil embedding")
		}
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		id   string
		text string
	}{
		{"empty id", "", "text"},
		{"too long id", strings.Repeat("x", 257), "text"},
		{"slash", "a/b", "text"},
		{"space", "john doe", "text"},
		{"dot", ".", "text"},
		{"dotdot", "..", "text"},
		{"empty text", "alice", ""},
		{"text too large", "alice", strings.Repeat("x", MaxTextSize+1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.id, tc.text)
			if !errors.Is(err, domain.ErrInvalidCandidate) {
				t.Errorf("expected ErrInvalidCandidate, got %v", err)
			}
		})
	}
}

func TestWithEmbeddingAndSeq(t *testing.T) {
	c, err := New("alice", "text")
	if err != nil {
		t.Fatal(err)
	}
	withVec := c.WithEmbedding([]float32{1, 2})
	if len(c.Embedding()) != 0 {
		t.Error("original must stay unchanged")
	}
	if len(withVec.Embedding()) != 2 {
		t.Errorf("expected 2-dim embedding, got %d", len(withVec.Embedding()))
	}

	withSeq := withVec.WithSeq(7)
	if withSeq.Seq() != 7 || len(withSeq.Embedding()) != 2 {
		t.Errorf("unexpected copy: %+v", withSeq)
	}
	if withVec.Seq() != 0 {
		t.Error("original seq must stay unchanged")
	}
}

func TestValidateEmbedding(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	tests := []struct {
		name    string
		vec     []float32
		wantErr bool
	}{
		{"valid", []float32{0.1, -0.2, 0}, false},
		{"zero vector is well-formed", []float32{0, 0, 0}, false},
		{"nil", nil, true},
		{"empty", []float32{}, true},
		{"nan", []float32{0.1, nan}, true},
		{"inf", []float32{inf, 0.1}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateEmbedding(tc.vec)
			if tc.wantErr && !errors.Is(err, domain.ErrMalformedEmbedding) {
				t.Errorf("expected ErrMalformedEmbedding, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
