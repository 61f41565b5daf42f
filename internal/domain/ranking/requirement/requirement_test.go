package requirement

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   []string
		folded []string
	}{
		{"empty", "", []string{}, []string{}},
		{"only separators", " , ,, ", []string{}, []string{}},
		{"single", "Python", []string{"Python"}, []string{"python"}},
		{"trims", "  Python ,  SQL  ", []string{"Python", "SQL"}, []string{"python", "sql"}},
		{"drops empty", "Go,,Kubernetes,", []string{"Go", "Kubernetes"}, []string{"go", "kubernetes"}},
		{"keeps order", "SQL, Python, AWS", []string{"SQL", "Python", "AWS"}, []string{"sql", "python", "aws"}},
		{"keeps duplicates", "Go, go, Go", []string{"Go", "go", "Go"}, []string{"go", "go", "go"}},
		{"inner whitespace kept", "machine  learning, CI/CD", []string{"machine  learning", "CI/CD"},
			[]string{"machine  learning", "ci/cd"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Parse(tc.raw)
			if !reflect.DeepEqual(s.Phrases(), tc.want) {
				t.Errorf("Phrases() = %q, want %q", s.Phrases(), tc.want)
			}
			if !reflect.DeepEqual(s.Folded(), tc.folded) {
				t.Errorf("Folded() = %q, want %q", s.Folded(), tc.folded)
			}
			if s.Len() != len(tc.want) {
				t.Errorf("Len() = %d, want %d", s.Len(), len(tc.want))
			}
			if s.IsEmpty() != (len(tc.want) == 0) {
				t.Errorf("IsEmpty() = %v", s.IsEmpty())
			}
		})
	}
}

func TestOf(t *testing.T) {
	s := Of(" Python", "", "SQL ")
	if !reflect.DeepEqual(s.Phrases(), []string{"Python", "SQL"}) {
		t.Errorf("unexpected phrases %q", s.Phrases())
	}
	if s.String() != "Python, SQL" {
		t.Errorf("String() = %q", s.String())
	}
}

func TestFold(t *testing.T) {
	tests := map[string]string{
		"PYTHON":     "python",
		"Go":         "go",
		"ÄÖÜ":        "äöü",
		"already ok": "already ok",
	}
	for in, want := range tests {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}
