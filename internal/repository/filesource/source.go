// Package filesource reads candidate documents from a local directory.
package filesource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// DefaultExtensions are the file types read when none are configured.
var DefaultExtensions = []string{".txt", ".md"}

// Document is one file found in the ingest directory. ID is the file name.
type Document struct {
	ID   string
	Text string
}

// Source lists text documents in a single directory (non-recursive).
// Binary formats such as PDF must be converted to text before ingestion.
type Source struct {
	dir      string
	exts     map[string]struct{}
	maxBytes int64
	logger   *zap.Logger
}

// New creates a directory source. Extension matching is case-insensitive.
// maxBytes <= 0 disables the size limit.
func New(dir string, exts []string, maxBytes int64, logger *zap.Logger) *Source {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = struct{}{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{dir: dir, exts: set, maxBytes: maxBytes, logger: logger}
}

// Documents reads every matching file, sorted by file name.
// Oversized files are logged and left out.
func (s *Source) Documents(ctx context.Context) ([]Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", s.dir, err)
	}

	docs := make([]Document, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("read dir %s: %w", s.dir, err)
		}
		if e.IsDir() || !s.matches(e.Name()) {
			continue
		}

		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		if s.maxBytes > 0 && info.Size() > s.maxBytes {
			s.logger.Warn("Skipping oversized file",
				zap.String("file", e.Name()),
				zap.Int64("size", info.Size()),
				zap.Int64("max_bytes", s.maxBytes),
			)
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		docs = append(docs, Document{ID: e.Name(), Text: string(data)})
	}
	return docs, nil
}

func (s *Source) matches(name string) bool {
	_, ok := s.exts[strings.ToLower(filepath.Ext(name))]
	return ok
}
