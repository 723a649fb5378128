package ingestion

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"doc-assistant/vectordb"
)

// ChunkWriter is the slice of the vector store the ingestion service
// depends on.
type ChunkWriter interface {
	Add(ctx context.Context, chunks []vectordb.Chunk) error
}

// Service reads corpus documents, chunks them and writes the result to
// the vector store as a single batch.
type Service struct {
	store    ChunkWriter
	dataDir  string
	maxChars int
	sources  []string
	logger   *log.Logger
}

// Report summarizes one ingestion run.
type Report struct {
	Documents int      `json:"documents"`
	Chunks    int      `json:"chunks"`
	Skipped   []string `json:"skipped,omitempty"`
}

func NewService(store ChunkWriter, dataDir string, maxChars int, sources []string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		store:    store,
		dataDir:  dataDir,
		maxChars: maxChars,
		sources:  sources,
		logger:   logger,
	}
}

// ProcessDocuments reads, chunks and indexes the given files. Files that
// cannot be read or yield no chunks are skipped with a log line; the
// surviving chunks are written in one Add call so that either the whole
// batch lands or none of it does.
func (s *Service) ProcessDocuments(ctx context.Context, paths []string) (Report, error) {
	var report Report
	all := make([]vectordb.Chunk, 0)

	for _, path := range paths {
		resolved := s.resolve(path)
		source := filepath.Base(resolved)

		content, err := ReadDocument(resolved)
		if err != nil {
			s.logger.Printf("skipping %s: %v", path, err)
			report.Skipped = append(report.Skipped, source)
			continue
		}

		chunks := ChunkText(content, source, s.maxChars)
		if len(chunks) == 0 {
			s.logger.Printf("skipping %s: no chunks produced", path)
			report.Skipped = append(report.Skipped, source)
			continue
		}

		s.logger.Printf("chunked %s into %d pieces", source, len(chunks))
		all = append(all, chunks...)
		report.Documents++
		report.Chunks += len(chunks)
	}

	if len(all) == 0 {
		return report, fmt.Errorf("no chunks to ingest")
	}

	if err := s.store.Add(ctx, all); err != nil {
		return report, fmt.Errorf("add chunks: %w", err)
	}

	s.logger.Printf("ingested %d chunks from %d documents", report.Chunks, report.Documents)
	return report, nil
}

// IngestDefaults processes the configured default documents under the
// data directory.
func (s *Service) IngestDefaults(ctx context.Context) (Report, error) {
	paths := make([]string, 0, len(s.sources))
	for _, name := range s.sources {
		path := filepath.Join(s.dataDir, name)
		if _, err := os.Stat(path); err != nil {
			s.logger.Printf("default document missing: %s", path)
			continue
		}
		paths = append(paths, path)
	}

	if len(paths) == 0 {
		return Report{}, fmt.Errorf("no default documents found in %s", s.dataDir)
	}

	return s.ProcessDocuments(ctx, paths)
}

// resolve falls back to the data directory when the path as given does
// not exist on disk.
func (s *Service) resolve(path string) string {
	if _, err := os.Stat(path); err == nil {
		return path
	}
	fallback := filepath.Join(s.dataDir, filepath.Base(path))
	if _, err := os.Stat(fallback); err == nil {
		return fallback
	}
	return path
}
