package verify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ArtifactStore writes result-page evidence to a directory, one
// screenshot and one pdf per run.
type ArtifactStore struct {
	directory string
}

func NewArtifactStore(dir string) (*ArtifactStore, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	return &ArtifactStore{directory: dir}, nil
}

func (s *ArtifactStore) SaveScreenshot(ctx context.Context, name string, data []byte) error {
	return s.write(ctx, name+".png", data)
}

func (s *ArtifactStore) SavePDF(ctx context.Context, name string, data []byte) error {
	return s.write(ctx, name+".pdf", data)
}

func (s *ArtifactStore) write(ctx context.Context, filename string, data []byte) error {
	path := filepath.Join(s.directory, filename)
	err := os.WriteFile(path, data, 0600)
	if err != nil {
		return fmt.Errorf("write artifact %s: %w", filename, err)
	}
	slog.InfoContext(ctx, "saved artifact", "path", path, "bytes", len(data))
	return nil
}
