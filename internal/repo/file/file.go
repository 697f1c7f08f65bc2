package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adousti/vigil/internal/domain"
)

// Store writes the snapshot as a JSON document, atomically replacing the
// previous one via rename so dashboard readers never see a torn file.
type Store struct {
	Path string
}

func New(path string) *Store {
	return &Store{Path: path}
}

func (s *Store) Save(ctx context.Context, r *domain.StatusReport) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".status-*.json")
	if err != nil {
		return fmt.Errorf("snapshot tmp: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		tmp.Close()
		return fmt.Errorf("snapshot encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapshot close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("snapshot replace: %w", err)
	}
	return nil
}

// Latest returns nil, nil when no snapshot has been written yet.
func (s *Store) Latest(ctx context.Context) (*domain.StatusReport, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot read: %w", err)
	}
	var r domain.StatusReport
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("snapshot decode: %w", err)
	}
	return &r, nil
}
