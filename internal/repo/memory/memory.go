package memory

import (
	"context"
	"sync"

	"github.com/adousti/vigil/internal/domain"
)

// Store keeps only the latest snapshot. It backs the status API so reads
// never touch the filesystem.
type Store struct {
	mu     sync.RWMutex
	latest *domain.StatusReport
}

func New() *Store {
	return &Store{}
}

func (m *Store) Save(ctx context.Context, r *domain.StatusReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest = r
	return nil
}

// Latest returns nil, nil before the first cycle completes.
func (m *Store) Latest(ctx context.Context) (*domain.StatusReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest, nil
}
