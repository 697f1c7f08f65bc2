package memory

import (
	"context"
	"testing"
	"time"

	"github.com/adousti/vigil/internal/domain"
)

func TestStore_SaveReplacesLatest(t *testing.T) {
	s := New()
	ctx := context.Background()

	if got, err := s.Latest(ctx); err != nil || got != nil {
		t.Fatalf("want nil before first save, got %v, %v", got, err)
	}

	first := domain.NewStatusReport(time.Now().UTC(), nil, map[string]int{})
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := domain.NewStatusReport(time.Now().UTC().Add(time.Minute), nil, map[string]int{})
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got != second {
		t.Fatalf("want second report, got %+v", got)
	}
}
