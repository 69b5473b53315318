package mongo

import (
	"context"
	"testing"
	"time"
)

func TestLinkDocToDomain(t *testing.T) {
	created := time.Date(2025, 5, 2, 8, 30, 0, 0, time.UTC)
	got := linkDoc{ID: 4, Code: "abc", OriginalURL: "https://example.com", CreatedAt: created}.toDomain()

	if got.ID != 4 || got.Code != "abc" || got.OriginalURL != "https://example.com" || !got.CreatedAt.Equal(created) {
		t.Errorf("unexpected mapping %+v", got)
	}
}

func TestNewLinksRepository_NilDatabase(t *testing.T) {
	if _, err := NewLinksRepository(context.Background(), nil); err == nil {
		t.Error("expected error for nil connection")
	}
}
