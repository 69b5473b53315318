package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "short_links_code_key"}, true},
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"not null violation", &pgconn.PgError{Code: "23502"}, false},
		{"plain error", errors.New("connection refused"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestLinkRowToDomain(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	got := linkRow{ID: 12, Code: "abc", OriginalURL: "https://example.com", CreatedAt: created}.toDomain()

	if got.ID != 12 || got.Code != "abc" || got.OriginalURL != "https://example.com" {
		t.Errorf("unexpected mapping %+v", got)
	}
	if got.CreatedAt.Location() != time.UTC || !got.CreatedAt.Equal(created) {
		t.Errorf("created_at = %v, want %v in UTC", got.CreatedAt, created)
	}
}

func TestNewLinksRepository_NilPool(t *testing.T) {
	if _, err := NewLinksRepository(nil); err == nil {
		t.Error("expected error for nil connection")
	}
}
