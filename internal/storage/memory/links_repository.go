// Package memory holds process-local stores for development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/IgorGrieder/short-links/internal/processing/links"
)

type LinksRepository struct {
	mu     sync.RWMutex
	nextID int64
	byCode map[string]int
	rows   []links.ShortLink
	now    func() time.Time
}

func NewLinksRepository() *LinksRepository {
	return &LinksRepository{
		byCode: make(map[string]int),
		now:    time.Now,
	}
}

func (r *LinksRepository) Insert(_ context.Context, link *links.ShortLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byCode[link.Code]; exists {
		return links.ErrCodeInUse
	}

	r.nextID++
	link.ID = r.nextID
	link.CreatedAt = r.now().UTC()

	r.byCode[link.Code] = len(r.rows)
	r.rows = append(r.rows, *link)
	return nil
}

func (r *LinksRepository) FindByCode(_ context.Context, code string) (*links.ShortLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byCode[code]
	if !ok {
		return nil, links.ErrNotFound
	}
	row := r.rows[idx]
	return &row, nil
}

func (r *LinksRepository) List(_ context.Context) ([]links.ShortLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]links.ShortLink, len(r.rows))
	copy(out, r.rows)
	return out, nil
}
