package postgres

import (
	"context"
	"errors"

	"github.com/IgorGrieder/short-links/internal/infrastructure/db"
	"github.com/IgorGrieder/short-links/internal/processing/links"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLSTATE unique_violation.
const uniqueViolation = "23505"

const (
	insertLinkSQL = `
INSERT INTO short_links (code, original_url)
VALUES ($1, $2)
RETURNING id, created_at`

	getLinkByCodeSQL = `
SELECT id, code, original_url, created_at
FROM short_links
WHERE short_links.code = $1`

	listLinksSQL = `
SELECT id, code, original_url, created_at
FROM short_links`
)

type LinksRepository struct {
	pool *pgxpool.Pool
}

func NewLinksRepository(p *db.Postgres) (*LinksRepository, error) {
	if p == nil || p.Pool == nil {
		return nil, errors.New("postgres pool is nil")
	}
	return &LinksRepository{pool: p.Pool}, nil
}

// Insert leans on the short_links_code_key constraint; there is no pre-check.
func (r *LinksRepository) Insert(ctx context.Context, link *links.ShortLink) error {
	if link == nil {
		return errors.New("link is nil")
	}

	err := r.pool.QueryRow(ctx, insertLinkSQL, link.Code, link.OriginalURL).
		Scan(&link.ID, &link.CreatedAt)
	if err == nil {
		link.CreatedAt = link.CreatedAt.UTC()
		return nil
	}
	if isUniqueViolation(err) {
		return links.ErrCodeInUse
	}
	return err
}

func (r *LinksRepository) FindByCode(ctx context.Context, code string) (*links.ShortLink, error) {
	rows, err := r.pool.Query(ctx, getLinkByCodeSQL, code)
	if err != nil {
		return nil, err
	}
	link, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[linkRow])
	if err == nil {
		return link.toDomain(), nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, links.ErrNotFound
	}
	return nil, err
}

func (r *LinksRepository) List(ctx context.Context) ([]links.ShortLink, error) {
	rows, err := r.pool.Query(ctx, listLinksSQL)
	if err != nil {
		return nil, err
	}
	found, err := pgx.CollectRows(rows, pgx.RowToStructByPos[linkRow])
	if err != nil {
		return nil, err
	}

	out := make([]links.ShortLink, 0, len(found))
	for _, row := range found {
		out = append(out, *row.toDomain())
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
