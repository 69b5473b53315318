package postgres

import (
	"time"

	"github.com/IgorGrieder/short-links/internal/processing/links"
)

// linkRow matches the column order of the short_links SELECTs.
type linkRow struct {
	ID          int32
	Code        string
	OriginalURL string
	CreatedAt   time.Time
}

func (r linkRow) toDomain() *links.ShortLink {
	return &links.ShortLink{
		ID:          int64(r.ID),
		Code:        r.Code,
		OriginalURL: r.OriginalURL,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}
