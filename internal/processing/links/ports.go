package links

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("link not found")
	ErrInvalidCode = errors.New("invalid code")
	ErrInvalidURL  = errors.New("invalid url")
	ErrCodeInUse   = errors.New("code already in use")
)

// LinkRepository is the durable code -> URL mapping. Insert must rely on the
// store's own uniqueness constraint and report a violation as ErrCodeInUse.
type LinkRepository interface {
	Insert(ctx context.Context, link *ShortLink) error
	FindByCode(ctx context.Context, code string) (*ShortLink, error)
	List(ctx context.Context) ([]ShortLink, error)
}

// ClickRecorder accepts one click for a link id.
type ClickRecorder interface {
	RecordClick(ctx context.Context, shortLinkID string) error
}

// ClickCounter is the sorted tally store.
type ClickCounter interface {
	ClickRecorder
	RangeByScore(ctx context.Context, min, max float64) ([]ClickTally, error)
	TopByRank(ctx context.Context, n int64) ([]ClickTally, error)
}

// IsValidationError reports whether err was caused by bad caller input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidCode) || errors.Is(err, ErrInvalidURL)
}
