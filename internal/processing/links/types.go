package links

import "time"

type ShortLink struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	OriginalURL string    `json:"original_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// ClickTally is one leaderboard entry. ShortLinkID is the counter key, the
// decimal form of ShortLink.ID.
type ClickTally struct {
	ShortLinkID string  `json:"shortLinkId"`
	Clicks      float64 `json:"clicks"`
}

type RegisterInput struct {
	Code string
	URL  string
}

// MetricsMode selects how TopClicks reads the counter.
type MetricsMode string

const (
	// MetricsModeScore keeps entries whose score lies in [0, limit].
	MetricsModeScore MetricsMode = "score"
	// MetricsModeRank keeps the limit highest-ranked entries.
	MetricsModeRank MetricsMode = "rank"
)
