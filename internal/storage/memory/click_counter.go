package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/IgorGrieder/short-links/internal/processing/links"
)

// ClickCounter mirrors the subset of sorted-set behaviour the service needs.
type ClickCounter struct {
	mu     sync.Mutex
	scores map[string]float64
}

func NewClickCounter() *ClickCounter {
	return &ClickCounter{scores: make(map[string]float64)}
}

func (c *ClickCounter) RecordClick(_ context.Context, shortLinkID string) error {
	c.mu.Lock()
	c.scores[shortLinkID]++
	c.mu.Unlock()
	return nil
}

// Score returns the tally for one key and whether the key exists.
func (c *ClickCounter) Score(shortLinkID string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	score, ok := c.scores[shortLinkID]
	return score, ok
}

func (c *ClickCounter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.scores)
}

func (c *ClickCounter) RangeByScore(_ context.Context, min, max float64) ([]links.ClickTally, error) {
	all := c.ascending()
	out := make([]links.ClickTally, 0, len(all))
	for _, t := range all {
		if t.Clicks >= min && t.Clicks <= max {
			out = append(out, t)
		}
	}
	return out, nil
}

func (c *ClickCounter) TopByRank(_ context.Context, n int64) ([]links.ClickTally, error) {
	all := c.ascending()
	out := make([]links.ClickTally, 0, len(all))
	for i := len(all) - 1; i >= 0 && int64(len(out)) < n; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

// ascending orders like a sorted set: by score, then by member.
func (c *ClickCounter) ascending() []links.ClickTally {
	c.mu.Lock()
	out := make([]links.ClickTally, 0, len(c.scores))
	for id, score := range c.scores {
		out = append(out, links.ClickTally{ShortLinkID: id, Clicks: score})
	}
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Clicks != out[j].Clicks {
			return out[i].Clicks < out[j].Clicks
		}
		return out[i].ShortLinkID < out[j].ShortLinkID
	})
	return out
}
