// Package clicks applies ClickRecorded events to the click counter.
package clicks

import (
	"context"
	"time"

	"github.com/IgorGrieder/short-links/internal/events"
	"github.com/IgorGrieder/short-links/internal/infrastructure/logger"
	"github.com/IgorGrieder/short-links/internal/processing/links"
	"go.uber.org/zap"
)

type Handler struct {
	counter      links.ClickRecorder
	operationTTL time.Duration
}

func NewHandler(counter links.ClickRecorder, operationTTL time.Duration) *Handler {
	if operationTTL <= 0 {
		operationTTL = 5 * time.Second
	}
	return &Handler{counter: counter, operationTTL: operationTTL}
}

// Handle increments the counter for one event. Payloads that can never be
// applied are logged and acknowledged so they do not block the partition.
func (h *Handler) Handle(ctx context.Context, payload []byte) error {
	ev, err := events.DecodeClickRecorded(payload)
	if err != nil {
		logger.Warn("invalid click event payload, skipping",
			zap.Error(err),
			zap.ByteString("payload", payload),
		)
		return nil
	}

	opCtx, cancel := context.WithTimeout(ctx, h.operationTTL)
	defer cancel()

	return h.counter.RecordClick(opCtx, ev.ShortLinkID)
}
