package events

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ClickRecorded is published for every resolved redirect when clicks are
// routed through Kafka.
type ClickRecorded struct {
	EventID     string `json:"eventId"`
	ShortLinkID string `json:"shortLinkId"`
	OccurredAt  string `json:"occurredAt"`
}

var ErrMissingShortLinkID = errors.New("click event missing shortLinkId")

func NewClickRecorded(eventID, shortLinkID string, occurredAt time.Time) ClickRecorded {
	return ClickRecorded{
		EventID:     eventID,
		ShortLinkID: shortLinkID,
		OccurredAt:  occurredAt.UTC().Format(time.RFC3339Nano),
	}
}

// DecodeClickRecorded parses a payload and rejects events without a link id.
func DecodeClickRecorded(payload []byte) (ClickRecorded, error) {
	var ev ClickRecorded
	if err := json.Unmarshal(payload, &ev); err != nil {
		return ClickRecorded{}, err
	}
	ev.ShortLinkID = strings.TrimSpace(ev.ShortLinkID)
	if ev.ShortLinkID == "" {
		return ClickRecorded{}, ErrMissingShortLinkID
	}
	return ev, nil
}
