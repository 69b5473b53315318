package events

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestNewClickRecorded(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 500, time.FixedZone("BRT", -3*60*60))
	ev := NewClickRecorded("evt-1", "42", at)

	if ev.OccurredAt != "2025-03-01T15:00:00.0000005Z" {
		t.Errorf("unexpected occurredAt %q", ev.OccurredAt)
	}

	raw, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"eventId":"evt-1","shortLinkId":"42","occurredAt":"2025-03-01T15:00:00.0000005Z"}`
	if string(raw) != want {
		t.Errorf("got %s, want %s", raw, want)
	}
}

func TestDecodeClickRecorded(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantID  string
		wantErr error
		anyErr  bool
	}{
		{name: "valid", payload: `{"eventId":"e","shortLinkId":"7"}`, wantID: "7"},
		{name: "trimmed id", payload: `{"shortLinkId":" 7 "}`, wantID: "7"},
		{name: "missing id", payload: `{"eventId":"e"}`, wantErr: ErrMissingShortLinkID},
		{name: "blank id", payload: `{"shortLinkId":"  "}`, wantErr: ErrMissingShortLinkID},
		{name: "not json", payload: `nope`, anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := DecodeClickRecorded([]byte(tt.payload))
			switch {
			case tt.anyErr:
				if err == nil {
					t.Fatal("expected error")
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if ev.ShortLinkID != tt.wantID {
					t.Errorf("expected id %q, got %q", tt.wantID, ev.ShortLinkID)
				}
			}
		})
	}
}
