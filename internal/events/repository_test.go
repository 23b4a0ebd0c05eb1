package events

import (
	"encoding/json"
	"testing"
	"time"
)

func TestStatusChange(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	e := StatusChange(EntityBooking, "b1", "pending", "confirmed", "vendor-1", at)
	if e.EventType != TypeStatusChanged || e.Summary != "Status changed from pending to confirmed" {
		t.Fatalf("unexpected event: %+v", e)
	}
	var data map[string]string
	if err := json.Unmarshal(e.Data, &data); err != nil {
		t.Fatalf("data: %v", err)
	}
	if data["from"] != "pending" || data["to"] != "confirmed" {
		t.Fatalf("unexpected data: %v", data)
	}
}
