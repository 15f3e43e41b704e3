package sim

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"sentinel-sim/internal/vision"
)

func TestReplayLog(t *testing.T) {
	rows := []vision.ContactRow{
		{SessionID: "s1", TargetID: "t1", X: 10, Y: 20, Timestamp: time.Unix(0, 0)},
		{SessionID: "s1", TargetID: "t2", X: 30, Y: 40, Locked: true, Timestamp: time.Unix(1, 0)},
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	w := &MockWriter{}
	if err := ReplayLog(&buf, w, 0); err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if len(w.Contacts) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(w.Contacts))
	}
	for i, r := range rows {
		if w.Contacts[i].TargetID != r.TargetID || w.Contacts[i].Locked != r.Locked {
			t.Fatalf("row %d mismatch: %+v vs %+v", i, w.Contacts[i], r)
		}
	}
}

func TestReplayLogFileMissing(t *testing.T) {
	if err := ReplayLogFile("does/not/exist.jsonl", &MockWriter{}, 0); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
