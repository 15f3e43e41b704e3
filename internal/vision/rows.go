package vision

import "time"

// ContactRow is one detected-target record emitted per analysis cycle,
// shaped for JSONL logs and the GreptimeDB sink.
type ContactRow struct {
	SessionID  string    `json:"session_id"` // TAG
	TargetID   string    `json:"target_id"`  // TAG
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
	Confidence float64   `json:"confidence"`
	Locked     bool      `json:"locked"`
	Timestamp  time.Time `json:"ts"` // TIME INDEX
}
