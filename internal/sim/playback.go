package sim

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"sentinel-sim/internal/vision"
)

// ReplayLog replays contact rows from r into writer. A speed >0
// accelerates playback by dividing the recorded gaps; speed <= 0
// replays without artificial delay.
func ReplayLog(r io.Reader, writer ContactWriter, speed float64) error {
	dec := json.NewDecoder(r)
	var prev time.Time
	for {
		var row vision.ContactRow
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !prev.IsZero() && speed > 0 {
			diff := row.Timestamp.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		if err := writer.WriteContact(row); err != nil {
			return err
		}
		prev = row.Timestamp
	}
}

// ReplayLogFile opens a file and replays its contact rows.
func ReplayLogFile(path string, writer ContactWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayLog(f, writer, speed)
}
