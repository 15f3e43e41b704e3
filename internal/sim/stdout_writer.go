// Writer implementation printing rows to STDOUT
package sim

import (
	"encoding/json"
	"fmt"

	"sentinel-sim/internal/threat"
	"sentinel-sim/internal/vision"
)

// StdoutWriter prints contact and threat rows as JSON lines.
type StdoutWriter struct{}

// WriteContact outputs a single contact row.
func (w *StdoutWriter) WriteContact(row vision.ContactRow) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}

// WriteContacts outputs multiple contact rows.
func (w *StdoutWriter) WriteContacts(rows []vision.ContactRow) error {
	for _, r := range rows {
		_ = w.WriteContact(r)
	}
	return nil
}

// WriteThreat outputs a single threat state row.
func (w *StdoutWriter) WriteThreat(row threat.Row) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}

// WriteThreats outputs multiple threat state rows.
func (w *StdoutWriter) WriteThreats(rows []threat.Row) error {
	for _, r := range rows {
		_ = w.WriteThreat(r)
	}
	return nil
}
