package sim

import (
	"errors"

	"sentinel-sim/internal/threat"
	"sentinel-sim/internal/vision"
)

// MultiWriter fans rows out to several writers, collecting errors
// instead of stopping at the first failure.
type MultiWriter struct {
	contacts []ContactWriter
	threats  []ThreatWriter
}

// NewMultiWriter builds a fan-out over the given writer sets.
func NewMultiWriter(contacts []ContactWriter, threats []ThreatWriter) *MultiWriter {
	return &MultiWriter{contacts: contacts, threats: threats}
}

// WriteContact forwards the row to every contact writer.
func (m *MultiWriter) WriteContact(row vision.ContactRow) error {
	var errs []error
	for _, w := range m.contacts {
		if err := w.WriteContact(row); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteContacts forwards the batch, using batch mode where supported.
func (m *MultiWriter) WriteContacts(rows []vision.ContactRow) error {
	var errs []error
	for _, w := range m.contacts {
		if bw, ok := w.(batchContactWriter); ok {
			if err := bw.WriteContacts(rows); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteContact(r); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// WriteThreat forwards the row to every threat writer.
func (m *MultiWriter) WriteThreat(row threat.Row) error {
	var errs []error
	for _, w := range m.threats {
		if err := w.WriteThreat(row); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteThreats forwards the batch, using batch mode where supported.
func (m *MultiWriter) WriteThreats(rows []threat.Row) error {
	var errs []error
	for _, w := range m.threats {
		if bw, ok := w.(batchThreatWriter); ok {
			if err := bw.WriteThreats(rows); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteThreat(r); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
