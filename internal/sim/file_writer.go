package sim

import (
	"encoding/json"
	"os"

	"sentinel-sim/internal/threat"
	"sentinel-sim/internal/vision"
)

// FileWriter appends contact and threat rows to JSONL files.
type FileWriter struct {
	contactFile *os.File
	threatFile  *os.File
	contactEnc  *json.Encoder
	threatEnc   *json.Encoder
}

// NewFileWriter creates a FileWriter. threatPath may be empty to skip
// the threat log.
func NewFileWriter(contactPath, threatPath string) (*FileWriter, error) {
	cf, err := os.Create(contactPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{contactFile: cf, contactEnc: json.NewEncoder(cf)}
	if threatPath != "" {
		tf, err := os.Create(threatPath)
		if err != nil {
			cf.Close()
			return nil, err
		}
		fw.threatFile = tf
		fw.threatEnc = json.NewEncoder(tf)
	}
	return fw, nil
}

// WriteContact logs a single contact row.
func (f *FileWriter) WriteContact(row vision.ContactRow) error {
	return f.contactEnc.Encode(row)
}

// WriteContacts logs multiple contact rows.
func (f *FileWriter) WriteContacts(rows []vision.ContactRow) error {
	for _, r := range rows {
		if err := f.WriteContact(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteThreat logs a single threat row, if enabled.
func (f *FileWriter) WriteThreat(row threat.Row) error {
	if f.threatEnc == nil {
		return nil
	}
	return f.threatEnc.Encode(row)
}

// WriteThreats logs multiple threat rows.
func (f *FileWriter) WriteThreats(rows []threat.Row) error {
	for _, r := range rows {
		if err := f.WriteThreat(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.contactFile != nil {
		if e := f.contactFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.threatFile != nil {
		if e := f.threatFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
