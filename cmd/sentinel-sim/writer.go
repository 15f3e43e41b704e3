package main

import (
	"os"

	"sentinel-sim/internal/sim"
)

// newWriters sets up contact and threat writers based on flags and env
// vars. It returns the writers and a cleanup function to close any
// resources.
func newWriters(printOnly bool, logFile string) (sim.ContactWriter, sim.ThreatWriter, func(), error) {
	cleanup := func() {}

	cw, tw, err := baseWriters(printOnly)
	if err != nil {
		return nil, nil, nil, err
	}
	if logFile == "" {
		return cw, tw, cleanup, nil
	}

	fw, err := sim.NewFileWriter(logFile, logFile+".threats")
	if err != nil {
		return nil, nil, nil, err
	}
	mw := sim.NewMultiWriter([]sim.ContactWriter{cw, fw}, []sim.ThreatWriter{tw, fw})
	cleanup = func() { fw.Close() }
	return mw, mw, cleanup, nil
}

// baseWriters chooses the underlying writers based on the printOnly
// flag and env vars.
func baseWriters(printOnly bool) (sim.ContactWriter, sim.ThreatWriter, error) {
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		sw := &sim.StdoutWriter{}
		return sw, sw, nil
	}

	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	contactTable := os.Getenv("CONTACT_TABLE")
	threatTable := os.Getenv("THREAT_STATE_TABLE")
	w, err := sim.NewGreptimeDBWriter(endpoint, "public", contactTable, threatTable)
	if err != nil {
		return nil, nil, err
	}
	return w, w, nil
}

// newContactWriter creates a contact writer without log file handling.
func newContactWriter(printOnly bool) (sim.ContactWriter, error) {
	cw, _, err := baseWriters(printOnly)
	return cw, err
}
