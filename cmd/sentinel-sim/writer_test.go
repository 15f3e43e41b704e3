package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"sentinel-sim/internal/sim"
	"sentinel-sim/internal/vision"
)

func TestNewWritersPrintOnly(t *testing.T) {
	cw, tw, cleanup, err := newWriters(true, "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := cw.(*sim.StdoutWriter); !ok {
		t.Fatalf("expected *sim.StdoutWriter, got %T", cw)
	}
	if _, ok := tw.(*sim.StdoutWriter); !ok {
		t.Fatalf("expected *sim.StdoutWriter, got %T", tw)
	}
}

func TestNewWritersGreptimeFallback(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	cw, _, cleanup, err := newWriters(false, "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := cw.(*sim.StdoutWriter); !ok {
		t.Fatalf("expected *sim.StdoutWriter, got %T", cw)
	}
}

func TestNewWritersLogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts.jsonl")
	cw, tw, cleanup, err := newWriters(true, path)
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer cleanup()
	if _, ok := cw.(*sim.MultiWriter); !ok {
		t.Fatalf("expected *sim.MultiWriter, got %T", cw)
	}
	if _, ok := tw.(*sim.MultiWriter); !ok {
		t.Fatalf("expected *sim.MultiWriter, got %T", tw)
	}
	row := vision.ContactRow{SessionID: "s1", TargetID: "t1", Timestamp: time.Now()}
	if err := cw.WriteContact(row); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected log file to be non-empty")
	}
	if _, err := os.Stat(path + ".threats"); err != nil {
		t.Fatalf("stat threat log failed: %v", err)
	}
}
