package admin

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sentinel-sim/internal/config"
	"sentinel-sim/internal/sim"
	"sentinel-sim/internal/threat"
)

func testServer() (*Server, *sim.Simulator) {
	cfg := &config.SimulationConfig{
		DefendedPosition: config.DefendedPosition{Name: "Addis Ababa", Lat: 9.0192, Lng: 38.7525},
		Sensitivity:      50,
	}
	cfg.Defaults()
	simulator := sim.NewSimulator("session-admin", cfg, nil, nil, nil, rand.New(rand.NewSource(1)))
	simulator.Tick(time.Unix(0, 0))
	return NewServer(simulator), simulator
}

func TestHandleIndex(t *testing.T) {
	server, _ := testServer()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	server.handleIndex(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status OK, got %v", resp.StatusCode)
	}
	body := w.Body.String()
	if !strings.Contains(body, "session-admin") || !strings.Contains(body, "Addis Ababa") {
		t.Errorf("index missing session info")
	}
	if !strings.Contains(body, "Moscow") {
		t.Errorf("index missing catalogue threats")
	}
}

func TestHandleThreats(t *testing.T) {
	server, _ := testServer()
	req := httptest.NewRequest(http.MethodGet, "/threats", nil)
	w := httptest.NewRecorder()
	server.handleThreats(w, req)

	var views []sim.ThreatView
	if err := json.NewDecoder(w.Body).Decode(&views); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(views) != len(threat.BuiltIn()) {
		t.Errorf("expected %d threats, got %d", len(threat.BuiltIn()), len(views))
	}
	for _, v := range views {
		if v.BearingDeg < 0 || v.BearingDeg >= 360 {
			t.Errorf("bearing out of range: %f", v.BearingDeg)
		}
	}
}

func TestHandleNeutralize(t *testing.T) {
	server, simulator := testServer()
	id := simulator.ThreatSnapshot()[0].ID

	req := httptest.NewRequest(http.MethodPost, "/neutralize?id="+id, nil)
	w := httptest.NewRecorder()
	server.handleNeutralize(w, req)
	if w.Result().StatusCode != http.StatusNoContent {
		t.Fatalf("expected NoContent, got %v", w.Result().StatusCode)
	}
	for _, v := range simulator.ThreatSnapshot() {
		if v.ID == id && !v.Neutralized {
			t.Errorf("threat not neutralized")
		}
	}

	w = httptest.NewRecorder()
	server.handleNeutralize(w, httptest.NewRequest(http.MethodPost, "/neutralize", nil))
	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("missing id should be rejected")
	}
}

func TestHandleSensitivity(t *testing.T) {
	server, simulator := testServer()

	w := httptest.NewRecorder()
	server.handleSensitivity(w, httptest.NewRequest(http.MethodPost, "/sensitivity?value=95", nil))
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected OK, got %v", w.Result().StatusCode)
	}
	if got := simulator.Sensitivity(); got != 95 {
		t.Errorf("sensitivity = %f, want 95", got)
	}

	// Out-of-range values clamp instead of failing.
	w = httptest.NewRecorder()
	server.handleSensitivity(w, httptest.NewRequest(http.MethodPost, "/sensitivity?value=400", nil))
	if got := simulator.Sensitivity(); got != 100 {
		t.Errorf("sensitivity = %f, want clamp to 100", got)
	}

	w = httptest.NewRecorder()
	server.handleSensitivity(w, httptest.NewRequest(http.MethodPost, "/sensitivity?value=oops", nil))
	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("invalid value should be rejected")
	}

	w = httptest.NewRecorder()
	server.handleSensitivity(w, httptest.NewRequest(http.MethodGet, "/sensitivity", nil))
	var out map[string]float64
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["sensitivity"] != 100 {
		t.Errorf("read-back sensitivity = %f", out["sensitivity"])
	}
}

func TestHandleSweepAndCounts(t *testing.T) {
	server, _ := testServer()

	w := httptest.NewRecorder()
	server.handleSweep(w, httptest.NewRequest(http.MethodGet, "/sweep", nil))
	var state sim.SweepState
	if err := json.NewDecoder(w.Body).Decode(&state); err != nil {
		t.Fatalf("decode sweep: %v", err)
	}
	if state.AngleDeg < 0 || state.AngleDeg >= 360 {
		t.Errorf("sweep angle out of range: %f", state.AngleDeg)
	}

	w = httptest.NewRecorder()
	server.handleCounts(w, httptest.NewRequest(http.MethodGet, "/counts", nil))
	var counts map[threat.Level]int
	if err := json.NewDecoder(w.Body).Decode(&counts); err != nil {
		t.Fatalf("decode counts: %v", err)
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	if total != len(threat.BuiltIn()) {
		t.Errorf("counts total = %d, want %d", total, len(threat.BuiltIn()))
	}
}

func TestHandleTargets(t *testing.T) {
	server, _ := testServer()
	w := httptest.NewRecorder()
	server.handleTargets(w, httptest.NewRequest(http.MethodGet, "/targets", nil))
	var out struct {
		Targets []json.RawMessage `json:"targets"`
		Reticle struct {
			Locked bool `json:"locked"`
		} `json:"reticle"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Before any frame delta there are no targets and no lock.
	if out.Reticle.Locked {
		t.Errorf("fresh session should not be locked")
	}
}
