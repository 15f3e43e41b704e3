package sim

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sentinel-sim/internal/threat"
	"sentinel-sim/internal/vision"
)

type fakeProgram struct{ msgs []tea.Msg }

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func TestTUIWriterMessages(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p}

	row := vision.ContactRow{TargetID: "abcdef0123456789", X: 10, Y: 20, Confidence: 75, Locked: true, Timestamp: time.Unix(0, 0).UTC()}
	if err := w.WriteContact(row); err != nil {
		t.Fatalf("contact: %v", err)
	}
	cm, ok := p.msgs[0].(contactMsg)
	if !ok {
		t.Fatalf("expected contactMsg, got %T", p.msgs[0])
	}
	if !strings.Contains(cm.line, "abcdef01") || !strings.Contains(cm.line, "LOCK") {
		t.Fatalf("unexpected log line: %q", cm.line)
	}

	if err := w.WriteThreat(threat.Row{ThreatID: "th1", OriginName: "Moscow"}); err != nil {
		t.Fatalf("threat: %v", err)
	}
	tm, ok := p.msgs[1].(threatsMsg)
	if !ok {
		t.Fatalf("expected threatsMsg, got %T", p.msgs[1])
	}
	if len(tm.rows) != 1 || tm.rows[0].ThreatID != "th1" {
		t.Fatalf("unexpected threat batch: %+v", tm.rows)
	}

	w.SetSweep(42, 3)
	sm, ok := p.msgs[2].(sweepMsg)
	if !ok {
		t.Fatalf("expected sweepMsg, got %T", p.msgs[2])
	}
	if sm.angle != 42 || sm.visible != 3 {
		t.Fatalf("unexpected sweep msg: %+v", sm)
	}
}

func TestTUIModelThreatTableAndNeutralize(t *testing.T) {
	var neutralized string
	m := newTUIModel(func(id string) { neutralized = id }, 80, 24)

	rows := []threat.Row{
		{ThreatID: "th1", OriginName: "Moscow", Kind: threat.KindMissile, Level: threat.LevelCritical, DistanceKm: 2500, Progress: 0.5},
		{ThreatID: "th2", OriginName: "Tehran", Kind: threat.KindDrone, Level: threat.LevelHigh, DistanceKm: 900, Progress: 0.1},
	}
	mi, _ := m.Update(threatsMsg{rows: rows})
	m = mi.(tuiModel)
	if len(m.ids) != 2 || m.ids[0] != "th1" {
		t.Fatalf("ids not tracked: %v", m.ids)
	}
	if !strings.Contains(m.tbl.View(), "Moscow") {
		t.Fatalf("table missing threat origin")
	}

	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = mi.(tuiModel)
	if neutralized != "th1" {
		t.Fatalf("neutralize callback got %q, want th1", neutralized)
	}
}

func TestTUIModelLogTrimsAndSweepHeader(t *testing.T) {
	m := newTUIModel(nil, 80, 24)
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = mi.(tuiModel)
	for i := 0; i < maxLogLines+10; i++ {
		mi, _ = m.Update(contactMsg{line: "contact line"})
		m = mi.(tuiModel)
	}
	if len(m.lines) != maxLogLines {
		t.Fatalf("log ring size = %d, want %d", len(m.lines), maxLogLines)
	}

	mi, _ = m.Update(sweepMsg{angle: 137, visible: 4})
	m = mi.(tuiModel)
	if !strings.Contains(m.View(), "sweep=137") {
		t.Fatalf("header missing sweep angle")
	}
}

func TestTUIModelQuitKeys(t *testing.T) {
	m := newTUIModel(nil, 80, 24)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("q should quit")
	}
}
