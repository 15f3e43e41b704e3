package sim

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"sentinel-sim/internal/threat"
	"sentinel-sim/internal/vision"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// contactMsg carries a contact log line.
type contactMsg struct{ line string }

// threatsMsg carries the latest threat state batch.
type threatsMsg struct{ rows []threat.Row }

// sweepMsg carries the sweep angle and visible count.
type sweepMsg struct {
	angle   float64
	visible int
}

const maxLogLines = 200

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	lockStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("201"))
	levelStyles = map[threat.Level]lipgloss.Style{
		threat.LevelCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		threat.LevelHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		threat.LevelMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		threat.LevelLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
	}
)

// TUIWriter renders contact and threat rows in a bubbletea dashboard.
type TUIWriter struct {
	program teaProgram
	done    chan struct{}
}

// NewTUIWriter starts the bubbletea program. neutralize is invoked with
// the selected threat id when the operator presses "n"; it may be nil.
func NewTUIWriter(neutralize func(id string), width, height int) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	m := newTUIModel(neutralize, width, height)
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
	}()
	return w
}

// Done is closed when the TUI exits.
func (w *TUIWriter) Done() <-chan struct{} { return w.done }

// WriteContact implements ContactWriter.
func (w *TUIWriter) WriteContact(row vision.ContactRow) error {
	lock := ""
	if row.Locked {
		lock = " " + lockStyle.Render("LOCK")
	}
	line := fmt.Sprintf("[%s] contact target=%s pos=(%.1f,%.1f) size=%.1fx%.1f conf=%.1f%s",
		row.Timestamp.Format(time.TimeOnly), shortID(row.TargetID),
		row.X, row.Y, row.Width, row.Height, row.Confidence, lock)
	w.program.Send(contactMsg{line: line})
	return nil
}

// WriteThreats implements batch threat writing; the whole batch becomes
// one table refresh.
func (w *TUIWriter) WriteThreats(rows []threat.Row) error {
	w.program.Send(threatsMsg{rows: rows})
	return nil
}

// WriteThreat implements ThreatWriter.
func (w *TUIWriter) WriteThreat(row threat.Row) error {
	return w.WriteThreats([]threat.Row{row})
}

// SetSweep updates the sweep status line.
func (w *TUIWriter) SetSweep(angle float64, visible int) {
	w.program.Send(sweepMsg{angle: angle, visible: visible})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

type tuiModel struct {
	neutralize func(string)
	tbl        table.Model
	vp         viewport.Model
	lines      []string
	ids        []string
	angle      float64
	visible    int
	width      int
	height     int
}

func newTUIModel(neutralize func(string), width, height int) tuiModel {
	cols := []table.Column{
		{Title: "Origin", Width: 14},
		{Title: "Kind", Width: 9},
		{Title: "Level", Width: 8},
		{Title: "Dist km", Width: 8},
		{Title: "ETA s", Width: 7},
		{Title: "Prog", Width: 5},
		{Title: "Brg", Width: 5},
	}
	tbl := table.New(table.WithColumns(cols), table.WithFocused(true), table.WithHeight(10))
	vp := viewport.New(width, 10)
	return tuiModel{neutralize: neutralize, tbl: tbl, vp: vp, width: width, height: height}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.vp.Height = max(3, msg.Height/3)
		m.tbl.SetHeight(max(3, msg.Height/3))
		m.refreshLog()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "n":
			if m.neutralize != nil {
				if i := m.tbl.Cursor(); i >= 0 && i < len(m.ids) {
					m.neutralize(m.ids[i])
				}
			}
		default:
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return m, cmd
		}
	case contactMsg:
		m.lines = append(m.lines, msg.line)
		if len(m.lines) > maxLogLines {
			m.lines = m.lines[len(m.lines)-maxLogLines:]
		}
		m.refreshLog()
	case threatsMsg:
		m.setThreats(msg.rows)
	case sweepMsg:
		m.angle = msg.angle
		m.visible = msg.visible
	}
	return m, nil
}

func (m *tuiModel) setThreats(rows []threat.Row) {
	var trs []table.Row
	m.ids = m.ids[:0]
	for _, r := range rows {
		level := string(r.Level)
		if st, ok := levelStyles[r.Level]; ok {
			level = st.Render(level)
		}
		trs = append(trs, table.Row{
			r.OriginName,
			string(r.Kind),
			level,
			fmt.Sprintf("%.0f", r.DistanceKm),
			fmt.Sprintf("%.0f", r.ETASeconds),
			fmt.Sprintf("%.2f", r.Progress),
			fmt.Sprintf("%.0f", r.BearingDeg),
		})
		m.ids = append(m.ids, r.ThreatID)
	}
	m.tbl.SetRows(trs)
}

func (m *tuiModel) refreshLog() {
	wrapped := make([]string, 0, len(m.lines))
	for _, l := range m.lines {
		wrapped = append(wrapped, wordwrap.String(l, max(10, m.vp.Width)))
	}
	m.vp.SetContent(joinLines(wrapped))
	m.vp.GotoBottom()
}

func (m tuiModel) View() string {
	header := titleStyle.Render("SENTINEL") +
		fmt.Sprintf("  sweep=%.0f°  visible=%d  [n]eutralize [q]uit", m.angle, m.visible)
	return lipgloss.JoinVertical(lipgloss.Left, header, m.tbl.View(), m.vp.View())
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
