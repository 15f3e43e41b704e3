package admin

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"sentinel-sim/internal/sim"
)

// Server exposes the simulator state over HTTP so the dashboard views
// stay in sync with the tick loop.
type Server struct {
	Sim *sim.Simulator
	tpl *template.Template
}

//go:embed templates/index.html
var content embed.FS

func NewServer(simulator *sim.Simulator) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{Sim: simulator, tpl: tpl}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/threats", s.handleThreats)
	mux.HandleFunc("/targets", s.handleTargets)
	mux.HandleFunc("/sweep", s.handleSweep)
	mux.HandleFunc("/counts", s.handleCounts)
	mux.HandleFunc("/neutralize", s.handleNeutralize)
	mux.HandleFunc("/sensitivity", s.handleSensitivity)
	return mux
}

// Start serves the control UI until ctx is cancelled, then shuts the
// listener down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	return srv.ListenAndServe()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		SessionID   string
		Defended    string
		Sensitivity float64
		Threats     []sim.ThreatView
	}{
		SessionID:   s.Sim.SessionID(),
		Defended:    s.Sim.Config().DefendedPosition.Name,
		Sensitivity: s.Sim.Sensitivity(),
		Threats:     s.Sim.ThreatSnapshot(),
	}
	s.tpl.Execute(w, data)
}

func (s *Server) handleThreats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sim.ThreatSnapshot())
}

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	x, y, locked := s.Sim.Reticle()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"targets": s.Sim.TargetSnapshot(),
		"reticle": map[string]any{"x": x, "y": y, "locked": locked},
	})
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sim.Sweep())
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sim.ThreatCounts())
}

func (s *Server) handleNeutralize(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}
	s.Sim.Neutralize(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("value")
	if raw == "" {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"sensitivity": s.Sim.Sensitivity()})
		return
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		http.Error(w, "invalid value", http.StatusBadRequest)
		return
	}
	s.Sim.SetSensitivity(v)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"sensitivity": s.Sim.Sensitivity()})
}
