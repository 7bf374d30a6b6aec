package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/KaramelBytes/agenthub-cli/internal/agent"
	"github.com/KaramelBytes/agenthub-cli/internal/dashboard"
	"github.com/KaramelBytes/agenthub-cli/internal/dataset"
	"github.com/KaramelBytes/agenthub-cli/internal/schema"
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"ok": true, "agent": s.cfg.AgentName})
}

func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Agent == nil {
		s.writeError(w, http.StatusServiceUnavailable, "no agent configured")
		return
	}
	var req agent.Request
	dec := json.NewDecoder(io.LimitReader(r.Body, maxUpload))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	resp, err := s.cfg.Agent.Analyze(r.Context(), req)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, agent.ErrInvalidRequest) {
			status = http.StatusBadRequest
		}
		s.logger.Warn("agent failed", "error", err, "status", status)
		s.writeError(w, status, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleSummarize reads a CSV body and returns its schema summary.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.readDataset(w, r)
	if !ok {
		return
	}
	sum, err := schema.Summarize(ds)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, sum)
}

// handleDashboard reads a CSV body and returns the composed dashboard.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.readDataset(w, r)
	if !ok {
		return
	}
	comp := &dashboard.Composer{Classifier: s.cfg.Classifier, Logger: s.logger, TopN: s.cfg.TopN, Bins: s.cfg.Bins}
	s.writeJSON(w, http.StatusOK, comp.Compose(ds))
}

func (s *Server) readDataset(w http.ResponseWriter, r *http.Request) (*dataset.Dataset, bool) {
	ds, err := dataset.ReadCSV(io.LimitReader(r.Body, maxUpload), s.cfg.Load)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid csv: "+err.Error())
		return nil, false
	}
	return ds, true
}

// writeJSON encodes v before writing the header so an encoding failure
// still reaches the client as a 500.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encode response", "error", err)
		status = http.StatusInternalServerError
		b, _ = json.Marshal(map[string]string{"error": "encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(b, '\n')); err != nil {
		s.logger.Debug("write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
