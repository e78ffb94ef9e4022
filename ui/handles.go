package ui

import (
	"encoding/json"
	"net/http"
	"strconv"

	. "github.com/JeanRibes/progression/shared"
)

type statusResponse struct {
	Status
	Errors []string `json:"errors"`
}

type outputResponse struct {
	Volts [4]float64 `json:"volts"`
	Notes []string   `json:"notes"`
}

// the names PUT /config accepts
type libraryResponse struct {
	Scales   []string `json:"scales"`
	Matrices []string `json:"matrices"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, errs := s.snapshot()
	writeJSON(w, http.StatusOK, statusResponse{Status: st, Errors: errs})
}

func (s *Server) handleOutput(w http.ResponseWriter, r *http.Request) {
	st, _ := s.snapshot()
	writeJSON(w, http.StatusOK, outputResponse{Volts: st.Volts, Notes: st.Notes})
}

func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, libraryResponse{Scales: s.lib.ScaleNames(), Matrices: s.lib.MatrixNames()})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Config())
}

// fields left out of the body keep their current value
func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.Config()
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "bad config: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.SetConfig(r.Context(), cfg); err != nil {
		s.logger.Warn("config refused", "err", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleSend(ev Event) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.send(r.Context(), Message{Type: ev}); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

// handleClock sends ?n= edges, one by default.
func (s *Server) handleClock(w http.ResponseWriter, r *http.Request) {
	n := 1
	if q := r.URL.Query().Get("n"); q != "" {
		var err error
		n, err = strconv.Atoi(q)
		if err != nil || n < 1 || n > 1024 {
			http.Error(w, "n must be between 1 and 1024", http.StatusBadRequest)
			return
		}
	}
	for i := 0; i < n; i++ {
		if err := s.send(r.Context(), Message{Type: Clock}); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusAccepted)
}
