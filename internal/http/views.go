package httpserver

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/Clark-Hu/ratings-dashboard/internal/chart"
	"github.com/Clark-Hu/ratings-dashboard/internal/metrics"
	"github.com/Clark-Hu/ratings-dashboard/internal/pipeline"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type viewListResponse struct {
	Items []pipeline.View `json:"items"`
}

type viewDataResponse struct {
	View pipeline.View `json:"view"`
	Data any           `json:"data"`
}

func (s *Server) handleListViews(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, viewListResponse{Items: pipeline.Views()})
}

// handleFigure always answers 200: unknown ids get the empty placeholder
// figure so the page can draw something for any dropdown value.
func (s *Server) handleFigure(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "view")
	fig, known := chart.Render(s.pipeline, id)
	metrics.RecordView(id, known)
	if !known {
		s.logger.Debug().Str("view", id).Msg("http: unknown view, rendering placeholder")
	}
	s.respondJSON(w, http.StatusOK, fig)
}

func (s *Server) handleViewData(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "view")
	view, ok := pipeline.LookupView(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Unknown view")
		return
	}
	data, _ := s.pipeline.Data(id)
	s.respondJSON(w, http.StatusOK, viewDataResponse{View: view, Data: data})
}

// respondJSON encodes before writing the header; encoding failures become a
// 500 with the error envelope.
func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	var buf bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			s.logger.Error().Err(err).Msg("http: failed to encode response")
			status = http.StatusInternalServerError
			buf.Reset()
			_ = json.NewEncoder(&buf).Encode(errorResponse{Code: "INTERNAL_ERROR", Message: "Failed to encode response"})
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
