package api

import (
	"errors"
	"net/http"

	"github.com/Kerhoff/giftmate/internal/service"
	"github.com/Kerhoff/giftmate/internal/suggest"
)

type suggestRequest struct {
	Loves    string `json:"loves"`
	Hobbies  string `json:"hobbies"`
	Age      string `json:"age"`
	Budget   string `json:"budget"`
	Occasion string `json:"occasion"`
}

type suggestErrorResponse struct {
	Error      string `json:"error"`
	Kind       string `json:"kind"`
	StatusCode int    `json:"status_code,omitempty"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var body suggestRequest
	if ok, msg := s.decodeJSON(r, &body); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	req := suggest.NewRequest(body.Loves, body.Hobbies)
	if body.Age != "" {
		age, err := suggest.ParseAgeGroup(body.Age)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Age = age
	}
	if body.Budget != "" {
		budget, err := suggest.ParseBudget(body.Budget)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Budget = budget
	}
	if body.Occasion != "" {
		req.Occasion = body.Occasion
	}

	suggestions, err := s.svc.RequestSuggestions(r.Context(), req)
	if err != nil {
		var serr *suggest.Error
		switch {
		case errors.Is(err, suggest.ErrMissingInterests):
			s.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSuggestionsDisabled):
			s.respondError(w, http.StatusServiceUnavailable, err.Error())
		case errors.As(err, &serr):
			s.respondJSON(w, http.StatusBadGateway, suggestErrorResponse{
				Error:      serr.Error(),
				Kind:       serr.Kind.String(),
				StatusCode: serr.StatusCode,
			})
		default:
			s.logger.WithError(err).Error("failed to get suggestions")
			s.respondError(w, http.StatusInternalServerError, "failed to get suggestions")
		}
		return
	}

	s.respondJSON(w, http.StatusOK, suggestions)
}
