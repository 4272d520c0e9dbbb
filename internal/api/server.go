package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/giftmate/internal/service"
)

// Server provides the HTTP API.
type Server struct {
	svc      *service.Service
	logger   *logrus.Logger
	mux      *http.ServeMux
	validate *validator.Validate
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, logger *logrus.Logger) *Server {
	s := &Server{
		svc:      svc,
		logger:   logger,
		mux:      http.NewServeMux(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	// API – Wishlist
	s.mux.HandleFunc("GET /api/categories", s.handleGetCategories)
	s.mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	s.mux.HandleFunc("GET /api/categories/stream", s.handleStreamCategories)
	s.mux.HandleFunc("PUT /api/categories/{id}", s.handleUpdateCategory)
	s.mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)
	s.mux.HandleFunc("GET /api/categories/{id}/items", s.handleGetItems)
	s.mux.HandleFunc("POST /api/categories/{id}/items", s.handleAddItem)
	s.mux.HandleFunc("PUT /api/items/{id}", s.handleUpdateItem)
	s.mux.HandleFunc("DELETE /api/items/{id}", s.handleDeleteItem)
	s.mux.HandleFunc("POST /api/items/{id}/purchase", s.handleMarkPurchased)
	s.mux.HandleFunc("GET /api/items/{id}/category", s.handleGetItemCategory)

	// API – Friends
	s.mux.HandleFunc("GET /api/friends", s.handleGetFriends)
	s.mux.HandleFunc("POST /api/friends", s.handleAddFriend)
	s.mux.HandleFunc("PUT /api/friends/{id}", s.handleUpdateFriend)
	s.mux.HandleFunc("DELETE /api/friends/{id}", s.handleDeleteFriend)
	s.mux.HandleFunc("GET /api/friends/{id}/ideas", s.handleGetGiftIdeas)
	s.mux.HandleFunc("POST /api/friends/{id}/ideas", s.handleAddGiftIdea)
	s.mux.HandleFunc("PUT /api/ideas/{id}", s.handleUpdateGiftIdea)
	s.mux.HandleFunc("DELETE /api/ideas/{id}", s.handleDeleteGiftIdea)
	s.mux.HandleFunc("GET /api/ideas/{id}/friend", s.handleGetGiftIdeaFriend)

	// API – Birthdays
	s.mux.HandleFunc("GET /api/birthdays", s.handleGetBirthdays)
	s.mux.HandleFunc("GET /api/birthdays/stream", s.handleStreamBirthdays)

	// API – Suggestions
	s.mux.HandleFunc("POST /api/suggestions", s.handleSuggest)
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads the request body into dst and validates it. The caller
// should return immediately when ok == false.
func (s *Server) decodeJSON(r *http.Request, dst any) (ok bool, errMsg string) {
	if r.Body == nil || r.Body == http.NoBody {
		return false, "request body is empty"
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return false, fmt.Sprintf("invalid JSON: %v", err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return false, validationMessage(err)
	}
	return true, ""
}

// validationMessage turns validator errors into "name is required" style text.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// pathID extracts the {id} path value.
func pathID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		return "", fmt.Errorf("missing id in path")
	}
	return id, nil
}
