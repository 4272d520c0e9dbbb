package api

import (
	"errors"
	"net/http"

	"github.com/Kerhoff/giftmate/internal/models"
)

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
	Icon string `json:"icon"`
}

// respondMutationError maps service errors of a create or update call.
func (s *Server) respondMutationError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, models.ErrEmptyName) {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.WithError(err).Error("failed to " + what)
	s.respondError(w, http.StatusInternalServerError, "failed to "+what)
}

func (s *Server) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.svc.Categories(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to get categories")
		s.respondError(w, http.StatusInternalServerError, "failed to get categories")
		return
	}

	s.respondJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := s.svc.CreateCategory(r.Context(), req.Name, req.Icon)
	if err != nil {
		s.respondMutationError(w, err, "create category")
		return
	}

	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req categoryRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.svc.UpdateCategory(r.Context(), id, req.Name, req.Icon); err != nil {
		s.respondMutationError(w, err, "update category")
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := s.svc.DeleteCategory(r.Context(), id); err != nil {
		s.logger.WithError(err).Error("failed to delete category")
		s.respondError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleGetItems(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	items, err := s.svc.Items(r.Context(), id)
	if err != nil {
		s.logger.WithError(err).Error("failed to get items")
		s.respondError(w, http.StatusInternalServerError, "failed to get items")
		return
	}

	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req models.ItemFields
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	item, err := s.svc.AddItem(r.Context(), id, req)
	if err != nil {
		s.respondMutationError(w, err, "add item")
		return
	}
	if item == nil {
		s.respondError(w, http.StatusNotFound, "category not found")
		return
	}

	s.respondJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req models.ItemFields
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.svc.UpdateItem(r.Context(), id, req); err != nil {
		s.respondMutationError(w, err, "update item")
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := s.svc.DeleteItem(r.Context(), id); err != nil {
		s.logger.WithError(err).Error("failed to delete item")
		s.respondError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleMarkPurchased(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	purchased, err := s.svc.MarkPurchased(r.Context(), id)
	if err != nil {
		s.logger.WithError(err).Error("failed to mark item as purchased")
		s.respondError(w, http.StatusInternalServerError, "failed to mark item as purchased")
		return
	}
	if purchased == nil {
		s.respondError(w, http.StatusNotFound, "item not found")
		return
	}

	s.respondJSON(w, http.StatusOK, purchased)
}

func (s *Server) handleGetItemCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	category, err := s.svc.ItemCategory(r.Context(), id)
	if err != nil {
		s.logger.WithError(err).Error("failed to get item category")
		s.respondError(w, http.StatusInternalServerError, "failed to get item category")
		return
	}
	if category == nil {
		s.respondError(w, http.StatusNotFound, "item not found")
		return
	}

	s.respondJSON(w, http.StatusOK, category)
}
