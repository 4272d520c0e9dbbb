package api

import (
	"net/http"

	"github.com/Kerhoff/giftmate/internal/models"
)

func (s *Server) handleGetFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := s.svc.Friends(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to get friends")
		s.respondError(w, http.StatusInternalServerError, "failed to get friends")
		return
	}

	s.respondJSON(w, http.StatusOK, friends)
}

func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	var req models.FriendFields
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	friend, err := s.svc.AddFriend(r.Context(), req)
	if err != nil {
		s.respondMutationError(w, err, "add friend")
		return
	}

	s.respondJSON(w, http.StatusCreated, friend)
}

func (s *Server) handleUpdateFriend(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid friend id")
		return
	}

	var req models.FriendFields
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.svc.UpdateFriend(r.Context(), id, req); err != nil {
		s.respondMutationError(w, err, "update friend")
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteFriend(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid friend id")
		return
	}

	if err := s.svc.DeleteFriend(r.Context(), id); err != nil {
		s.logger.WithError(err).Error("failed to delete friend")
		s.respondError(w, http.StatusInternalServerError, "failed to delete friend")
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleGetGiftIdeas(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid friend id")
		return
	}

	ideas, err := s.svc.GiftIdeas(r.Context(), id)
	if err != nil {
		s.logger.WithError(err).Error("failed to get gift ideas")
		s.respondError(w, http.StatusInternalServerError, "failed to get gift ideas")
		return
	}

	s.respondJSON(w, http.StatusOK, ideas)
}

func (s *Server) handleAddGiftIdea(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid friend id")
		return
	}

	var req models.GiftIdeaFields
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	idea, err := s.svc.AddGiftIdea(r.Context(), id, req)
	if err != nil {
		s.respondMutationError(w, err, "add gift idea")
		return
	}
	if idea == nil {
		s.respondError(w, http.StatusNotFound, "friend not found")
		return
	}

	s.respondJSON(w, http.StatusCreated, idea)
}

func (s *Server) handleUpdateGiftIdea(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid gift idea id")
		return
	}

	var req models.GiftIdeaFields
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.svc.UpdateGiftIdea(r.Context(), id, req); err != nil {
		s.respondMutationError(w, err, "update gift idea")
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteGiftIdea(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid gift idea id")
		return
	}

	if err := s.svc.DeleteGiftIdea(r.Context(), id); err != nil {
		s.logger.WithError(err).Error("failed to delete gift idea")
		s.respondError(w, http.StatusInternalServerError, "failed to delete gift idea")
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleGetGiftIdeaFriend(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid gift idea id")
		return
	}

	friend, err := s.svc.GiftIdeaFriend(r.Context(), id)
	if err != nil {
		s.logger.WithError(err).Error("failed to get gift idea friend")
		s.respondError(w, http.StatusInternalServerError, "failed to get gift idea friend")
		return
	}
	if friend == nil {
		s.respondError(w, http.StatusNotFound, "gift idea not found")
		return
	}

	s.respondJSON(w, http.StatusOK, friend)
}
