package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"saldo/internal/core"
)

type createGroupRequest struct {
	Name    string        `json:"name"`
	Members []core.Member `json:"members"`
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createGroup(w, r)
	case http.MethodGet:
		s.listGroups(w, r)
	default:
		errorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	g := core.Group{Name: req.Name, Members: req.Members}
	if err := g.Validate(); err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := s.groups.CreateGroup(r.Context(), g)
	if err != nil {
		if errors.Is(err, core.ErrEmptyGroupName) || errors.Is(err, core.ErrNoGroupMembers) {
			errorJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to create group", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to create group")
		return
	}

	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.ListGroups(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list groups", "error", err)
		errorJSON(w, http.StatusInternalServerError, "failed to list groups")
		return
	}
	if groups == nil {
		groups = []core.Group{}
	}

	writeJSON(w, http.StatusOK, groups)
}
