package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jpalmerr/bugboard/internal/repository"
)

// maxBodySize limits request bodies to 1MB.
const maxBodySize = 1 << 20

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func (s *Server) handleListBugs(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.repo.List())
}

func (s *Server) handleGetBug(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bugID(w, r)
	if !ok {
		return
	}

	bug, err := s.repo.Get(id)
	if err != nil {
		s.writeRepositoryError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, bug)
}

func (s *Server) handleCreateBug(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readValidBody(w, r, createBugSchema)
	if !ok {
		return
	}

	var in repository.Bug
	if err := json.Unmarshal(body, &in); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.writeJSON(w, http.StatusCreated, s.repo.Create(in))
}

func (s *Server) handleUpdateBug(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bugID(w, r)
	if !ok {
		return
	}

	body, ok := s.readValidBody(w, r, patchBugSchema)
	if !ok {
		return
	}

	var patch repository.Patch
	if err := json.Unmarshal(body, &patch); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	bug, err := s.repo.Update(id, patch)
	if err != nil {
		s.writeRepositoryError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, bug)
}

func (s *Server) handleDeleteBug(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bugID(w, r)
	if !ok {
		return
	}

	if err := s.repo.Delete(id); err != nil {
		s.writeRepositoryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// bugID parses the {id} URL parameter, writing a 400 on failure.
func (s *Server) bugID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		s.writeError(w, http.StatusBadRequest, "bug id must be a positive integer")
		return 0, false
	}
	return id, true
}

// readValidBody reads the request body and validates it against schema,
// writing a 400 on failure.
func (s *Server) readValidBody(w http.ResponseWriter, r *http.Request, schema *bodySchema) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}

	if problems := schema.validate(body); len(problems) > 0 {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "request body does not match schema",
			Details: problems,
		})
		return nil, false
	}
	return body, true
}

func (s *Server) writeRepositoryError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.logger.Error("repository error", "error", err)
	s.writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
