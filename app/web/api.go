package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"

	"github.com/umputun/jobtrack/app/service"
	"github.com/umputun/jobtrack/app/service/request"
	"github.com/umputun/jobtrack/app/store"
)

// DeleteResponse is the JSON response for DELETE /applications/{id}
type DeleteResponse struct {
	Deleted bool  `json:"deleted"`
	ID      int64 `json:"id"`
}

// handleHealth reports the service is up
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, rest.JSON{"ok": true})
}

// handleList returns applications filtered by q, status and city query params
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	f := store.Filter{Query: query.Get("q"), Status: query.Get("status"), City: query.Get("city")}

	apps, err := s.apps.List(r.Context(), f)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, apps)
}

// handleGet returns a single application by id
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	app, err := s.apps.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, app)
}

// handleCreate creates a new application from JSON body
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req request.Create
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	app, err := s.apps.Create(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, app)
}

// handleUpdate applies partial update from JSON body, only fields present in the body are considered
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var patch request.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	app, err := s.apps.Update(r.Context(), id, patch)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, app)
}

// handleDelete removes the application
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.apps.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, DeleteResponse{Deleted: true, ID: id})
}

// handleSchema returns JSON schema of the application record
func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.schema)
}

// pathID parses {id} path value, writes 400 response if it is not an integer
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid application id")
		return 0, false
	}
	return id, true
}

// writeServiceError maps service errors to HTTP status codes
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		s.writeJSON(w, http.StatusUnprocessableEntity, rest.JSON{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, service.ErrNotFound):
		s.writeJSONError(w, http.StatusNotFound, "application not found")
	default:
		log.Printf("[ERROR] %v", err)
		s.writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[WARN] failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes a JSON error response
func (s *Server) writeJSONError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, rest.JSON{"error": message})
}
