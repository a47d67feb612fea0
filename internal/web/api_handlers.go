package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/evcraddock/prospect-tracker/internal/prospect"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Warn("encoding error response", "error", err)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encoding response", "error", err)
	}
}

// storeError maps a store error to a response. Storage failures are logged
// and reported without detail.
func storeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *prospect.ValidationError
	switch {
	case errors.As(err, &verr):
		apiError(w, verr.Error(), http.StatusBadRequest)
	case errors.Is(err, prospect.ErrNotFound):
		apiError(w, "prospect not found", http.StatusNotFound)
	default:
		slog.ErrorContext(r.Context(), op, "error", err, "path", r.URL.Path)
		apiError(w, "internal server error", http.StatusInternalServerError)
	}
}

// decodeBody reads a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

// prospectID parses the {id} URL parameter.
func prospectID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		apiError(w, "invalid prospect ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// apiListProspects returns prospects matching the query filters.
func (s *Server) apiListProspects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := prospect.ListOptions{
		Status:       prospect.Status(q.Get("status")),
		BusinessType: q.Get("business_type"),
		Location:     q.Get("location"),
		SortBy:       q.Get("sort_by"),
		SortOrder:    q.Get("sort_order"),
	}

	props, err := s.store.List(r.Context(), opts)
	if err != nil {
		storeError(w, r, "listing prospects", err)
		return
	}
	apiJSON(w, props, http.StatusOK)
}

func (s *Server) apiCreateProspect(w http.ResponseWriter, r *http.Request) {
	var in prospect.NewProspect
	if !decodeBody(w, r, &in) {
		return
	}

	p, err := s.store.Create(r.Context(), in)
	if err != nil {
		storeError(w, r, "creating prospect", err)
		return
	}
	apiJSON(w, p, http.StatusCreated)
}

func (s *Server) apiGetProspect(w http.ResponseWriter, r *http.Request) {
	id, ok := prospectID(w, r)
	if !ok {
		return
	}

	p, err := s.store.Get(r.Context(), id)
	if err != nil {
		storeError(w, r, "getting prospect", err)
		return
	}
	apiJSON(w, p, http.StatusOK)
}

// apiUpdateProspect applies a partial update. PUT and PATCH behave the same:
// only the fields present in the body change.
func (s *Server) apiUpdateProspect(w http.ResponseWriter, r *http.Request) {
	id, ok := prospectID(w, r)
	if !ok {
		return
	}

	var patch prospect.Patch
	if !decodeBody(w, r, &patch) {
		return
	}

	p, err := s.store.Update(r.Context(), id, patch)
	if err != nil {
		storeError(w, r, "updating prospect", err)
		return
	}
	slog.Debug("prospect updated", "id", id, "patch", patch.String())
	apiJSON(w, p, http.StatusOK)
}

func (s *Server) apiDeleteProspect(w http.ResponseWriter, r *http.Request) {
	id, ok := prospectID(w, r)
	if !ok {
		return
	}

	removed, err := s.store.Delete(r.Context(), id)
	if err != nil {
		storeError(w, r, "deleting prospect", err)
		return
	}
	if !removed {
		apiError(w, "prospect not found", http.StatusNotFound)
		return
	}
	apiJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

// logContactRequest is the body of POST /api/prospects/{id}/log-contact.
type logContactRequest struct {
	Note         string  `json:"note"`
	NextFollowup *string `json:"next_followup"`
}

func (s *Server) apiLogContact(w http.ResponseWriter, r *http.Request) {
	id, ok := prospectID(w, r)
	if !ok {
		return
	}

	var req logContactRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := s.store.LogContact(r.Context(), id, req.Note, req.NextFollowup)
	if err != nil {
		storeError(w, r, "logging contact", err)
		return
	}
	apiJSON(w, p, http.StatusOK)
}

func (s *Server) apiActivityLog(w http.ResponseWriter, r *http.Request) {
	id, ok := prospectID(w, r)
	if !ok {
		return
	}

	entries, err := s.store.ActivityLog(r.Context(), id)
	if err != nil {
		storeError(w, r, "listing activity", err)
		return
	}
	apiJSON(w, entries, http.StatusOK)
}

func (s *Server) apiStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Stats(r.Context())
	if err != nil {
		storeError(w, r, "computing stats", err)
		return
	}
	apiJSON(w, st, http.StatusOK)
}

func (s *Server) apiFilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.store.FilterOptions(r.Context())
	if err != nil {
		storeError(w, r, "listing filter options", err)
		return
	}
	apiJSON(w, opts, http.StatusOK)
}
