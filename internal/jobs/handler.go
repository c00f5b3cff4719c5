package jobs

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"jobmate/jobs-service/internal/sqlgen"
)

// Handler exposes a Service over HTTP.
//
// Routes:
//
//	GET    /jobs          → list jobs (?minSalary=&hasEquity=&title=)
//	POST   /jobs          → create a job
//	GET    /jobs/{id}     → one job with its company
//	PATCH  /jobs/{id}     → partial update
//	DELETE /jobs/{id}     → delete
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts all job routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/jobs", h.handleJobs)
	mux.HandleFunc("/jobs/", h.handleJob)
}

// ─── Route dispatch ───────────────────────────────────────────────────────────

// handleJobs handles GET|POST /jobs
func (h *Handler) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listJobs(w, r)
	case http.MethodPost:
		h.createJob(w, r)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleJob handles GET|PATCH|DELETE /jobs/{id}
func (h *Handler) handleJob(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 2 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	id64, err := strconv.ParseInt(parts[1], 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		// ids are int4; nothing outside that range can exist
		jsonError(w, ErrNotFound.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "job id must be an integer", http.StatusBadRequest)
		return
	}
	id := int(id64)

	switch r.Method {
	case http.MethodGet:
		h.getJob(w, r, id)
	case http.MethodPatch:
		h.updateJob(w, r, id)
	case http.MethodDelete:
		h.removeJob(w, r, id)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	f, err := ParseFilter(r.URL.Query())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jobs, err := h.svc.FindAll(r.Context(), f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonOK(w, http.StatusOK, jobs)
}

func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	var body NewJob
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	job, err := h.svc.Create(r.Context(), body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonOK(w, http.StatusCreated, job)
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request, id int) {
	job, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonOK(w, http.StatusOK, job)
}

func (h *Handler) updateJob(w http.ResponseWriter, r *http.Request, id int) {
	var body JobUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeServiceError(w, decodeError(err))
		return
	}

	job, err := h.svc.Update(r.Context(), id, body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonOK(w, http.StatusOK, job)
}

func (h *Handler) removeJob(w http.ResponseWriter, r *http.Request, id int) {
	if err := h.svc.Remove(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	jsonOK(w, http.StatusOK, map[string]int{"deleted": id})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// decodeError keeps the typed errors raised by JobUpdate.UnmarshalJSON and
// turns any other decoding failure into a validation error.
func decodeError(err error) error {
	var (
		ve *ValidationError
		uf *sqlgen.UnknownFieldError
	)
	if errors.As(err, &ve) || errors.As(err, &uf) {
		return err
	}
	return &ValidationError{Msg: "invalid JSON body"}
}

// StatusCode maps a Service error to its HTTP status.
func StatusCode(err error) int {
	var (
		ve *ValidationError
		uf *sqlgen.UnknownFieldError
	)
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, sqlgen.ErrEmptyPayload),
		errors.As(err, &ve),
		errors.As(err, &uf):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	code := StatusCode(err)
	if code == http.StatusInternalServerError {
		slog.Error("jobs request failed", "err", err)
		jsonError(w, "database error", code)
		return
	}
	jsonError(w, err.Error(), code)
}

func jsonOK(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
