// Package admin implements the authenticated management API.
//
// Routes:
//
//	POST   /admin/login            → sign in, returns a session token
//	POST   /admin/logout           → drop the session
//	GET    /admin/jobs             → full collection, newest first
//	POST   /admin/jobs             → create posting
//	PUT    /admin/jobs/{id}        → full field replace
//	PATCH  /admin/jobs/{id}        → partial update
//	DELETE /admin/jobs/{id}        → remove posting
//	GET    /admin/stats            → visitor counters + posting totals
//
// Everything except login requires "Authorization: Bearer <token>". Write
// failures are surfaced to the acting admin as blocking JSON errors; nothing
// is retried and no partial state is kept locally.
package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/RamD446/allindiajobs/internal/auth"
	"github.com/RamD446/allindiajobs/internal/catalog"
	"github.com/RamD446/allindiajobs/internal/stats"
	"github.com/RamD446/allindiajobs/internal/store"
)

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// Handler holds shared dependencies for the admin routes.
type Handler struct {
	store *store.Store
	auth  *auth.Service
	feed  *catalog.Feed
	stats *stats.Recorder
}

// NewHandler returns a configured Handler.
func NewHandler(st *store.Store, authSvc *auth.Service, feed *catalog.Feed, rec *stats.Recorder) *Handler {
	return &Handler{store: st, auth: authSvc, feed: feed, stats: rec}
}

// RegisterRoutes mounts all admin routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/admin/login", h.handleLogin)
	mux.HandleFunc("/admin/logout", h.auth.Middleware(h.handleLogout))
	mux.HandleFunc("/admin/jobs", h.auth.Middleware(h.handleJobs))
	mux.HandleFunc("/admin/jobs/", h.auth.Middleware(h.handleJobByID))
	mux.HandleFunc("/admin/stats", h.auth.Middleware(h.handleStats))
}

// ─── Auth ─────────────────────────────────────────────────────────────────────

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.auth.SignIn(r.Context(), body.Email, body.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		jsonError(w, "invalid email or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Printf("[listing-service] Login error: %v", err)
		jsonError(w, "login failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.auth.SignOut(r.Context(), auth.BearerToken(r)); err != nil {
		log.Printf("[listing-service] Logout error: %v", err)
		jsonError(w, "logout failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// ─── Job CRUD ─────────────────────────────────────────────────────────────────

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

func (h *Handler) listJobs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalog.SortNewestFirst(h.feed.Snapshot()))
}

func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	var job catalog.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validateJob(job); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	job.Category = catalog.NormalizeCategory(job.Category)

	id, err := h.store.Append(r.Context(), job)
	if err != nil {
		log.Printf("[listing-service] Create job error: %v", err)
		jsonError(w, "failed to create job", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// handleJobByID dispatches PUT/PATCH/DELETE /admin/jobs/{id}.
func (h *Handler) handleJobByID(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	id := parts[2]

	switch r.Method {
	case http.MethodPut:
		h.replaceJob(w, r, id)
	case http.MethodPatch:
		h.patchJob(w, r, id)
	case http.MethodDelete:
		h.deleteJob(w, r, id)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) replaceJob(w http.ResponseWriter, r *http.Request, id string) {
	var job catalog.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validateJob(job); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	job.Category = catalog.NormalizeCategory(job.Category)

	if err := h.store.Replace(r.Context(), id, job); err != nil {
		h.writeStoreError(w, "update", id, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *Handler) patchJob(w http.ResponseWriter, r *http.Request, id string) {
	var partial map[string]any
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if raw, ok := partial["category"].(string); ok {
		partial["category"] = catalog.NormalizeCategory(raw)
	}

	if err := h.store.Patch(r.Context(), id, partial); err != nil {
		h.writeStoreError(w, "patch", id, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *Handler) deleteJob(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, "delete", id, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) writeStoreError(w http.ResponseWriter, op, id string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	log.Printf("[listing-service] %s job %s error: %v", op, id, err)
	jsonError(w, fmt.Sprintf("failed to %s job", op), http.StatusInternalServerError)
}

// ─── Dashboard ────────────────────────────────────────────────────────────────

type dashboardResponse struct {
	Visitors   *stats.Counters `json:"visitors"`
	TotalJobs  int             `json:"totalJobs"`
	TodayJobs  int             `json:"todayJobs"`
	ActiveJobs int             `json:"activeJobs"`
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	now := time.Now()
	counters, err := h.stats.Read(r.Context(), now)
	if err != nil {
		log.Printf("[listing-service] Read stats error: %v", err)
		jsonError(w, "failed to read stats", http.StatusInternalServerError)
		return
	}

	snapshot := h.feed.Snapshot()
	today, active := 0, 0
	for _, job := range snapshot {
		if catalog.PostedToday(job, now) {
			today++
		}
		if !catalog.Expired(job, catalog.BucketForCategory(job.Category), now) {
			active++
		}
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Visitors:   counters,
		TotalJobs:  len(snapshot),
		TodayJobs:  today,
		ActiveJobs: active,
	})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func validateJob(job catalog.Job) error {
	var missing []string
	if strings.TrimSpace(job.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(job.Company) == "" {
		missing = append(missing, "company")
	}
	if strings.TrimSpace(job.Category) == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return &ValidationError{Msg: "missing required fields: " + strings.Join(missing, ", ")}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
