// Package web implements the public HTTP surface of the listings site.
//
// Routes:
//
//	GET /buckets                → navigation buckets with counts
//	GET /jobs/{bucket}          → filtered, paginated listing (facets via query)
//	GET /job/{id}[/{slug}]      → job detail with related/latest side panels
//
// All responses are derived from the feed's latest snapshot; a detail request
// for an ID missing from the snapshot falls back to a point read.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/RamD446/allindiajobs/internal/catalog"
	"github.com/RamD446/allindiajobs/internal/store"
)

// Getter is the point-read slice of the job record store.
type Getter interface {
	GetOnce(ctx context.Context, id string) (catalog.Job, error)
}

// VisitRecorder counts public traffic. Implementations must be non-blocking
// on failure.
type VisitRecorder interface {
	RecordVisit(ctx context.Context, now time.Time)
	RecordJobClick(ctx context.Context)
}

// Handler holds shared dependencies for the public routes.
type Handler struct {
	feed     *catalog.Feed
	getter   Getter
	visits   VisitRecorder
	pageSize int
}

// NewHandler returns a configured Handler.
func NewHandler(feed *catalog.Feed, getter Getter, visits VisitRecorder, pageSize int) *Handler {
	if pageSize < 1 {
		pageSize = catalog.DefaultPageSize
	}
	return &Handler{feed: feed, getter: getter, visits: visits, pageSize: pageSize}
}

// RegisterRoutes mounts the public routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/buckets", h.handleBuckets)
	mux.HandleFunc("/jobs", h.handleListing)
	mux.HandleFunc("/jobs/", h.handleListing)
	mux.HandleFunc("/job", h.handleDetail)
	mux.HandleFunc("/job/", h.handleDetail)
}

// ─── Response types ───────────────────────────────────────────────────────────

// jobView decorates a posting with its display badges and URL slug.
type jobView struct {
	catalog.Job
	Slug              string `json:"slug"`
	PostedToday       bool   `json:"postedToday"`
	WalkInActiveToday bool   `json:"walkInActiveToday"`
	Expired           bool   `json:"expired"`
}

type listingResponse struct {
	Bucket     string    `json:"bucket"`
	Title      string    `json:"title"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
	TotalJobs  int       `json:"totalJobs"`
	FreshJobs  int       `json:"freshJobs"`
	UrgentJobs int       `json:"urgentJobs"`
	Jobs       []jobView `json:"jobs"`
}

type detailResponse struct {
	Job         jobView   `json:"job"`
	RelatedJobs []jobView `json:"relatedJobs"`
	LatestJobs  []jobView `json:"latestJobs"`
}

type bucketView struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

func toView(job catalog.Job, bucketKey string, now time.Time) jobView {
	return jobView{
		Job:               job,
		Slug:              catalog.Slug(job.Title),
		PostedToday:       catalog.PostedToday(job, now),
		WalkInActiveToday: catalog.WalkInActiveToday(job, now),
		Expired:           catalog.Expired(job, bucketKey, now),
	}
}

func toViews(jobs []catalog.Job, bucketKey string, now time.Time) []jobView {
	out := make([]jobView, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, toView(job, bucketKey, now))
	}
	return out
}

// toPanelViews renders a mixed-category side panel. Expiry is judged per job
// against its home bucket, so an ended walk-in drive shows as expired even in
// the latest panel.
func toPanelViews(jobs []catalog.Job, now time.Time) []jobView {
	out := make([]jobView, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, toView(job, catalog.BucketForCategory(job.Category), now))
	}
	return out
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

func (h *Handler) handleBuckets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot := h.feed.Snapshot()
	views := make([]bucketView, 0)
	for _, b := range catalog.Buckets() {
		count := 0
		for _, job := range snapshot {
			if catalog.Classify(job, b.Key) {
				count++
			}
		}
		views = append(views, bucketView{Key: b.Key, Title: b.Title, Count: count})
	}
	writeJSON(w, http.StatusOK, views)
}

// handleListing serves GET /jobs/{bucket}. Facets arrive as repeated query
// params (company, type, experience, salary); page as ?page=N.
func (h *Handler) handleListing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.visits.RecordVisit(r.Context(), time.Now())

	parts := splitPath(r.URL.Path)
	bucketKey := catalog.BucketAllLatest
	if len(parts) >= 2 {
		bucketKey = parts[1]
	}
	bucket := catalog.LookupBucket(bucketKey)

	q := r.URL.Query()
	page := 1
	if raw := q.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			jsonError(w, "page must be a positive integer", http.StatusBadRequest)
			return
		}
		page = v
	}

	state := catalog.ViewState{
		Bucket: bucket.Key,
		Facets: catalog.Facets{
			Companies:  q["company"],
			Types:      q["type"],
			Experience: q["experience"],
			Salaries:   q["salary"],
		},
		Page: page,
	}

	filtered := catalog.Apply(h.feed.Snapshot(), state)
	now := time.Now()
	pageJobs := catalog.Page(filtered, h.pageSize, state.Page)

	writeJSON(w, http.StatusOK, listingResponse{
		Bucket:     bucket.Key,
		Title:      bucket.Title,
		Page:       state.Page,
		TotalPages: catalog.TotalPages(len(filtered), h.pageSize),
		TotalJobs:  len(filtered),
		FreshJobs:  catalog.FreshCount(filtered, now),
		UrgentJobs: catalog.UrgentCount(filtered, now),
		Jobs:       toViews(pageJobs, bucket.Key, now),
	})
}

// handleDetail serves GET /job/{id} and GET /job/{id}/{slug}. The slug is
// cosmetic; lookups go by ID only. A request without an ID redirects to the
// default listing.
func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := splitPath(r.URL.Path)
	if len(parts) < 2 || parts[1] == "" {
		http.Redirect(w, r, "/jobs/"+catalog.BucketAllLatest, http.StatusFound)
		return
	}
	id := parts[1]

	job, ok := h.feed.Find(id)
	if !ok {
		var err error
		job, err = h.getter.GetOnce(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "job not found", http.StatusNotFound)
			return
		}
		if err != nil {
			jsonError(w, "store error", http.StatusInternalServerError)
			return
		}
	}

	h.visits.RecordVisit(r.Context(), time.Now())
	h.visits.RecordJobClick(r.Context())

	now := time.Now()
	bucketKey := catalog.BucketForCategory(job.Category)
	window := catalog.LatestWindow(h.feed.Snapshot(), catalog.DefaultWindowSize)

	related := catalog.RelatedTo(job, window, catalog.DefaultRelatedLimit)

	// Latest side panel: the window minus the current posting, capped at 20.
	latest := make([]catalog.Job, 0, len(window))
	for _, j := range window {
		if j.ID == job.ID {
			continue
		}
		latest = append(latest, j)
		if len(latest) == 20 {
			break
		}
	}

	writeJSON(w, http.StatusOK, detailResponse{
		Job:         toView(job, bucketKey, now),
		RelatedJobs: toPanelViews(related, now),
		LatestJobs:  toPanelViews(latest, now),
	})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
