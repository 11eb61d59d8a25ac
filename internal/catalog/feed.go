package catalog

import (
	"log/slog"
	"sync"
)

// Feed is the subscriber side of the store's push model: it holds the latest
// full snapshot of the job collection and replaces it wholesale on every
// callback. Handlers read from it; only the store subscription writes to it.
type Feed struct {
	mu   sync.RWMutex
	jobs []Job
}

// NewFeed returns an empty feed awaiting its first snapshot.
func NewFeed() *Feed {
	return &Feed{jobs: []Job{}}
}

// Replace installs a new authoritative snapshot. Wired to store.Subscribe.
func (f *Feed) Replace(jobs []Job) {
	f.mu.Lock()
	f.jobs = jobs
	f.mu.Unlock()
}

// Fail handles a subscription error: the feed falls back to an empty result
// set rather than serving a half-broken view. The store's reconnect loop
// will deliver a fresh snapshot once connectivity returns.
func (f *Feed) Fail(err error) {
	slog.Warn("job feed subscription error", "err", err)
	f.Replace([]Job{})
}

// Snapshot returns the current snapshot. Callers must treat it as read-only;
// the pipeline functions copy before sorting.
func (f *Feed) Snapshot() []Job {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.jobs
}

// Find returns the posting with the given ID from the current snapshot.
func (f *Feed) Find(id string) (Job, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, job := range f.jobs {
		if job.ID == id {
			return job, true
		}
	}
	return Job{}, false
}
