// Package store implements the realtime job document collection on top of
// PostgreSQL: schemaless JSONB documents keyed by generated IDs, with a
// push-subscription model: subscribers receive the full collection as a
// snapshot on subscribe and again after every mutation, driven by
// LISTEN/NOTIFY. Consumers never see incremental diffs; each snapshot is
// authoritative.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RamD446/allindiajobs/internal/catalog"
)

// ErrNotFound is returned when a document ID has no row.
var ErrNotFound = fmt.Errorf("job not found")

const notifyChannel = "jobs_changed"

// reconnectDelay paces LISTEN reconnection attempts after a dropped
// connection.
const reconnectDelay = 5 * time.Second

// subscriber serializes callback delivery through its own mutex so that
// unsubscribe can block out future deliveries without holding the store lock
// across user code.
type subscriber struct {
	mu         sync.Mutex
	gone       bool
	lastSeq    uint64
	onSnapshot func([]catalog.Job)
	onError    func(error)
}

// deliver invokes onSnapshot unless the subscription has been released or a
// newer snapshot was already delivered. Snapshots are stamped with a sequence
// number under the store lock, so a slow initial delivery can never clobber a
// concurrent broadcast that overtook it.
func (sub *subscriber) deliver(seq uint64, jobs []catalog.Job) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.gone || seq <= sub.lastSeq {
		return
	}
	sub.lastSeq = seq
	sub.onSnapshot(jobs)
}

func (sub *subscriber) deliverError(err error) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.gone || sub.onError == nil {
		return
	}
	sub.onError(err)
}

// Store owns the jobs collection. All reads used for rendering go through
// snapshots; point reads (GetOnce) are for detail-page fallbacks.
type Store struct {
	pool *pgxpool.Pool

	mu     sync.Mutex
	subs   map[int]*subscriber
	nextID int
	seq    uint64
	last   []catalog.Job
	loaded bool
}

// New returns a Store on the given pool. Call EnsureSchema once at startup
// and run Listen in its own goroutine.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, subs: make(map[int]*subscriber)}
}

// EnsureSchema creates the jobs table and its change-notification trigger.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id         uuid PRIMARY KEY,
			doc        jsonb NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE OR REPLACE FUNCTION notify_jobs_changed() RETURNS trigger AS $$
		BEGIN
			PERFORM pg_notify('` + notifyChannel + `', TG_OP);
			RETURN NULL;
		END;
		$$ LANGUAGE plpgsql`,
		`DROP TRIGGER IF EXISTS jobs_changed ON jobs`,
		`CREATE TRIGGER jobs_changed
			AFTER INSERT OR UPDATE OR DELETE ON jobs
			FOR EACH STATEMENT EXECUTE FUNCTION notify_jobs_changed()`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// ─── Subscription model ──────────────────────────────────────────────────────

// Subscribe registers callbacks for snapshot delivery. If a snapshot has
// already been loaded the subscriber receives it immediately. The returned
// function releases the subscription; once it returns, no further callbacks
// fire. It must not be called from inside the subscriber's own callbacks.
// Unsubscribing on teardown is a correctness requirement; a leaked
// subscription keeps writing into dead view state.
func (s *Store) Subscribe(onSnapshot func([]catalog.Job), onError func(error)) (unsubscribe func()) {
	sub := &subscriber{onSnapshot: onSnapshot, onError: onError}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = sub
	initial, seq, loaded := s.last, s.seq, s.loaded
	s.mu.Unlock()

	if loaded {
		sub.deliver(seq, initial)
	}

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()

		// Wait out any in-flight delivery before returning.
		sub.mu.Lock()
		sub.gone = true
		sub.mu.Unlock()
	}
}

// Listen blocks, delivering a fresh snapshot to all subscribers after every
// collection change. It holds a dedicated connection in LISTEN mode and
// reconnects with a delay if the connection drops; it returns only when ctx
// is cancelled.
func (s *Store) Listen(ctx context.Context) error {
	for {
		err := s.listenOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Warn("store listener disconnected, retrying", "err", err)
		s.broadcastError(err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

func (s *Store) listenOnce(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return fmt.Errorf("listen %s: %w", notifyChannel, err)
	}

	// Prime subscribers with the current state before waiting for changes.
	if err := s.Refresh(ctx); err != nil {
		return err
	}
	log.Printf("[listing-service] Store listening on %q", notifyChannel)

	for {
		if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		if err := s.Refresh(ctx); err != nil {
			return err
		}
	}
}

// Refresh reloads the full collection and fans it out to every subscriber.
// Also called by the cron scheduler as a safety net for missed notifications.
func (s *Store) Refresh(ctx context.Context) error {
	jobs, err := s.loadAll(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.last = jobs
	s.loaded = true
	subs := make([]*subscriber, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.deliver(seq, jobs)
	}
	return nil
}

func (s *Store) broadcastError(err error) {
	s.mu.Lock()
	subs := make([]*subscriber, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.deliverError(err)
	}
}

func (s *Store) loadAll(ctx context.Context) ([]catalog.Job, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, doc FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("load jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]catalog.Job, 0)
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan job row: %w", err)
		}
		job, err := decodeJob(id, doc)
		if err != nil {
			// A single corrupt document must not take down the feed.
			slog.Warn("skipping undecodable job document", "id", id, "err", err)
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func decodeJob(id string, doc []byte) (catalog.Job, error) {
	var job catalog.Job
	if err := json.Unmarshal(doc, &job); err != nil {
		return catalog.Job{}, err
	}
	job.ID = id
	return job, nil
}

// ─── Write path ──────────────────────────────────────────────────────────────

// Append stores a new document under a generated ID and returns the ID. The
// creation timestamp is stamped here and is immutable from then on.
func (s *Store) Append(ctx context.Context, job catalog.Job) (string, error) {
	id := uuid.NewString()
	job.ID = "" // the row key is authoritative, never stored in the doc
	if job.CreatedDate == "" {
		job.CreatedDate = time.Now().UTC().Format(time.RFC3339)
	}

	doc, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("encode job: %w", err)
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (id, doc) VALUES ($1, $2::jsonb)`,
		id, string(doc),
	); err != nil {
		return "", fmt.Errorf("append job: %w", err)
	}
	return id, nil
}

// Patch merges a partial document into an existing one. The id and
// createdDate keys are stripped from the partial; identity and creation
// timestamp cannot be patched.
func (s *Store) Patch(ctx context.Context, id string, partial map[string]any) error {
	if !validID(id) {
		return ErrNotFound
	}
	partial = sanitizePartial(partial)
	if len(partial) == 0 {
		return nil
	}
	b, err := json.Marshal(partial)
	if err != nil {
		return fmt.Errorf("encode patch: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET doc = doc || $1::jsonb WHERE id = $2`,
		string(b), id,
	)
	if err != nil {
		return fmt.Errorf("patch job %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Replace overwrites every field of the document except the stored creation
// timestamp, which survives any admin edit.
func (s *Store) Replace(ctx context.Context, id string, job catalog.Job) error {
	if !validID(id) {
		return ErrNotFound
	}
	job.ID = ""
	job.CreatedDate = ""
	doc, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs
		 SET doc = $1::jsonb || jsonb_strip_nulls(jsonb_build_object('createdDate', doc->'createdDate'))
		 WHERE id = $2`,
		string(doc), id,
	)
	if err != nil {
		return fmt.Errorf("replace job %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetOnce fetches a single document without subscribing.
func (s *Store) GetOnce(ctx context.Context, id string) (catalog.Job, error) {
	if !validID(id) {
		return catalog.Job{}, ErrNotFound
	}
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM jobs WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Job{}, ErrNotFound
	}
	if err != nil {
		return catalog.Job{}, fmt.Errorf("get job %s: %w", id, err)
	}
	return decodeJob(id, doc)
}

// validID reports whether id can address a row at all. Malformed IDs are
// treated as not-found instead of surfacing a uuid cast error from Postgres.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// sanitizePartial drops keys a patch may never change.
func sanitizePartial(partial map[string]any) map[string]any {
	out := make(map[string]any, len(partial))
	for k, v := range partial {
		if k == "id" || k == "createdDate" {
			continue
		}
		out[k] = v
	}
	return out
}
