package store

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/RamD446/allindiajobs/internal/catalog"
)

// ── Subscription teardown ──────────────────────────────────────────────────

// Once unsubscribe returns, no further callbacks may fire, even when a
// broadcast is racing with the teardown.
func TestStore_UnsubscribeStopsCallbacks(t *testing.T) {
	errDown := errors.New("listener down")
	for i := 0; i < 200; i++ {
		s := New(nil)

		var done atomic.Bool
		unsub := s.Subscribe(func([]catalog.Job) {}, func(error) {
			if done.Load() {
				t.Error("callback fired after unsubscribe had returned")
			}
		})

		finished := make(chan struct{})
		go func() {
			defer close(finished)
			s.broadcastError(errDown)
		}()

		unsub()
		done.Store(true)
		<-finished
	}
}

// A subscriber released from inside another subscriber's callback must not be
// invoked later in the same broadcast.
func TestStore_UnsubscribeDuringBroadcast(t *testing.T) {
	errDown := errors.New("listener down")
	for i := 0; i < 200; i++ {
		s := New(nil)

		var released atomic.Bool
		unsubB := s.Subscribe(func([]catalog.Job) {}, func(error) {
			if released.Load() {
				t.Error("released subscriber still received the broadcast")
			}
		})
		s.Subscribe(func([]catalog.Job) {}, func(error) {
			unsubB()
			released.Store(true)
		})

		s.broadcastError(errDown)
	}
}

// ── Snapshot sequencing ────────────────────────────────────────────────────

// A delayed delivery of an older snapshot must not overwrite a newer one.
func TestSubscriber_StaleSnapshotSkipped(t *testing.T) {
	var got []catalog.Job
	sub := &subscriber{onSnapshot: func(jobs []catalog.Job) { got = jobs }}

	newer := []catalog.Job{{ID: "new"}}
	older := []catalog.Job{{ID: "old"}}
	sub.deliver(2, newer)
	sub.deliver(1, older)

	if len(got) != 1 || got[0].ID != "new" {
		t.Errorf("subscriber holds %v, want the newer snapshot", got)
	}
}

func TestStore_SubscribeDeliversLoadedSnapshot(t *testing.T) {
	s := New(nil)
	s.mu.Lock()
	s.seq = 1
	s.last = []catalog.Job{{ID: "a"}, {ID: "b"}}
	s.loaded = true
	s.mu.Unlock()

	var got []catalog.Job
	unsub := s.Subscribe(func(jobs []catalog.Job) { got = jobs }, nil)
	defer unsub()

	if len(got) != 2 {
		t.Fatalf("initial snapshot has %d jobs, want 2", len(got))
	}
}

// ── sanitizePartial: identity and creation timestamp are immutable ─────────

func TestSanitizePartial_StripsProtectedKeys(t *testing.T) {
	partial := map[string]any{
		"id":          "some-id",
		"createdDate": "2026-01-01",
		"title":       "Updated Title",
		"salary":      "8 LPA",
	}
	got := sanitizePartial(partial)
	if _, ok := got["id"]; ok {
		t.Error("patch must not carry the id key")
	}
	if _, ok := got["createdDate"]; ok {
		t.Error("patch must not carry the createdDate key")
	}
	if got["title"] != "Updated Title" || got["salary"] != "8 LPA" {
		t.Errorf("ordinary keys should pass through, got %v", got)
	}
}

func TestSanitizePartial_Empty(t *testing.T) {
	if got := sanitizePartial(map[string]any{"id": "x"}); len(got) != 0 {
		t.Errorf("sanitized partial should be empty, got %v", got)
	}
}

// ── decodeJob ──────────────────────────────────────────────────────────────

func TestDecodeJob(t *testing.T) {
	doc := []byte(`{"title":"Bank Officer","company":"National Bank","category":"Banking Jobs","createdDate":"2026-08-20"}`)
	job, err := decodeJob("abc-123", doc)
	if err != nil {
		t.Fatalf("decodeJob returned error: %v", err)
	}
	if job.ID != "abc-123" {
		t.Errorf("ID = %q, want the row key", job.ID)
	}
	if job.Title != "Bank Officer" || job.Category != "Banking Jobs" {
		t.Errorf("unexpected decode result: %+v", job)
	}
}

func TestDecodeJob_Malformed(t *testing.T) {
	if _, err := decodeJob("abc", []byte(`{not json`)); err == nil {
		t.Error("malformed document should return an error")
	}
}

func TestDecodeJob_RowKeyWinsOverDocID(t *testing.T) {
	job, err := decodeJob("row-key", []byte(`{"id":"stale-doc-id","title":"T"}`))
	if err != nil {
		t.Fatalf("decodeJob returned error: %v", err)
	}
	if job.ID != "row-key" {
		t.Errorf("ID = %q, the row key must win over a stale doc id", job.ID)
	}
}

// ── validID ────────────────────────────────────────────────────────────────

func TestValidID(t *testing.T) {
	if !validID("b49f0aa7-5bfd-4d6e-9d62-f6a22b6e77c4") {
		t.Error("well-formed uuid rejected")
	}
	for _, bad := range []string{"", "42", "not-a-uuid", "'; DROP TABLE jobs;--"} {
		if validID(bad) {
			t.Errorf("validID(%q) should be false", bad)
		}
	}
}
