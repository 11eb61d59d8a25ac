// Package stats maintains the public-site visitor counters in Redis:
// per-day, per-month and all-time visits plus job detail clicks. Counter
// writes are fire-and-forget: a failed increment is logged and dropped,
// never surfaced to the visitor.
package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// dailyKeyTTL keeps per-day counters around long enough for a monthly view.
const dailyKeyTTL = 40 * 24 * time.Hour

// Counters is the dashboard view of the visitor counters.
type Counters struct {
	Daily     int64 `json:"daily"`
	Monthly   int64 `json:"monthly"`
	Total     int64 `json:"total"`
	JobClicks int64 `json:"jobClicks"`
}

// Recorder increments and reads the counters.
type Recorder struct {
	rdb *redis.Client
}

func NewRecorder(rdb *redis.Client) *Recorder {
	return &Recorder{rdb: rdb}
}

func dailyKey(now time.Time) string {
	return "stats:daily:" + now.Format("2006-01-02")
}

func monthlyKey(now time.Time) string {
	return "stats:monthly:" + now.Format("2006-01")
}

const (
	totalKey     = "stats:total"
	jobClicksKey = "stats:jobclicks"
)

// RecordVisit bumps the daily, monthly and total counters.
func (r *Recorder) RecordVisit(ctx context.Context, now time.Time) {
	day := dailyKey(now)
	if err := r.rdb.Incr(ctx, day).Err(); err != nil {
		slog.Warn("record visit failed", "key", day, "err", err)
		return
	}
	r.rdb.Expire(ctx, day, dailyKeyTTL)
	if err := r.rdb.Incr(ctx, monthlyKey(now)).Err(); err != nil {
		slog.Warn("record visit failed", "key", monthlyKey(now), "err", err)
	}
	if err := r.rdb.Incr(ctx, totalKey).Err(); err != nil {
		slog.Warn("record visit failed", "key", totalKey, "err", err)
	}
}

// RecordJobClick bumps the job detail-view counter.
func (r *Recorder) RecordJobClick(ctx context.Context) {
	if err := r.rdb.Incr(ctx, jobClicksKey).Err(); err != nil {
		slog.Warn("record job click failed", "err", err)
	}
}

// Read returns the counters for the admin dashboard. Missing keys read as 0.
func (r *Recorder) Read(ctx context.Context, now time.Time) (*Counters, error) {
	c := &Counters{}
	reads := []struct {
		key  string
		dest *int64
	}{
		{dailyKey(now), &c.Daily},
		{monthlyKey(now), &c.Monthly},
		{totalKey, &c.Total},
		{jobClicksKey, &c.JobClicks},
	}
	for _, rd := range reads {
		v, err := r.rdb.Get(ctx, rd.key).Int64()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", rd.key, err)
		}
		*rd.dest = v
	}
	return c, nil
}
