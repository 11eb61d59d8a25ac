package catalog

import (
	"math"
	"time"
)

// Temporal predicates compare stored date strings against "now" at
// calendar-day granularity. Zeroing the time-of-day avoids false negatives
// at day boundaries; malformed or missing dates degrade to false, never error.

func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// PostedToday reports whether the posting was created on now's calendar day.
func PostedToday(job Job, now time.Time) bool {
	created := job.CreatedAt()
	if created.IsZero() {
		return false
	}
	return calendarDay(created).Equal(calendarDay(now))
}

// WalkInActiveToday reports whether a walk-in posting's window covers today.
// Only walk-in postings with both bounds present qualify; the window is
// inclusive on both ends. An inverted window (start after end) is never
// active. Stored data is not validated here.
func WalkInActiveToday(job Job, now time.Time) bool {
	if job.Category != CategoryWalkIn {
		return false
	}
	start := parseDate(job.WalkInStartDate)
	end := parseDate(job.WalkInEndDate)
	if start.IsZero() || end.IsZero() {
		return false
	}
	day := calendarDay(now)
	return !day.Before(calendarDay(start)) && !day.After(calendarDay(end))
}

// Expired reports whether the posting's deadline has passed, using the
// deadline semantics of the bucket it is viewed in: government postings
// expire by application deadline, walk-in postings by window end, and other
// buckets have no deadline semantics at all.
func Expired(job Job, bucketKey string, now time.Time) bool {
	var deadline time.Time
	switch bucketKey {
	case BucketGovernment:
		deadline = parseDate(job.LastDate)
	case BucketWalkIn:
		deadline = parseDate(job.WalkInEndDate)
	default:
		return false
	}
	if deadline.IsZero() {
		return false
	}
	return calendarDay(deadline).Before(calendarDay(now))
}

// DaysLeft returns the number of calendar days until the application
// deadline: 0 on the deadline day, negative once passed. ok is false when
// lastDate is missing or malformed.
func DaysLeft(job Job, now time.Time) (days int, ok bool) {
	deadline := parseDate(job.LastDate)
	if deadline.IsZero() {
		return 0, false
	}
	diff := calendarDay(deadline).Sub(calendarDay(now))
	return int(math.Round(diff.Hours() / 24)), true
}

// FreshCount counts postings with more than three days left to apply, and
// UrgentCount those with between zero and three days. Postings without a
// deadline are counted as fresh; they never become urgent or expired.
func FreshCount(jobs []Job, now time.Time) int {
	n := 0
	for _, job := range jobs {
		days, ok := DaysLeft(job, now)
		if !ok || days > 3 {
			n++
		}
	}
	return n
}

func UrgentCount(jobs []Job, now time.Time) int {
	n := 0
	for _, job := range jobs {
		if days, ok := DaysLeft(job, now); ok && days >= 0 && days <= 3 {
			n++
		}
	}
	return n
}
