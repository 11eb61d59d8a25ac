package catalog

import "strings"

// Canonical category labels. Admin data entry is normalized onto this set;
// older documents may still carry free-text variants, which the composite
// bucket token matching below continues to absorb.
const (
	CategoryGovernment = "Government Jobs"
	CategoryPrivate    = "All Private Jobs"
	CategoryBanking    = "Banking Jobs"
	CategoryITSoftware = "IT / Software Jobs"
	CategoryNonITBPO   = "Non-IT / BPO Jobs"
	CategoryWalkIn     = "Walk-in Drives"
	CategoryCareerTips = "Health and Career Tips"
	CategoryMotivation = "Motivation Stories"
)

// Bucket keys double as URL path segments (e.g. GET /jobs/government-jobs).
const (
	BucketAllLatest  = "all-latest-jobs"
	BucketGovernment = "government-jobs"
	BucketITSoftware = "it-software-jobs"
	BucketNonITBPO   = "non-it-bpo-jobs"
	BucketPrivate    = "private-jobs"
	BucketBanking    = "banking-jobs"
	BucketWalkIn     = "walk-in-drives"
	BucketCareerTips = "career-tips"
	BucketMotivation = "motivation-stories"
)

// Bucket is a named grouping used for primary navigation and counts. It is
// configuration, not stored data: the table below is the single source of
// truth for every listing page variant.
type Bucket struct {
	Key       string
	Title     string
	Category  string // exact category label matched by this bucket
	Composite bool   // also match bankTokens inside the raw category
	Editorial bool   // non-job content, excluded from the default bucket
}

// bankTokens fold free-text banking categories ("IBPS PO", "SBI Clerk", …)
// into the composite buckets. Matched case-insensitively as substrings.
var bankTokens = []string{"bank", "sbi", "ibps", "rbi"}

var buckets = []Bucket{
	{Key: BucketAllLatest, Title: "All Latest Jobs"},
	{Key: BucketGovernment, Title: "Government Jobs", Category: CategoryGovernment},
	{Key: BucketITSoftware, Title: "IT / Software Jobs", Category: CategoryITSoftware},
	{Key: BucketNonITBPO, Title: "Non-IT / BPO Jobs", Category: CategoryNonITBPO},
	{Key: BucketPrivate, Title: "All Private Jobs", Category: CategoryPrivate, Composite: true},
	{Key: BucketBanking, Title: "Banking Jobs", Category: CategoryBanking, Composite: true},
	{Key: BucketWalkIn, Title: "Walk-in Drives", Category: CategoryWalkIn},
	{Key: BucketCareerTips, Title: "Health and Career Tips", Category: CategoryCareerTips, Editorial: true},
	{Key: BucketMotivation, Title: "Motivation Stories", Category: CategoryMotivation, Editorial: true},
}

var bucketsByKey = func() map[string]Bucket {
	m := make(map[string]Bucket, len(buckets))
	for _, b := range buckets {
		m[b.Key] = b
	}
	return m
}()

// Buckets returns the navigation table in display order.
func Buckets() []Bucket {
	out := make([]Bucket, len(buckets))
	copy(out, buckets)
	return out
}

// LookupBucket resolves a route segment to its bucket. Unknown keys fall back
// to the default "All Latest Jobs" bucket rather than erroring.
func LookupBucket(key string) Bucket {
	if b, ok := bucketsByKey[key]; ok {
		return b
	}
	return bucketsByKey[BucketAllLatest]
}

// editorialCategory reports whether a raw category is non-job content.
func editorialCategory(category string) bool {
	return category == CategoryCareerTips || category == CategoryMotivation
}

func containsBankToken(category string) bool {
	lower := strings.ToLower(category)
	for _, tok := range bankTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// Classify decides whether a posting belongs to the bucket addressed by key.
// Pure and deterministic; unknown keys behave as the default bucket.
func Classify(job Job, key string) bool {
	b := LookupBucket(key)
	if b.Category == "" {
		// Default bucket: every posting except editorial content.
		return !editorialCategory(job.Category)
	}
	if job.Category == b.Category {
		return true
	}
	return b.Composite && containsBankToken(job.Category)
}

// legacyCategories maps free-text category labels from pre-normalization
// documents onto the canonical set. Applied once at the admin write path;
// steady-state classification works on canonical labels.
var legacyCategories = map[string]string{
	"All Private/ Bank Jobs":         CategoryPrivate,
	"Walk-in Drive/Internships Jobs": CategoryWalkIn,
	"IT Jobs":                        CategoryITSoftware,
	"BPO Jobs":                       CategoryNonITBPO,
}

// NormalizeCategory folds a raw category onto the canonical label set.
// Canonical labels pass through; known legacy labels are rewritten; anything
// containing a bank token becomes Banking Jobs; everything else is kept
// verbatim; admin entry is deliberately permissive.
func NormalizeCategory(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, b := range buckets {
		if b.Category == raw {
			return raw
		}
	}
	if canonical, ok := legacyCategories[raw]; ok {
		return canonical
	}
	if containsBankToken(raw) {
		return CategoryBanking
	}
	return raw
}

// BucketForCategory returns the bucket key whose exact category label matches,
// or the default bucket key for categories without one. Used where behavior
// depends on the posting's own bucket (e.g. expiry semantics).
func BucketForCategory(category string) string {
	for _, b := range buckets {
		if b.Category != "" && b.Category == category {
			return b.Key
		}
	}
	if containsBankToken(category) {
		return BucketBanking
	}
	return BucketAllLatest
}
