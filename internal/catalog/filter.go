package catalog

import "sort"

// Facets is a set of secondary filter selections applied within a bucket.
// Groups combine with logical AND; values inside a group with logical OR.
// An empty group places no restriction.
type Facets struct {
	Companies  []string `json:"companies,omitempty"`
	Types      []string `json:"types,omitempty"`
	Experience []string `json:"experience,omitempty"`
	Salaries   []string `json:"salaries,omitempty"`
}

// Empty reports whether no facet value is selected in any group.
func (f Facets) Empty() bool {
	return len(f.Companies) == 0 && len(f.Types) == 0 &&
		len(f.Experience) == 0 && len(f.Salaries) == 0
}

// ViewState is the complete, serializable state of a listing view: the active
// bucket, the facet selections and the current page. It is produced by user
// actions and consumed by the pipeline; it is never persisted.
type ViewState struct {
	Bucket string `json:"bucket"`
	Facets Facets `json:"facets"`
	Page   int    `json:"page"`
}

// NewViewState returns page 1 of the given bucket with no facets selected.
func NewViewState(bucket string) ViewState {
	return ViewState{Bucket: bucket, Page: 1}
}

// WithBucket switches the primary bucket. All facet selections are cleared
// and the page resets to 1.
func (s ViewState) WithBucket(bucket string) ViewState {
	return ViewState{Bucket: bucket, Page: 1}
}

// WithPage moves to the given page, keeping bucket and facets.
func (s ViewState) WithPage(page int) ViewState {
	s.Page = page
	return s
}

// ToggleFacet adds the value to the named group, or removes it when already
// selected. The bucket is preserved; the page resets to 1.
func (s ViewState) ToggleFacet(group, value string) ViewState {
	switch group {
	case "company":
		s.Facets.Companies = toggle(s.Facets.Companies, value)
	case "type":
		s.Facets.Types = toggle(s.Facets.Types, value)
	case "experience":
		s.Facets.Experience = toggle(s.Facets.Experience, value)
	case "salary":
		s.Facets.Salaries = toggle(s.Facets.Salaries, value)
	}
	s.Page = 1
	return s
}

func toggle(values []string, v string) []string {
	for i, existing := range values {
		if existing == v {
			return append(append([]string(nil), values[:i]...), values[i+1:]...)
		}
	}
	return append(append([]string(nil), values...), v)
}

func matchesGroup(selected []string, value string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if s == value {
			return true
		}
	}
	return false
}

func (f Facets) match(job Job) bool {
	return matchesGroup(f.Companies, job.Company) &&
		matchesGroup(f.Types, job.Type) &&
		matchesGroup(f.Experience, job.ExperienceLevel) &&
		matchesGroup(f.Salaries, job.Salary)
}

// Apply runs the full filter pipeline for a view: bucket classification,
// facet filtering, then a stable newest-first sort. The input slice is not
// modified; postings with a malformed createdDate sort last.
func Apply(jobs []Job, state ViewState) []Job {
	out := make([]Job, 0, len(jobs))
	for _, job := range jobs {
		if !Classify(job, state.Bucket) {
			continue
		}
		if !state.Facets.match(job) {
			continue
		}
		out = append(out, job)
	}
	sort.SliceStable(out, func(i, k int) bool {
		return out[i].CreatedAt().After(out[k].CreatedAt())
	})
	return out
}

// SortNewestFirst returns a copy of jobs ordered by creation timestamp
// descending, ties keeping input order.
func SortNewestFirst(jobs []Job) []Job {
	out := make([]Job, len(jobs))
	copy(out, jobs)
	sort.SliceStable(out, func(i, k int) bool {
		return out[i].CreatedAt().After(out[k].CreatedAt())
	})
	return out
}
