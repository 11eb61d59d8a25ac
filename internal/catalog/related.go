package catalog

// DefaultRelatedLimit bounds the "related jobs" side panel.
const DefaultRelatedLimit = 10

// DefaultWindowSize is how many of the newest postings feed the detail-page
// side panels.
const DefaultWindowSize = 25

// LatestWindow returns the n newest postings (newest first). It is the
// upstream fetch for the related/latest side panels.
func LatestWindow(jobs []Job, n int) []Job {
	sorted := SortNewestFirst(jobs)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// RelatedTo selects up to limit postings from the recent window that are
// related to current, preserving the window's recency order. Government
// postings relate only to other government postings; everything else relates
// to any non-government, non-editorial posting. No broadening happens when
// fewer than limit qualify.
func RelatedTo(current Job, window []Job, limit int) []Job {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	currentIsGov := current.Category == CategoryGovernment

	out := make([]Job, 0, limit)
	for _, job := range window {
		if job.ID == current.ID {
			continue
		}
		if currentIsGov {
			if job.Category != CategoryGovernment {
				continue
			}
		} else {
			if job.Category == CategoryGovernment || editorialCategory(job.Category) {
				continue
			}
		}
		out = append(out, job)
		if len(out) == limit {
			break
		}
	}
	return out
}
