// Package catalog contains the job-listings domain logic: category buckets,
// the filter/sort pipeline, temporal badges, pagination and related-job
// ranking. Everything in this package is pure: it operates on in-memory
// snapshots delivered by the store and never talks to a database itself.
package catalog

import "time"

// Job is a single posting as stored in the jobs document collection.
// Field names mirror the JSON document keys; only title, company, category,
// description, contactInfo and createdDate are guaranteed to be present.
type Job struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Category    string `json:"category"`
	Description string `json:"description"`
	ContactInfo string `json:"contactInfo"`
	CreatedDate string `json:"createdDate,omitempty"`

	Type            string `json:"type,omitempty"`
	Location        string `json:"location,omitempty"`
	LastDate        string `json:"lastDate,omitempty"`
	WalkInStartDate string `json:"walkInStartDate,omitempty"`
	WalkInEndDate   string `json:"walkInEndDate,omitempty"`
	ExperienceLevel string `json:"experienceLevel,omitempty"`
	Salary          string `json:"salary,omitempty"`

	CompanyDescription      string `json:"companyDescription,omitempty"`
	CompanySize             string `json:"companySize,omitempty"`
	Requirements            string `json:"requirements,omitempty"`
	Benefits                string `json:"benefits,omitempty"`
	ApplicationInstructions string `json:"applicationInstructions,omitempty"`
	ApplicationEmail        string `json:"applicationEmail,omitempty"`
	ApplicationURL          string `json:"applicationUrl,omitempty"`
}

// dateLayouts are tried in order when parsing document date fields. Admin
// writes full RFC 3339 timestamps; older documents carry bare dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDate returns the zero time for empty or malformed values. Callers
// treat the zero time as "no usable date", never an error.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// CreatedAt returns the posting's creation timestamp, or the zero time when
// createdDate is missing or malformed. The zero time sorts after every valid
// posting in the newest-first feed.
func (j Job) CreatedAt() time.Time {
	return parseDate(j.CreatedDate)
}
