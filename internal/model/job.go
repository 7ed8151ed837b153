package model

import (
	"context"
	"time"
)

// DefaultCategory is assigned to jobs whose record carries no category.
const DefaultCategory = "General"

// Job is the canonical, normalized representation of one feed record.
// Jobs are immutable once normalized; derived labels are computed once.
type Job struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	CompanyName string  `json:"company_name"`
	CompanyLogo string  `json:"company_logo"`
	Location    *string `json:"location"`

	SalaryLabel    string  `json:"salary_label"`
	SalaryAmount   float64 `json:"salary_amount"`
	SalaryKnown    bool    `json:"salary_known"` // false when the source gave no usable amount
	SalaryCurrency string  `json:"salary_currency,omitempty"`

	Skills      []string   `json:"skills"`
	PostedAt    *time.Time `json:"posted_at"`
	PostedLabel string     `json:"posted_label"` // relative age at normalization time

	IsRemote             bool   `json:"is_remote"`
	IsVerified           bool   `json:"is_verified"`
	Featured             bool   `json:"featured"`
	Category             string `json:"category"`
	EmploymentType       string `json:"employment_type"`
	Experience           string `json:"experience"` // derived bucket, empty when unspecified
	Applicants           int    `json:"applicants"`
	Views                int    `json:"views"`
	VisaSponsorship      bool   `json:"visa_sponsorship"`
	RelocationAssistance bool   `json:"relocation_assistance"`

	// Pass-through fields, never interpreted.
	Description  *string `json:"description"`
	Requirements *string `json:"requirements"`
	Benefits     *string `json:"benefits"`

	// DescriptionText is Description with markup stripped, for previews.
	DescriptionText string `json:"description_text,omitempty"`
}

// LocationOrEmpty returns the location or "" when the record had none.
func (j Job) LocationOrEmpty() string {
	if j.Location == nil {
		return ""
	}
	return *j.Location
}

// DescriptionOrEmpty returns the raw description or "".
func (j Job) DescriptionOrEmpty() string {
	if j.Description == nil {
		return ""
	}
	return *j.Description
}

// FeedSnapshot is one complete capture of the remote listing. It is replaced
// wholesale on every successful fetch and never patched.
type FeedSnapshot struct {
	Jobs      []Job
	FetchedAt time.Time
}

// Age reports how old the snapshot is relative to now.
func (s *FeedSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// Find returns the job with the given id.
func (s *FeedSnapshot) Find(id string) (Job, bool) {
	for _, j := range s.Jobs {
		if j.ID == id {
			return j, true
		}
	}
	return Job{}, false
}

// FeedSource is the remote job source: one bulk listing endpoint and one
// per-job detail endpoint.
type FeedSource interface {
	FetchFeed(ctx context.Context) ([]RawJob, error)
	FetchJob(ctx context.Context, id string) (RawJob, error)
}

// SnapshotStore persists the last good snapshot. It does not judge freshness.
// Read reports ok=false for an empty, corrupt, or undecodable medium.
type SnapshotStore interface {
	Read(ctx context.Context) (snap *FeedSnapshot, ok bool)
	Write(ctx context.Context, snap *FeedSnapshot) error
}
