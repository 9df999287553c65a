package entity

import (
	"encoding/json"
	"slices"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// Phase is the lifecycle state of a crawler
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseSeeding  Phase = "seeding"
	PhaseDraining Phase = "draining"
	PhaseDone     Phase = "done"
)

// CrawlReport is the snapshot produced when a crawl finishes.
// All string fields are sets; their order carries no meaning.
type CrawlReport struct {
	Roots       mapset.Set[string]
	RootDomains mapset.Set[string]
	Queue       mapset.Set[string] // pending links, minus the raw roots
	Seen        mapset.Set[string]
	Result      mapset.Set[string] // pending links never fetched
	Errors      mapset.Set[string]

	Limit      int
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewCrawlReport returns a report with every set initialized
func NewCrawlReport() *CrawlReport {
	return &CrawlReport{
		Roots:       mapset.NewThreadUnsafeSet[string](),
		RootDomains: mapset.NewThreadUnsafeSet[string](),
		Queue:       mapset.NewThreadUnsafeSet[string](),
		Seen:        mapset.NewThreadUnsafeSet[string](),
		Result:      mapset.NewThreadUnsafeSet[string](),
		Errors:      mapset.NewThreadUnsafeSet[string](),
	}
}

type crawlReportJSON struct {
	Roots       []string  `json:"roots"`
	RootDomains []string  `json:"root_domains"`
	Queue       []string  `json:"queue"`
	Seen        []string  `json:"seen"`
	Result      []string  `json:"result"`
	Errors      []string  `json:"errors"`
	Limit       int       `json:"limit"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// MarshalJSON writes every set as a sorted array so output is stable
func (r *CrawlReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(crawlReportJSON{
		Roots:       SortedSlice(r.Roots),
		RootDomains: SortedSlice(r.RootDomains),
		Queue:       SortedSlice(r.Queue),
		Seen:        SortedSlice(r.Seen),
		Result:      SortedSlice(r.Result),
		Errors:      SortedSlice(r.Errors),
		Limit:       r.Limit,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
	})
}

// UnmarshalJSON restores a report written by MarshalJSON
func (r *CrawlReport) UnmarshalJSON(data []byte) error {
	var raw crawlReportJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Roots = mapset.NewThreadUnsafeSet(raw.Roots...)
	r.RootDomains = mapset.NewThreadUnsafeSet(raw.RootDomains...)
	r.Queue = mapset.NewThreadUnsafeSet(raw.Queue...)
	r.Seen = mapset.NewThreadUnsafeSet(raw.Seen...)
	r.Result = mapset.NewThreadUnsafeSet(raw.Result...)
	r.Errors = mapset.NewThreadUnsafeSet(raw.Errors...)
	r.Limit = raw.Limit
	r.StartedAt = raw.StartedAt
	r.FinishedAt = raw.FinishedAt
	return nil
}

// SortedSlice returns the members of s in ascending order. A nil set yields
// an empty, non-nil slice.
func SortedSlice(s mapset.Set[string]) []string {
	if s == nil {
		return []string{}
	}
	out := s.ToSlice()
	slices.Sort(out)
	return out
}

// Metrics represents crawling metrics
type Metrics struct {
	Phase           Phase
	QueueLength     int
	Visited         int
	Limit           int
	Fetches         int64
	Successes       int64
	Failures        int64
	Retries         int64
	LinksDiscovered int64
	Errors          int
	ActiveWorkers   int
	TotalWorkers    int
	StartTime       time.Time
	LastUpdateTime  time.Time
	ActiveURLs      []string
}
