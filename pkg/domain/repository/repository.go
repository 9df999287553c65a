package repository

import (
	"github.com/WangYihang/web-crawler/pkg/domain/entity"
	mapset "github.com/deckarep/golang-set/v2"
)

// Frontier is the FIFO queue of URLs waiting to be fetched
type Frontier interface {
	// Push appends a URL. Duplicates are allowed. Returns false if the
	// frontier is bounded and full.
	Push(url string) bool
	// Pop removes and returns the oldest URL
	Pop() (string, bool)
	// Seed pushes every root domain
	Seed(domains mapset.Set[string])
	// Len returns the number of pending URLs
	Len() int
	// Snapshot returns the pending URLs in queue order
	Snapshot() []string
	// Clear drops every pending URL
	Clear()
}

// VisitedSet records URLs that were fetched
type VisitedSet interface {
	Contains(url string) bool
	Add(url string)
	Len() int
	// Snapshot returns a copy of the set
	Snapshot() mapset.Set[string]
	Clear()
}

// ErrorRegistry keeps distinct error messages
type ErrorRegistry interface {
	Add(message string)
	Len() int
	Snapshot() mapset.Set[string]
	Clear()
}

// ReportWriter writes crawl reports
type ReportWriter interface {
	// Write writes a single report
	Write(report *entity.CrawlReport) error
	// Close closes the writer
	Close() error
}

// LogWriter writes structured logs
type LogWriter interface {
	// WriteFetchLog writes one fetch record
	WriteFetchLog(record *entity.FetchLog) error
	// Close closes the writer
	Close() error
}
