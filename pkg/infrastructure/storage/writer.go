package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/WangYihang/web-crawler/pkg/domain/entity"
	"github.com/WangYihang/web-crawler/pkg/domain/repository"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/nao1215/markdown"
)

// Report formats
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// NewReportWriter creates a report writer for format. Path "-" is stdout.
func NewReportWriter(path, format string) (repository.ReportWriter, error) {
	out, closer, err := openOutput(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON, "":
		w := NewJSONReportWriter(out)
		w.closer = closer
		return w, nil
	case FormatMarkdown:
		w := NewMarkdownReportWriter(out)
		w.closer = closer
		return w, nil
	default:
		closer.Close()
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

func openOutput(path string) (io.Writer, io.Closer, error) {
	if path == "-" || path == "" {
		return os.Stdout, nopCloser{}, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

// JSONReportWriter writes reports as indented JSON
type JSONReportWriter struct {
	encoder *json.Encoder
	closer  io.Closer
	mu      sync.Mutex
}

// NewJSONReportWriter creates a JSON report writer on w
func NewJSONReportWriter(w io.Writer) *JSONReportWriter {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return &JSONReportWriter{encoder: encoder}
}

// Write writes a single report
func (w *JSONReportWriter) Write(report *entity.CrawlReport) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.encoder.Encode(report)
}

// Close closes the writer
func (w *JSONReportWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

// MarkdownReportWriter renders reports as Markdown documents
type MarkdownReportWriter struct {
	out    io.Writer
	closer io.Closer
	mu     sync.Mutex
}

// NewMarkdownReportWriter creates a Markdown report writer on w
func NewMarkdownReportWriter(w io.Writer) *MarkdownReportWriter {
	return &MarkdownReportWriter{out: w}
}

// Write renders a single report
func (w *MarkdownReportWriter) Write(report *entity.CrawlReport) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	md := markdown.NewMarkdown(w.out)
	md.H1("Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Roots", strings.Join(entity.SortedSlice(report.Roots), ", ")},
			{"Limit", strconv.Itoa(report.Limit)},
			{"Started", formatTime(report.StartedAt)},
			{"Finished", formatTime(report.FinishedAt)},
			{"Seen", strconv.Itoa(cardinality(report.Seen))},
			{"Pending", strconv.Itoa(cardinality(report.Result))},
			{"Errors", strconv.Itoa(cardinality(report.Errors))},
		},
	})
	md.PlainText("")

	if n := cardinality(report.Errors); n > 0 {
		md.Warningf("%d error(s) recorded since the last successful fetch.", n)
	} else {
		md.Tip("No errors recorded.")
	}
	md.PlainText("")

	sections := []struct {
		title string
		items []string
	}{
		{"Root Domains", entity.SortedSlice(report.RootDomains)},
		{"Seen", entity.SortedSlice(report.Seen)},
		{"Queue", entity.SortedSlice(report.Queue)},
		{"Result", entity.SortedSlice(report.Result)},
		{"Errors", entity.SortedSlice(report.Errors)},
	}
	for _, s := range sections {
		md.H2(s.title)
		md.PlainText("")
		if len(s.items) == 0 {
			md.PlainText("None.")
		} else {
			md.BulletList(s.items...)
		}
		md.PlainText("")
	}

	return md.Build()
}

// Close closes the writer
func (w *MarkdownReportWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05 MST")
}

func cardinality(s mapset.Set[string]) int {
	if s == nil {
		return 0
	}
	return s.Cardinality()
}

// FetchLogWriter implements repository.LogWriter as JSON lines
type FetchLogWriter struct {
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewFetchLogWriter creates a new fetch log writer
func NewFetchLogWriter(filename string) (repository.LogWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	return &FetchLogWriter{
		file:    file,
		encoder: json.NewEncoder(file),
	}, nil
}

// WriteFetchLog writes one fetch record
func (w *FetchLogWriter) WriteFetchLog(record *entity.FetchLog) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.encoder.Encode(record)
}

// Close closes the log file
func (w *FetchLogWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
