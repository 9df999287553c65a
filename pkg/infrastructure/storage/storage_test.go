package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/WangYihang/web-crawler/pkg/domain/entity"
	mapset "github.com/deckarep/golang-set/v2"
)

func TestFrontier_FIFO(t *testing.T) {
	f := NewFrontier(0)

	if f.Len() != 0 {
		t.Errorf("New frontier should be empty, got length %d", f.Len())
	}
	if _, ok := f.Pop(); ok {
		t.Errorf("Pop on empty frontier should fail")
	}

	for _, u := range []string{"a", "b", "a", "c"} {
		if !f.Push(u) {
			t.Fatalf("Push(%s) failed on unbounded frontier", u)
		}
	}
	if f.Len() != 4 {
		t.Errorf("Len() = %d, want 4 (duplicates are kept)", f.Len())
	}

	for _, want := range []string{"a", "b", "a", "c"} {
		got, ok := f.Pop()
		if !ok || got != want {
			t.Errorf("Pop() = %q, %v, want %q, true", got, ok, want)
		}
	}
	if f.Len() != 0 {
		t.Errorf("Len() = %d after draining, want 0", f.Len())
	}
}

func TestFrontier_Capacity(t *testing.T) {
	f := NewFrontier(2)
	f.Push("a")
	f.Push("b")
	if f.Push("c") {
		t.Errorf("Push on full frontier should return false")
	}
	f.Pop()
	if !f.Push("c") {
		t.Errorf("Push after Pop should succeed")
	}
}

func TestFrontier_SeedSnapshotClear(t *testing.T) {
	f := NewFrontier(0)
	f.Seed(mapset.NewThreadUnsafeSet("https://b.com", "https://a.com"))
	f.Seed(nil)

	snap := f.Snapshot()
	want := []string{"https://a.com", "https://b.com"}
	if len(snap) != len(want) || snap[0] != want[0] || snap[1] != want[1] {
		t.Errorf("Snapshot() = %v, want %v", snap, want)
	}

	snap[0] = "mutated"
	if got, _ := f.Pop(); got != "https://a.com" {
		t.Errorf("Snapshot should be a copy, Pop() = %q", got)
	}

	f.Clear()
	if f.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", f.Len())
	}
}

func TestVisitedSet_Basic(t *testing.T) {
	v := NewVisitedSet(Config{Size: 1000, FalsePositiveRate: 0.01})

	const url = "https://example.com"
	if v.Contains(url) {
		t.Errorf("VisitedSet should not contain %s initially", url)
	}

	v.Add(url)
	v.Add(url)
	if !v.Contains(url) {
		t.Errorf("VisitedSet should contain %s after Add", url)
	}
	if v.Len() != 1 {
		t.Errorf("Len() = %d, want 1", v.Len())
	}

	snap := v.Snapshot()
	snap.Add("https://other.com")
	if v.Len() != 1 {
		t.Errorf("Snapshot should be a copy, Len() = %d", v.Len())
	}

	v.Clear()
	if v.Contains(url) || v.Len() != 0 {
		t.Errorf("VisitedSet should be empty after Clear")
	}
}

func TestVisitedSet_ManyEntries(t *testing.T) {
	// Tiny filter forces Bloom false positives; the exact set must still answer correctly
	v := NewVisitedSet(Config{Size: 10, FalsePositiveRate: 0.5})
	for i := 0; i < 500; i++ {
		v.Add("https://example.com/" + string(rune('a'+i%26)) + strings.Repeat("x", i))
	}
	if v.Len() != 500 {
		t.Errorf("Len() = %d, want 500", v.Len())
	}
	if v.Contains("https://example.com/never-added") {
		t.Errorf("Contains() reported a URL that was never added")
	}
}

func TestVisitedSet_InvalidConfigUsesDefault(t *testing.T) {
	v := NewVisitedSet(Config{})
	v.Add("x")
	if !v.Contains("x") {
		t.Errorf("VisitedSet with default config should work")
	}
}

func TestErrorRegistry(t *testing.T) {
	r := NewErrorRegistry()
	r.Add("boom")
	r.Add("boom")
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (messages dedup by content)", r.Len())
	}
	r.Add("bang")
	if !r.Snapshot().Equal(mapset.NewThreadUnsafeSet("boom", "bang")) {
		t.Errorf("Snapshot() = %v", r.Snapshot().ToSlice())
	}
	r.Clear()
	if r.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", r.Len())
	}
}

func testReport() *entity.CrawlReport {
	report := entity.NewCrawlReport()
	report.Roots.Add("example.com")
	report.RootDomains.Add("https://example.com")
	report.Seen.Add("https://example.com")
	report.Queue.Add("https://example.com/about")
	report.Result.Add("https://example.com/about")
	report.Limit = 1
	report.StartedAt = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	report.FinishedAt = report.StartedAt.Add(time.Second)
	return report
}

func TestJSONReportWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONReportWriter(&buf)
	if err := w.Write(testReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, key := range []string{"roots", "root_domains", "queue", "seen", "result", "errors", "limit"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("JSON report missing key %q", key)
		}
	}
	if errs, ok := decoded["errors"].([]any); !ok || len(errs) != 0 {
		t.Errorf("errors = %v, want empty array", decoded["errors"])
	}
}

func TestMarkdownReportWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewMarkdownReportWriter(&buf)
	report := testReport()
	if err := w.Write(report); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Crawl Report", "## Root Domains", "## Seen", "## Queue", "## Result", "## Errors",
		"https://example.com/about", "No errors recorded.", "None.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Markdown report missing %q", want)
		}
	}

	buf.Reset()
	report.Errors.Add("Error making request. Check if domain is valid/network and try again!")
	if err := w.Write(report); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "1 error(s) recorded") {
		t.Errorf("Markdown report should warn about errors")
	}
}

func TestNewReportWriter(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "report.md")
	w, err := NewReportWriter(path, FormatMarkdown)
	if err != nil {
		t.Fatalf("NewReportWriter() error = %v", err)
	}
	if err := w.Write(testReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# Crawl Report") {
		t.Errorf("report file starts with %q", string(data[:min(len(data), 20)]))
	}

	if _, err := NewReportWriter(filepath.Join(dir, "x"), "yaml"); err == nil {
		t.Errorf("NewReportWriter with unknown format should fail")
	}
}

func TestFetchLogWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fetch.jsonl")
	w, err := NewFetchLogWriter(path)
	if err != nil {
		t.Fatalf("NewFetchLogWriter() error = %v", err)
	}

	records := []*entity.FetchLog{
		{URL: "https://example.com", Attempts: 1, StatusCode: 200, Success: true, Links: 3},
		{URL: "https://example.com/x", Attempts: 4, StatusCode: 500, Error: "network or invalid domain"},
	}
	for _, r := range records {
		if err := w.WriteFetchLog(r); err != nil {
			t.Fatalf("WriteFetchLog() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer file.Close()

	var lines int
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record entity.FetchLog
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("line %d is not JSON: %v", lines+1, err)
		}
		if record.URL != records[lines].URL {
			t.Errorf("line %d url = %s, want %s", lines+1, record.URL, records[lines].URL)
		}
		lines++
	}
	if lines != len(records) {
		t.Errorf("got %d lines, want %d", lines, len(records))
	}
}
