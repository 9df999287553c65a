package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/WangYihang/web-crawler/pkg/domain/entity"
	"github.com/WangYihang/web-crawler/pkg/domain/repository"
	"github.com/WangYihang/web-crawler/pkg/domain/service"
	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FetchErrorMessage is recorded in the error registry for every failed fetch
const FetchErrorMessage = "Error making request. Check if domain is valid/network and try again!"

// ErrCrawlInProgress is returned when Crawl is called while another crawl
// on the same instance is still running
var ErrCrawlInProgress = errors.New("crawl already in progress")

// Config holds the crawler configuration
type Config struct {
	// Workers bounds concurrent fetches; 1 fetches strictly one URL at a time
	Workers int
	// Scope builds the link filter for one crawl; nil keeps every link
	Scope func(rootDomains []string) service.LinkScope
}

// MetricsObserver observes crawl progress
type MetricsObserver interface {
	OnMetricsUpdate(metrics *entity.Metrics)
	OnFetch(record *entity.FetchLog)
}

// CrawlState is the mutable state one crawler owns
type CrawlState struct {
	Frontier repository.Frontier
	Visited  repository.VisitedSet
	Errors   repository.ErrorRegistry
}

// Crawler runs bounded breadth-first crawls from a set of roots
type Crawler struct {
	config     Config
	normalizer service.DomainNormalizer
	extractor  service.LinkExtractor
	fetcher    service.PageFetcher
	state      CrawlState
	logWriter  repository.LogWriter
	logger     *zap.Logger
	observers  []MetricsObserver

	mu          sync.RWMutex
	running     bool
	roots       []string
	rootDomains mapset.Set[string]
	metrics     entity.Metrics
}

// NewCrawler creates a crawler. logWriter may be nil.
func NewCrawler(
	config Config,
	normalizer service.DomainNormalizer,
	extractor service.LinkExtractor,
	fetcher service.PageFetcher,
	state CrawlState,
	logWriter repository.LogWriter,
	logger *zap.Logger,
) *Crawler {
	if config.Workers < 1 {
		config.Workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Crawler{
		config:      config,
		normalizer:  normalizer,
		extractor:   extractor,
		fetcher:     fetcher,
		state:       state,
		logWriter:   logWriter,
		logger:      logger,
		rootDomains: mapset.NewThreadUnsafeSet[string](),
		metrics:     entity.Metrics{Phase: entity.PhaseIdle, TotalWorkers: config.Workers},
	}
}

// RegisterMetricsObserver registers a metrics observer
func (c *Crawler) RegisterMetricsObserver(observer MetricsObserver) {
	c.observers = append(c.observers, observer)
}

// SetRoots resets the crawler and replaces the roots with the comma
// separated hosts. "" and "reset" leave the roots empty.
func (c *Crawler) SetRoots(hosts string) {
	c.Reset()
	if hosts == "" || hosts == "reset" {
		return
	}

	var roots []string
	for _, part := range strings.Split(hosts, ",") {
		if part = strings.TrimSpace(part); part != "" {
			roots = append(roots, part)
		}
	}

	c.mu.Lock()
	c.roots = roots
	c.mu.Unlock()
}

// InitRoots normalizes the current roots into root domains
func (c *Crawler) InitRoots() {
	c.mu.RLock()
	roots := append([]string(nil), c.roots...)
	c.mu.RUnlock()

	domains := c.normalizer.Normalize(roots)

	c.mu.Lock()
	c.rootDomains = domains
	c.mu.Unlock()
}

// Reset clears roots, root domains, frontier and visited set.
// Registered errors are kept.
func (c *Crawler) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.roots = nil
	c.rootDomains = mapset.NewThreadUnsafeSet[string]()
	c.state.Frontier.Clear()
	c.state.Visited.Clear()
	c.metrics = entity.Metrics{Phase: entity.PhaseIdle, TotalWorkers: c.config.Workers}
}

// Roots returns the current roots
func (c *Crawler) Roots() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.roots...)
}

// RootDomains returns a copy of the normalized root domains
func (c *Crawler) RootDomains() mapset.Set[string] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rootDomains.Clone()
}

// Phase returns the lifecycle state
func (c *Crawler) Phase() entity.Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metrics.Phase
}

// Metrics returns the current metrics
func (c *Crawler) Metrics() *entity.Metrics {
	c.mu.RLock()
	metrics := c.metrics
	c.mu.RUnlock()

	metrics.ActiveURLs = append([]string(nil), metrics.ActiveURLs...)
	metrics.QueueLength = c.state.Frontier.Len()
	metrics.Visited = c.state.Visited.Len()
	metrics.Errors = c.state.Errors.Len()
	return &metrics
}

// Crawl seeds the frontier with the root domains and fetches until the
// frontier is drained or limit URLs have been visited. The report is always
// returned; the error is non-nil only when ctx ended the crawl early.
func (c *Crawler) Crawl(ctx context.Context, limit int) (*entity.CrawlReport, error) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil, ErrCrawlInProgress
	}
	c.running = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	if limit < 0 {
		limit = 0
	}
	startedAt := time.Now()

	c.setPhase(entity.PhaseSeeding, func(m *entity.Metrics) {
		m.Limit = limit
		m.StartTime = startedAt
	})
	c.InitRoots()
	rootDomains := c.RootDomains()
	c.state.Frontier.Seed(rootDomains)
	c.logger.Info("crawl seeded",
		zap.Strings("roots", c.Roots()),
		zap.Int("root_domains", rootDomains.Cardinality()),
		zap.Int("limit", limit),
		zap.Int("workers", c.config.Workers),
	)

	var scope service.LinkScope
	if c.config.Scope != nil {
		scope = c.config.Scope(entity.SortedSlice(rootDomains))
	}

	c.setPhase(entity.PhaseDraining, nil)
	err := c.drain(ctx, limit, scope)
	c.setPhase(entity.PhaseDone, nil)

	report := c.report(limit, startedAt)
	c.logger.Info("crawl finished",
		zap.Int("seen", report.Seen.Cardinality()),
		zap.Int("pending", report.Result.Cardinality()),
		zap.Int("errors", report.Errors.Cardinality()),
		zap.Duration("elapsed", report.FinishedAt.Sub(startedAt)),
		zap.Error(err),
	)
	return report, err
}

// outcome is what a worker hands back to the coordinator
type outcome struct {
	url    string
	result *service.FetchResult
	links  mapset.Set[string]
	title  string
	err    error
}

// drain runs the coordinator loop. Only this goroutine reads or writes the
// crawl state while workers are fetching, so claiming a URL is one step.
func (c *Crawler) drain(ctx context.Context, limit int, scope service.LinkScope) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.Workers)
	outcomes := make(chan outcome, c.config.Workers)
	inFlight := make(map[string]bool)
	// copies popped while the same URL was being fetched
	deferred := make(map[string]int)

	for {
		for ctx.Err() == nil && len(inFlight) < c.config.Workers && c.state.Visited.Len()+len(inFlight) < limit {
			url, ok := c.state.Frontier.Pop()
			if !ok {
				break
			}
			if c.state.Visited.Contains(url) {
				continue
			}
			if inFlight[url] {
				deferred[url]++
				continue
			}
			inFlight[url] = true
			g.Go(func() error {
				outcomes <- c.fetch(gctx, url)
				return nil
			})
		}

		c.updateActive(inFlight)
		if len(inFlight) == 0 {
			break
		}

		o := <-outcomes
		delete(inFlight, o.url)
		c.apply(ctx, o, scope)
		c.requeue(o.url, deferred)
	}

	g.Wait()
	c.updateActive(inFlight)
	return ctx.Err()
}

func (c *Crawler) fetch(ctx context.Context, url string) outcome {
	result, err := c.fetcher.Fetch(ctx, url)
	o := outcome{url: url, result: result, err: err}
	if err == nil && result != nil {
		o.links = c.extractor.ExtractLinks(url, result.Body)
		o.title = c.extractor.ExtractTitle(result.Body)
	}
	return o
}

// apply folds one outcome into the crawl state
func (c *Crawler) apply(ctx context.Context, o outcome, scope service.LinkScope) {
	if o.err != nil && ctx.Err() != nil {
		// interrupted, not failed: keep it for a later crawl
		if !c.state.Frontier.Push(o.url) {
			c.logger.Warn("frontier full, dropping interrupted url", zap.String("url", o.url))
		}
		return
	}

	record := &entity.FetchLog{
		URL:       o.url,
		Success:   o.err == nil,
		Title:     o.title,
		Timestamp: time.Now(),
	}
	if o.result != nil {
		record.ProxyURL = o.result.ProxyURL
		record.Attempts = o.result.Attempts
		record.StatusCode = o.result.StatusCode
		record.DurationMs = o.result.Duration.Milliseconds()
	}

	var pushed int
	if o.err == nil {
		for _, link := range entity.SortedSlice(o.links) {
			if scope != nil && !scope.InScope(link) {
				continue
			}
			if c.state.Frontier.Push(link) {
				pushed++
			}
		}
		c.state.Visited.Add(o.url)
		c.state.Errors.Clear()
		record.Links = pushed
		c.logger.Debug("fetched", zap.String("url", o.url), zap.Int("links", pushed))
	} else {
		c.state.Errors.Add(FetchErrorMessage)
		record.Error = o.err.Error()
		c.logger.Warn("fetch failed", zap.String("url", o.url), zap.Error(o.err))
	}

	c.mu.Lock()
	c.metrics.Fetches++
	if o.err == nil {
		c.metrics.Successes++
	} else {
		c.metrics.Failures++
	}
	if record.Attempts > 1 {
		c.metrics.Retries += int64(record.Attempts - 1)
	}
	c.metrics.LinksDiscovered += int64(pushed)
	c.mu.Unlock()

	if c.logWriter != nil {
		if err := c.logWriter.WriteFetchLog(record); err != nil {
			c.logger.Error("failed to write fetch log", zap.Error(err))
		}
	}
	for _, observer := range c.observers {
		observer.OnFetch(record)
	}
}

// requeue puts back the copies of url popped while it was in flight, unless
// the fetch succeeded. A sequential crawl would have popped them afterwards.
func (c *Crawler) requeue(url string, deferred map[string]int) {
	n := deferred[url]
	if n == 0 {
		return
	}
	delete(deferred, url)
	if c.state.Visited.Contains(url) {
		return
	}
	for i := 0; i < n; i++ {
		if !c.state.Frontier.Push(url) {
			c.logger.Warn("frontier full, dropping queued url", zap.String("url", url))
			return
		}
	}
}

func (c *Crawler) updateActive(inFlight map[string]bool) {
	active := make([]string, 0, len(inFlight))
	for url := range inFlight {
		active = append(active, url)
	}
	c.setPhase("", func(m *entity.Metrics) {
		m.ActiveWorkers = len(active)
		m.ActiveURLs = active
	})
}

// setPhase updates the metrics under the lock and notifies observers.
// An empty phase leaves the phase unchanged.
func (c *Crawler) setPhase(phase entity.Phase, update func(m *entity.Metrics)) {
	c.mu.Lock()
	if phase != "" {
		c.metrics.Phase = phase
	}
	if update != nil {
		update(&c.metrics)
	}
	c.metrics.LastUpdateTime = time.Now()
	c.mu.Unlock()

	if len(c.observers) == 0 {
		return
	}
	metrics := c.Metrics()
	for _, observer := range c.observers {
		observer.OnMetricsUpdate(metrics)
	}
}

func (c *Crawler) report(limit int, startedAt time.Time) *entity.CrawlReport {
	pending := mapset.NewThreadUnsafeSet(c.state.Frontier.Snapshot()...)

	report := entity.NewCrawlReport()
	report.Roots = mapset.NewThreadUnsafeSet(c.Roots()...)
	report.RootDomains = c.RootDomains()
	report.Seen = c.state.Visited.Snapshot()
	report.Queue = pending.Difference(report.Roots)
	report.Result = pending.Difference(report.Seen)
	report.Errors = c.state.Errors.Snapshot()
	report.Limit = limit
	report.StartedAt = startedAt
	report.FinishedAt = time.Now()
	return report
}
