package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/WangYihang/web-crawler/pkg/application"
	"github.com/WangYihang/web-crawler/pkg/config"
	"github.com/WangYihang/web-crawler/pkg/domain/repository"
	"github.com/WangYihang/web-crawler/pkg/domain/service"
	"github.com/WangYihang/web-crawler/pkg/infrastructure/domainservice"
	"github.com/WangYihang/web-crawler/pkg/infrastructure/extract"
	"github.com/WangYihang/web-crawler/pkg/infrastructure/http"
	"github.com/WangYihang/web-crawler/pkg/infrastructure/storage"
	"github.com/WangYihang/web-crawler/pkg/infrastructure/urljoin"
	"go.uber.org/zap"
)

// Assembler assembles all components for the application
type Assembler struct {
	config *config.Config
	logger *zap.Logger
	stdin  io.Reader
}

// NewAssembler creates a new assembler
func NewAssembler(cfg *config.Config, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{config: cfg, logger: logger, stdin: os.Stdin}
}

// AssembleCrawler wires a crawler with fresh state. logWriter may be nil.
func (a *Assembler) AssembleCrawler(logWriter repository.LogWriter) *application.Crawler {
	crawlerConfig := application.Config{Workers: a.config.Crawl.Workers}
	if a.config.Crawl.SameSite {
		crawlerConfig.Scope = func(rootDomains []string) service.LinkScope {
			return domainservice.NewScope(rootDomains)
		}
	}

	fetcher := http.NewFetcher(http.Config{
		ProxyURL:        a.config.HTTP.ProxyURL,
		Attempts:        a.config.HTTP.Attempts,
		Backoff:         a.config.HTTP.Backoff,
		MaxBackoff:      a.config.HTTP.MaxBackoff,
		Timeout:         a.config.HTTP.Timeout,
		MaxResponseSize: a.config.HTTP.MaxResponseSize,
		UserAgent:       a.config.HTTP.UserAgent,
		Insecure:        a.config.HTTP.Insecure,
	}, a.logger.Named("fetcher"))

	state := application.CrawlState{
		Frontier: storage.NewFrontier(a.config.Crawl.QueueSize),
		Visited: storage.NewVisitedSet(storage.Config{
			Size:              a.config.Dedup.BloomFilterSize,
			FalsePositiveRate: a.config.Dedup.BloomFilterFalsePositive,
		}),
		Errors: storage.NewErrorRegistry(),
	}

	return application.NewCrawler(
		crawlerConfig,
		domainservice.NewNormalizer(a.logger.Named("normalizer")),
		extract.NewLinkExtractor(urljoin.NewResolver(), a.config.Crawl.Deny),
		fetcher,
		state,
		logWriter,
		a.logger.Named("crawler"),
	)
}

// AssembleReportWriter opens the configured report destination
func (a *Assembler) AssembleReportWriter() (repository.ReportWriter, error) {
	writer, err := storage.NewReportWriter(a.config.Output.ReportFile, a.config.Output.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to create report writer: %w", err)
	}
	return writer, nil
}

// AssembleFetchLog opens the fetch log, or returns nil when none is configured
func (a *Assembler) AssembleFetchLog() (repository.LogWriter, error) {
	if a.config.Output.FetchLogFile == "" {
		return nil, nil
	}
	writer, err := storage.NewFetchLogWriter(a.config.Output.FetchLogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch log writer: %w", err)
	}
	return writer, nil
}

// LoadRoots joins the --roots list with the seeds read from --input
func (a *Assembler) LoadRoots() (string, error) {
	var roots []string
	for _, root := range strings.Split(a.config.Input.Roots, ",") {
		if root = strings.TrimSpace(root); root != "" {
			roots = append(roots, root)
		}
	}

	if a.config.Input.File != "" {
		seeds, err := a.readSeeds(a.config.Input.File)
		if err != nil {
			return "", fmt.Errorf("failed to load root domains: %w", err)
		}
		roots = append(roots, seeds...)
	}

	return strings.Join(roots, ","), nil
}

func (a *Assembler) readSeeds(path string) ([]string, error) {
	var scanner *bufio.Scanner

	if path == "-" {
		scanner = bufio.NewScanner(a.stdin)
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		scanner = bufio.NewScanner(file)
	}

	var seeds []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		seeds = append(seeds, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return seeds, nil
}
