package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/WangYihang/web-crawler/pkg/application"
	"github.com/WangYihang/web-crawler/pkg/common"
	"github.com/WangYihang/web-crawler/pkg/config"
	"github.com/WangYihang/web-crawler/pkg/domain/entity"
	"github.com/WangYihang/web-crawler/pkg/infrastructure/metrics"
	"github.com/WangYihang/web-crawler/pkg/interface/api"
	"github.com/WangYihang/web-crawler/pkg/interface/cli"
	"github.com/WangYihang/web-crawler/pkg/interface/presenter"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func main() {
	// Parse command line flags
	opts, err := cli.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if opts.Version {
		fmt.Println(common.PV.String())
		return
	}

	// The dashboard owns the terminal, so it only logs to a file
	logger := zap.NewNop()
	if !opts.ShowDashboard || opts.LogFile != "" {
		logger, err = common.NewLogger(opts.Verbose, opts.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	defer logger.Sync()

	cfg := opts.ToConfig()
	assembler := cli.NewAssembler(cfg, logger)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	exporter := metrics.NewExporter()
	if cfg.Server.MetricsAddr != "" {
		go func() {
			logger.Info("metrics listening", zap.String("addr", cfg.Server.MetricsAddr))
			if err := exporter.Serve(ctx, cfg.Server.MetricsAddr); err != nil {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	if cfg.Server.Listen != "" {
		err = serve(ctx, assembler, exporter, cfg, logger)
	} else {
		err = run(ctx, assembler, exporter, cfg, opts.ShowDashboard, logger)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// serve runs the HTTP API; every request crawls with its own state
func serve(ctx context.Context, assembler *cli.Assembler, exporter *metrics.Exporter, cfg *config.Config, logger *zap.Logger) error {
	fetchLog, err := assembler.AssembleFetchLog()
	if err != nil {
		return err
	}
	if fetchLog != nil {
		defer fetchLog.Close()
	}

	newCrawler := func() *application.Crawler {
		crawler := assembler.AssembleCrawler(fetchLog)
		crawler.RegisterMetricsObserver(exporter)
		return crawler
	}

	server := api.NewServer(newCrawler, cfg.Crawl.Limit, exporter.Handler(), logger.Named("api"))
	return server.ListenAndServe(ctx, cfg.Server.Listen)
}

// run performs a single crawl and writes its report
func run(ctx context.Context, assembler *cli.Assembler, exporter *metrics.Exporter, cfg *config.Config, showDashboard bool, logger *zap.Logger) error {
	roots, err := assembler.LoadRoots()
	if err != nil {
		return err
	}
	if roots == "" {
		return fmt.Errorf("no root domains provided")
	}

	fetchLog, err := assembler.AssembleFetchLog()
	if err != nil {
		return err
	}
	if fetchLog != nil {
		defer fetchLog.Close()
	}

	reportWriter, err := assembler.AssembleReportWriter()
	if err != nil {
		return err
	}
	defer reportWriter.Close()

	crawler := assembler.AssembleCrawler(fetchLog)
	crawler.RegisterMetricsObserver(exporter)
	crawler.SetRoots(roots)

	crawlCtx, cancelCrawl := context.WithCancel(ctx)
	defer cancelCrawl()
	if cfg.Crawl.Timeout > 0 {
		crawlCtx, cancelCrawl = context.WithTimeout(crawlCtx, cfg.Crawl.Timeout)
		defer cancelCrawl()
	}

	var (
		report   *entity.CrawlReport
		crawlErr error
	)

	if showDashboard {
		dashboard := presenter.NewDashboard()
		crawler.RegisterMetricsObserver(dashboard)

		// Run dashboard in TUI mode
		p := tea.NewProgram(dashboard, tea.WithAltScreen())

		// Run crawler in background
		done := make(chan struct{})
		go func() {
			defer close(done)
			report, crawlErr = crawler.Crawl(crawlCtx, cfg.Crawl.Limit)
			p.Quit()
		}()

		// Start TUI
		if _, err := p.Run(); err != nil {
			cancelCrawl()
			<-done
			return fmt.Errorf("TUI error: %w", err)
		}

		// Quitting the TUI early stops the crawl
		cancelCrawl()
		<-done
	} else {
		bar := presenter.NewProgressBar(os.Stderr, "crawling", cfg.Crawl.Limit)
		crawler.RegisterMetricsObserver(bar)

		report, crawlErr = crawler.Crawl(crawlCtx, cfg.Crawl.Limit)
		bar.Finish()
	}

	if report == nil {
		return crawlErr
	}
	if crawlErr != nil && !errors.Is(crawlErr, context.Canceled) && !errors.Is(crawlErr, context.DeadlineExceeded) {
		return crawlErr
	}
	if crawlErr != nil {
		logger.Warn("crawl interrupted, writing partial report", zap.Error(crawlErr))
	}

	if err := reportWriter.Write(report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	presenter.PrintSummary(os.Stderr, report, crawler.Metrics())
	return nil
}
