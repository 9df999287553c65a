package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/WangYihang/web-crawler/pkg/config"
	"github.com/jessevdk/go-flags"
)

// MaxAttempts bounds --attempts
const MaxAttempts = 20

// Config holds all command line options
type Config struct {
	// Input/Output
	Roots        string `short:"r" long:"roots" description:"Comma separated seed hosts" ini-name:"roots"`
	InputFile    string `short:"i" long:"input" description:"File with seed hosts, one per line (- for stdin)" ini-name:"input"`
	OutputFile   string `short:"o" long:"output" description:"Report file (- for stdout)" default:"-" ini-name:"output"`
	Format       string `long:"format" description:"Report format" choice:"json" choice:"markdown" default:"json" ini-name:"format"`
	FetchLogFile string `long:"fetch-log" description:"JSONL file receiving one record per fetch" ini-name:"fetch-log"`

	// Crawling
	Limit        int      `short:"l" long:"limit" description:"Maximum number of URLs to visit" default:"10" ini-name:"limit"`
	NumWorkers   int      `short:"n" long:"workers" description:"Number of concurrent fetches" default:"1" ini-name:"workers"`
	QueueSize    int      `long:"queue-size" description:"Frontier capacity (0 for unbounded)" default:"0" ini-name:"queue-size"`
	CrawlTimeout int      `long:"crawl-timeout" description:"Overall crawl deadline in seconds (0 to disable)" default:"0" ini-name:"crawl-timeout"`
	Deny         []string `long:"deny" description:"Drop links containing this substring (repeatable)" default:"css" default:"ico" ini-name:"deny"`
	SameSite     bool     `long:"same-site" description:"Only follow links on the registrable domain of a root" ini-name:"same-site"`

	// HTTP
	ProxyURL        string `long:"proxy" description:"Relay endpoint; targets are passed as ?url=" default:"https://api.asheux.com/crawl" ini-name:"proxy"`
	Direct          bool   `long:"direct" description:"Fetch targets directly instead of through the proxy" ini-name:"direct"`
	Attempts        int    `long:"attempts" description:"Attempts per URL" default:"4" ini-name:"attempts"`
	Backoff         int    `long:"backoff" description:"Initial retry backoff in milliseconds" default:"250" ini-name:"backoff"`
	MaxBackoff      int    `long:"max-backoff" description:"Maximum retry backoff in seconds" default:"30" ini-name:"max-backoff"`
	HTTPTimeout     int    `long:"http-timeout" description:"HTTP request timeout in seconds" default:"10" ini-name:"http-timeout"`
	MaxResponseSize int64  `long:"max-response-size" description:"Maximum HTTP response size in bytes" default:"10485760" ini-name:"max-response-size"`
	UserAgent       string `long:"user-agent" description:"HTTP User-Agent header (random when empty)" ini-name:"user-agent"`
	Insecure        bool   `long:"insecure" description:"Skip TLS certificate verification" ini-name:"insecure"`

	// Real durations (not parsed from flags directly)
	BackoffDuration      time.Duration `no-flag:"true"`
	MaxBackoffDuration   time.Duration `no-flag:"true"`
	HTTPTimeoutDuration  time.Duration `no-flag:"true"`
	CrawlTimeoutDuration time.Duration `no-flag:"true"`

	// Dedup
	BloomFilterSize uint64  `long:"bloom-size" description:"Bloom filter size (number of expected URLs)" default:"100000" ini-name:"bloom-size"`
	BloomFilterFP   float64 `long:"bloom-fp" description:"Bloom filter false positive rate" default:"0.001" ini-name:"bloom-fp"`

	// Surfaces
	ShowDashboard bool   `long:"dashboard" description:"Show interactive TUI dashboard" ini-name:"dashboard"`
	MetricsAddr   string `long:"metrics-addr" description:"Expose Prometheus metrics on this address, e.g. :2112" ini-name:"metrics-addr"`
	Listen        string `long:"listen" description:"Serve the HTTP API on this address instead of crawling once" ini-name:"listen"`

	// Misc
	ConfigFile string `long:"config" description:"INI file with default option values" no-ini:"true"`
	Verbose    bool   `short:"v" long:"verbose" description:"Enable debug logging" ini-name:"verbose"`
	LogFile    string `long:"log-file" description:"Write logs to this file instead of stderr" ini-name:"log-file"`
	Version    bool   `long:"version" description:"Print version information and exit" no-ini:"true"`
}

// ParseFlags parses command line flags
func ParseFlags() (*Config, error) {
	cfg, err := ParseArgs(os.Args[1:])
	if err != nil {
		if flags.WroteHelp(err) {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
		return nil, err
	}
	return cfg, nil
}

// ParseArgs parses args, reading option defaults from --config first
func ParseArgs(args []string) (*Config, error) {
	var pre struct {
		ConfigFile string `long:"config"`
	}
	if _, err := flags.NewParser(&pre, flags.IgnoreUnknown).ParseArgs(args); err != nil {
		return nil, err
	}

	cfg := &Config{}
	parser := flags.NewParser(cfg, flags.HelpFlag|flags.PassDoubleDash)
	parser.Usage = "[OPTIONS]"

	if pre.ConfigFile != "" {
		if err := flags.NewIniParser(parser).ParseFile(pre.ConfigFile); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	// Convert durations
	cfg.BackoffDuration = time.Duration(cfg.Backoff) * time.Millisecond
	cfg.MaxBackoffDuration = time.Duration(cfg.MaxBackoff) * time.Second
	cfg.HTTPTimeoutDuration = time.Duration(cfg.HTTPTimeout) * time.Second
	cfg.CrawlTimeoutDuration = time.Duration(cfg.CrawlTimeout) * time.Second

	if cfg.Version {
		return cfg, nil
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Roots == "" && c.InputFile == "" && c.Listen == "" {
		return fmt.Errorf("no seeds given: use --roots, --input or --listen")
	}

	if c.Limit < 0 {
		return fmt.Errorf("limit must be >= 0, got %d", c.Limit)
	}

	if c.NumWorkers <= 0 {
		return fmt.Errorf("number of workers must be > 0, got %d", c.NumWorkers)
	}

	if c.QueueSize < 0 {
		return fmt.Errorf("queue size must be >= 0, got %d", c.QueueSize)
	}

	if c.Attempts <= 0 {
		return fmt.Errorf("attempts must be > 0, got %d", c.Attempts)
	}

	if c.Attempts > MaxAttempts {
		return fmt.Errorf("attempts must be <= %d, got %d", MaxAttempts, c.Attempts)
	}

	if c.MaxBackoffDuration <= 0 {
		return fmt.Errorf("max backoff must be > 0, got %s", c.MaxBackoffDuration)
	}

	if c.BackoffDuration < 0 {
		return fmt.Errorf("backoff must be >= 0, got %s", c.BackoffDuration)
	}

	if c.HTTPTimeoutDuration <= 0 {
		return fmt.Errorf("HTTP timeout must be > 0, got %s", c.HTTPTimeoutDuration)
	}

	if c.CrawlTimeoutDuration < 0 {
		return fmt.Errorf("crawl timeout must be >= 0, got %s", c.CrawlTimeoutDuration)
	}

	if c.MaxResponseSize <= 0 {
		return fmt.Errorf("max response size must be > 0, got %d", c.MaxResponseSize)
	}

	if !c.Direct && c.ProxyURL == "" {
		return fmt.Errorf("proxy URL is empty; pass --direct to fetch without a proxy")
	}

	if c.BloomFilterSize == 0 {
		return fmt.Errorf("bloom filter size must be > 0")
	}

	if c.BloomFilterFP <= 0 || c.BloomFilterFP >= 1 {
		return fmt.Errorf("bloom filter false positive rate must be between 0 and 1, got %f", c.BloomFilterFP)
	}

	return nil
}

// ToConfig converts the parsed options into component configuration
func (c *Config) ToConfig() *config.Config {
	cfg := config.Default()

	cfg.Input.Roots = c.Roots
	cfg.Input.File = c.InputFile

	cfg.Output.ReportFile = c.OutputFile
	cfg.Output.Format = c.Format
	cfg.Output.FetchLogFile = c.FetchLogFile

	cfg.HTTP.ProxyURL = c.ProxyURL
	if c.Direct {
		cfg.HTTP.ProxyURL = ""
	}
	cfg.HTTP.Attempts = c.Attempts
	cfg.HTTP.Backoff = c.BackoffDuration
	cfg.HTTP.MaxBackoff = c.MaxBackoffDuration
	cfg.HTTP.Timeout = c.HTTPTimeoutDuration
	cfg.HTTP.MaxResponseSize = c.MaxResponseSize
	cfg.HTTP.UserAgent = c.UserAgent
	cfg.HTTP.Insecure = c.Insecure

	cfg.Crawl.Limit = c.Limit
	cfg.Crawl.Workers = c.NumWorkers
	cfg.Crawl.QueueSize = c.QueueSize
	cfg.Crawl.Timeout = c.CrawlTimeoutDuration
	cfg.Crawl.Deny = append([]string{}, c.Deny...)
	cfg.Crawl.SameSite = c.SameSite

	cfg.Dedup.BloomFilterSize = uint(c.BloomFilterSize)
	cfg.Dedup.BloomFilterFalsePositive = c.BloomFilterFP

	cfg.Server.Listen = c.Listen
	cfg.Server.MetricsAddr = c.MetricsAddr

	return cfg
}
