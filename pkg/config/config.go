package config

import "time"

// Config holds all component configuration
type Config struct {
	Input  InputConfig
	Output OutputConfig
	HTTP   HTTPConfig
	Crawl  CrawlConfig
	Dedup  DedupConfig
	Server ServerConfig
}

type InputConfig struct {
	// Roots is a comma separated list of seed hosts
	Roots string
	// File holds one seed per line; "-" is stdin
	File string
}

type OutputConfig struct {
	ReportFile   string
	Format       string
	FetchLogFile string
}

type HTTPConfig struct {
	ProxyURL        string
	Attempts        int
	Backoff         time.Duration
	MaxBackoff      time.Duration
	Timeout         time.Duration
	MaxResponseSize int64
	UserAgent       string
	Insecure        bool
}

type CrawlConfig struct {
	Limit     int
	Workers   int
	QueueSize int
	// Timeout bounds a whole crawl; 0 disables it
	Timeout  time.Duration
	Deny     []string
	SameSite bool
}

type DedupConfig struct {
	BloomFilterSize          uint
	BloomFilterFalsePositive float64
}

type ServerConfig struct {
	Listen      string
	MetricsAddr string
}

// Default returns the configuration used when no flag is given
func Default() *Config {
	return &Config{
		Output: OutputConfig{ReportFile: "-", Format: "json"},
		HTTP: HTTPConfig{
			ProxyURL:        "https://api.asheux.com/crawl",
			Attempts:        4,
			Backoff:         250 * time.Millisecond,
			MaxBackoff:      30 * time.Second,
			Timeout:         10 * time.Second,
			MaxResponseSize: 10 * 1024 * 1024,
		},
		Crawl: CrawlConfig{
			Limit:   10,
			Workers: 1,
			Deny:    []string{"css", "ico"},
		},
		Dedup: DedupConfig{
			BloomFilterSize:          100000,
			BloomFilterFalsePositive: 0.001,
		},
	}
}
