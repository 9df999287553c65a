package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jessevdk/go-flags"
)

func TestParseArgs_Defaults(t *testing.T) {
	cfg, err := ParseArgs([]string{"-r", "example.com"})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}

	if cfg.Roots != "example.com" {
		t.Errorf("Roots = %q, want example.com", cfg.Roots)
	}
	if cfg.Limit != 10 || cfg.NumWorkers != 1 || cfg.Attempts != 4 {
		t.Errorf("Limit/Workers/Attempts = %d/%d/%d, want 10/1/4", cfg.Limit, cfg.NumWorkers, cfg.Attempts)
	}
	if cfg.BackoffDuration != 250*time.Millisecond {
		t.Errorf("BackoffDuration = %s, want 250ms", cfg.BackoffDuration)
	}
	if cfg.MaxBackoffDuration != 30*time.Second {
		t.Errorf("MaxBackoffDuration = %s, want 30s", cfg.MaxBackoffDuration)
	}
	if cfg.HTTPTimeoutDuration != 10*time.Second {
		t.Errorf("HTTPTimeoutDuration = %s, want 10s", cfg.HTTPTimeoutDuration)
	}
	if len(cfg.Deny) != 2 || cfg.Deny[0] != "css" || cfg.Deny[1] != "ico" {
		t.Errorf("Deny = %v, want [css ico]", cfg.Deny)
	}
	if cfg.OutputFile != "-" || cfg.Format != "json" {
		t.Errorf("OutputFile/Format = %q/%q, want -/json", cfg.OutputFile, cfg.Format)
	}
}

func TestParseArgs_Overrides(t *testing.T) {
	cfg, err := ParseArgs([]string{
		"-r", "a.com,b.com", "-l", "3", "-n", "4",
		"--direct", "--deny", ".pdf", "--format", "markdown", "--crawl-timeout", "30",
	})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}

	c := cfg.ToConfig()
	if c.HTTP.ProxyURL != "" {
		t.Errorf("ProxyURL = %q, want empty with --direct", c.HTTP.ProxyURL)
	}
	if c.Crawl.Limit != 3 || c.Crawl.Workers != 4 {
		t.Errorf("Limit/Workers = %d/%d, want 3/4", c.Crawl.Limit, c.Crawl.Workers)
	}
	if len(c.Crawl.Deny) != 1 || c.Crawl.Deny[0] != ".pdf" {
		t.Errorf("Deny = %v, want [.pdf]", c.Crawl.Deny)
	}
	if c.Output.Format != "markdown" {
		t.Errorf("Format = %q, want markdown", c.Output.Format)
	}
	if c.Crawl.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", c.Crawl.Timeout)
	}
}

func TestParseArgs_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawler.ini")
	ini := "limit = 25\nworkers = 2\nsame-site = true\n"
	if err := os.WriteFile(path, []byte(ini), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := ParseArgs([]string{"--config", path, "-r", "example.com", "-n", "6"})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if cfg.Limit != 25 {
		t.Errorf("Limit = %d, want 25 from config file", cfg.Limit)
	}
	if !cfg.SameSite {
		t.Errorf("SameSite = false, want true from config file")
	}
	if cfg.NumWorkers != 6 {
		t.Errorf("NumWorkers = %d, want 6 (command line wins)", cfg.NumWorkers)
	}
}

func TestParseArgs_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no seeds", []string{}},
		{"zero workers", []string{"-r", "a.com", "-n", "0"}},
		{"negative limit", []string{"-r", "a.com", "-l", "-1"}},
		{"bad format", []string{"-r", "a.com", "--format", "yaml"}},
		{"empty proxy", []string{"-r", "a.com", "--proxy", ""}},
		{"too many attempts", []string{"-r", "a.com", "--attempts", "21"}},
		{"zero max backoff", []string{"-r", "a.com", "--max-backoff", "0"}},
		{"bad bloom rate", []string{"-r", "a.com", "--bloom-fp", "1.5"}},
		{"missing config", []string{"-r", "a.com", "--config", "/nonexistent/crawler.ini"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseArgs(tt.args); err == nil {
				t.Errorf("ParseArgs(%v) should fail", tt.args)
			}
		})
	}
}

func TestParseArgs_Help(t *testing.T) {
	_, err := ParseArgs([]string{"--help"})
	if !flags.WroteHelp(err) {
		t.Errorf("ParseArgs(--help) error = %v, want help", err)
	}
}

func TestParseArgs_VersionSkipsValidation(t *testing.T) {
	cfg, err := ParseArgs([]string{"--version"})
	if err != nil {
		t.Fatalf("ParseArgs(--version) error = %v", err)
	}
	if !cfg.Version {
		t.Errorf("Version = false, want true")
	}
}

func TestParseArgs_ListenWithoutSeeds(t *testing.T) {
	if _, err := ParseArgs([]string{"--listen", ":8080"}); err != nil {
		t.Errorf("ParseArgs(--listen) error = %v", err)
	}
}
