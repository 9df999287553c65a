package entity

import "time"

// FetchLog is written once per concluded fetch (success or exhausted retries)
type FetchLog struct {
	URL        string    `json:"url"`
	ProxyURL   string    `json:"proxy_url,omitempty"`
	Attempts   int       `json:"attempts"`
	StatusCode int       `json:"status_code"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	Title      string    `json:"title,omitempty"`
	Links      int       `json:"links"`
	DurationMs int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}
