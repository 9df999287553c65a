package common

import (
	"strings"
	"testing"
)

func TestProgramVersion(t *testing.T) {
	v := ProgramVersion{
		Version:    "v1.2.0",
		CommitHash: "abc123",
		BuildTime:  "2026-10-18",
		GoVersion:  "go1.24",
		Platform:   "linux/amd64",
	}

	if got := v.Short(); got != "web-crawler/1.2.0" {
		t.Errorf("Short() = %q, want web-crawler/1.2.0", got)
	}

	lines := strings.Split(v.String(), "\n")
	if len(lines) != 3 {
		t.Fatalf("String() has %d lines, want 3", len(lines))
	}
	if lines[0] != "web-crawler/1.2.0 (commit abc123, built 2026-10-18)" {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[1] != "go1.24 linux/amd64" {
		t.Errorf("second line = %q", lines[1])
	}
}

func TestPV_Defaults(t *testing.T) {
	if PV.Version != Version || PV.GoVersion == "" || !strings.Contains(PV.Platform, "/") {
		t.Errorf("PV = %+v", PV)
	}
}
