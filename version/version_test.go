package version

import (
	"strings"
	"testing"
)

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"version only", Info{Version: "dev"}, "dev"},
		{"with commit", Info{Version: "v1.0.0", GitCommit: "abc1234"}, "v1.0.0-abc1234"},
		{"dirty", Info{Version: "v1.0.0", GitCommit: "abc1234", IsDirty: true}, "v1.0.0-abc1234-dirty"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.info.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGet_LdflagsWin(t *testing.T) {
	oldV, oldC, oldB := Version, GitCommit, BuildTime
	defer func() { Version, GitCommit, BuildTime = oldV, oldC, oldB }()

	Version, GitCommit, BuildTime = "v2.0.0", "0123456789abcdef", "2026-01-02T03:04:05Z"
	info := Get()
	if info.Version != "v2.0.0" {
		t.Errorf("expected v2.0.0, got %q", info.Version)
	}
	if info.GitCommit != "0123456" {
		t.Errorf("expected commit truncated to 7 chars, got %q", info.GitCommit)
	}
	if info.BuildTime != "2026-01-02T03:04:05Z" {
		t.Errorf("unexpected build time %q", info.BuildTime)
	}
}

func TestUserAgent(t *testing.T) {
	if ua := UserAgent("medsum"); !strings.HasPrefix(ua, "medsum/") {
		t.Errorf("unexpected user agent %q", ua)
	}
}
