package ui

import (
	"strings"
	"testing"
)

func TestRenderModuleList(t *testing.T) {
	out := RenderModuleList([]ModuleStatus{
		{Path: "utils"},
		{Path: "models/user", Errors: 2},
		{Path: "common/errors", Warnings: 1},
		{Path: "app", CacheHit: true},
	}, 80)
	for _, want := range []string{"ok", "error", "warning", "cached", "models/user"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
	if RenderModuleList(nil, 80) != "" {
		t.Fatal("empty input should render nothing")
	}
}

func TestRenderSummary(t *testing.T) {
	cases := []struct {
		modules, errors, warnings int
		want                      string
	}{
		{3, 0, 0, "checked 3 modules: no issues"},
		{1, 0, 2, "checked 1 module: 2 warnings"},
		{2, 1, 0, "checked 2 modules: 1 error, 0 warnings"},
	}
	for _, tc := range cases {
		got := RenderSummary(tc.modules, tc.errors, tc.warnings)
		if !strings.Contains(got, tc.want) {
			t.Errorf("summary %d/%d/%d = %q, want substring %q",
				tc.modules, tc.errors, tc.warnings, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 20); got != "short" {
		t.Fatalf("truncate short = %q", got)
	}
	got := truncate("a/very/long/module/path/name", 12)
	if !strings.HasSuffix(got, "...") || len(got) > 12 {
		t.Fatalf("truncate long = %q", got)
	}
}
