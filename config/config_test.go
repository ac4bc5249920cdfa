package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"VERIFY_URL", "VERIFY_OUTPUT", "VERIFY_NAV_TIMEOUT", "VERIFY_HEADERS",
		"VERIFY_HEADLESS", "VERIFY_FULL_PAGE", "VERIFY_LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()

	if cfg.Target.URL != "http://localhost:3000" {
		t.Errorf("URL = %q, want http://localhost:3000", cfg.Target.URL)
	}
	if cfg.Capture.OutputPath != "verification/homepage.png" {
		t.Errorf("OutputPath = %q, want verification/homepage.png", cfg.Capture.OutputPath)
	}
	if cfg.Target.NavigationTimeout != 5000*time.Millisecond {
		t.Errorf("NavigationTimeout = %v, want 5s", cfg.Target.NavigationTimeout)
	}
	if !cfg.Browser.Headless {
		t.Error("Headless should default to true")
	}
	if !cfg.Capture.FullPage {
		t.Error("FullPage should default to true")
	}
	if cfg.Target.Headers != nil {
		t.Errorf("Headers = %v, want nil", cfg.Target.Headers)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want text", cfg.Log.Format)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("VERIFY_URL", "http://127.0.0.1:4000/report/a/b")
	t.Setenv("VERIFY_NAV_TIMEOUT", "750ms")
	t.Setenv("VERIFY_NO_SANDBOX", "true")
	t.Setenv("VERIFY_VIEWPORT_WIDTH", "800")
	t.Setenv("VERIFY_HEADERS", "X-Probe=1, Accept-Language = en-US")

	cfg := Load()

	if cfg.Target.URL != "http://127.0.0.1:4000/report/a/b" {
		t.Errorf("URL = %q", cfg.Target.URL)
	}
	if cfg.Target.NavigationTimeout != 750*time.Millisecond {
		t.Errorf("NavigationTimeout = %v, want 750ms", cfg.Target.NavigationTimeout)
	}
	if !cfg.Browser.NoSandbox {
		t.Error("NoSandbox override not applied")
	}
	if cfg.Capture.ViewportWidth != 800 {
		t.Errorf("ViewportWidth = %d, want 800", cfg.Capture.ViewportWidth)
	}
	if got := cfg.Target.Headers["X-Probe"]; got != "1" {
		t.Errorf("X-Probe header = %q, want 1", got)
	}
	if got := cfg.Target.Headers["Accept-Language"]; got != "en-US" {
		t.Errorf("Accept-Language header = %q, want en-US", got)
	}
}

func TestLoad_MalformedFallsBack(t *testing.T) {
	t.Setenv("VERIFY_NAV_TIMEOUT", "five seconds")
	t.Setenv("VERIFY_HEADLESS", "maybe")
	t.Setenv("VERIFY_VIEWPORT_HEIGHT", "tall")

	cfg := Load()

	if cfg.Target.NavigationTimeout != 5*time.Second {
		t.Errorf("NavigationTimeout = %v, want fallback 5s", cfg.Target.NavigationTimeout)
	}
	if !cfg.Browser.Headless {
		t.Error("Headless should fall back to true")
	}
	if cfg.Capture.ViewportHeight != 720 {
		t.Errorf("ViewportHeight = %d, want fallback 720", cfg.Capture.ViewportHeight)
	}
}

func TestEnvMapOr(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  map[string]string
	}{
		{"empty", "", nil},
		{"single", "A=1", map[string]string{"A": "1"}},
		{"skips bare keys", "A=1,B,=3", map[string]string{"A": "1"}},
		{"only garbage", "B,=3", nil},
		{"value with equals", "Cookie=a=b", map[string]string{"Cookie": "a=b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("VERIFY_TEST_MAP", tt.value)
			got := envMapOr("VERIFY_TEST_MAP", nil)
			if len(got) != len(tt.want) {
				t.Fatalf("envMapOr(%q) = %v, want %v", tt.value, got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("envMapOr(%q)[%q] = %q, want %q", tt.value, k, got[k], v)
				}
			}
		})
	}
}
