package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Target  TargetConfig
	Browser BrowserConfig
	Capture CaptureConfig
	Log     LogConfig
}

// TargetConfig describes the page being verified.
type TargetConfig struct {
	// URL is the page the probe navigates to.
	URL string // default: "http://localhost:3000"

	// NavigationTimeout bounds navigation plus the load event.
	NavigationTimeout time.Duration // default: 5s

	// Headers are extra HTTP headers sent with every request of the page.
	Headers map[string]string
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker or as root).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is an optional proxy URL for the browser.
	Proxy string

	// Stealth injects anti-automation evasions before navigation.
	Stealth bool // default: false
}

// CaptureConfig controls the screenshot artifact.
type CaptureConfig struct {
	// OutputPath is where the PNG is written on success.
	OutputPath string // default: "verification/homepage.png"

	// FullPage captures the whole scrollable page instead of the viewport.
	FullPage bool // default: true

	// Timeout bounds the screenshot capture.
	Timeout time.Duration // default: 30s

	// SettleWindow is how long the DOM must stay unchanged before capture.
	// Zero skips the wait.
	SettleWindow time.Duration // default: 300ms

	ViewportWidth  int // default: 1280
	ViewportHeight int // default: 720
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables. With an empty
// environment every value equals the built-in default.
func Load() *Config {
	return &Config{
		Target: TargetConfig{
			URL:               envOr("VERIFY_URL", "http://localhost:3000"),
			NavigationTimeout: envDurationOr("VERIFY_NAV_TIMEOUT", 5*time.Second),
			Headers:           envMapOr("VERIFY_HEADERS", nil),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("VERIFY_HEADLESS", true),
			NoSandbox:  envBoolOr("VERIFY_NO_SANDBOX", false),
			BrowserBin: os.Getenv("VERIFY_BROWSER_BIN"),
			Proxy:      os.Getenv("VERIFY_PROXY"),
			Stealth:    envBoolOr("VERIFY_STEALTH", false),
		},
		Capture: CaptureConfig{
			OutputPath:     envOr("VERIFY_OUTPUT", "verification/homepage.png"),
			FullPage:       envBoolOr("VERIFY_FULL_PAGE", true),
			Timeout:        envDurationOr("VERIFY_SCREENSHOT_TIMEOUT", 30*time.Second),
			SettleWindow:   envDurationOr("VERIFY_SETTLE", 300*time.Millisecond),
			ViewportWidth:  envIntOr("VERIFY_VIEWPORT_WIDTH", 1280),
			ViewportHeight: envIntOr("VERIFY_VIEWPORT_HEIGHT", 720),
		},
		Log: LogConfig{
			Level:  envOr("VERIFY_LOG_LEVEL", "info"),
			Format: envOr("VERIFY_LOG_FORMAT", "text"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envMapOr parses "Key=Value,Key2=Value2". Pairs without '=' or with an
// empty key are skipped.
func envMapOr(key string, fallback map[string]string) map[string]string {
	if v := os.Getenv(key); v != "" {
		result := make(map[string]string)
		for _, p := range strings.Split(v, ",") {
			k, val, ok := strings.Cut(p, "=")
			k = strings.TrimSpace(k)
			if !ok || k == "" {
				continue
			}
			result[k] = strings.TrimSpace(val)
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
