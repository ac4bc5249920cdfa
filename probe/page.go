package probe

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/verify/config"
	"github.com/ysmood/gson"
)

// preparePage applies everything that must be in place before navigation.
// Each step is best-effort.
func preparePage(page *rod.Page, cfg *config.Config) {
	if w, h := cfg.Capture.ViewportWidth, cfg.Capture.ViewportHeight; w > 0 && h > 0 {
		if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             w,
			Height:            h,
			DeviceScaleFactor: 1,
		}); err != nil {
			slog.Warn("failed to set viewport", "width", w, "height", h, "error", err)
		}
	}

	// Stealth JS only affects documents created after it is installed.
	if cfg.Browser.Stealth {
		if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", err)
		}
	}

	if len(cfg.Target.Headers) > 0 {
		if err := (proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(cfg.Target.Headers),
		}).Call(page); err != nil {
			slog.Warn("failed to set extra headers", "error", err)
		}
	}
}

// capture returns PNG bytes of the viewport or the whole page.
func capture(page *rod.Page, fullPage bool) ([]byte, error) {
	return page.Screenshot(fullPage, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

// statusCode reads the main document's HTTP status from the Navigation
// Timing API. 0 when unavailable.
func statusCode(page *rod.Page) int {
	res, err := page.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch(e) {}
		return 0;
	}`)
	if err != nil {
		return 0
	}
	return res.Value.Int()
}

// pageTitle parses <title> out of the rendered HTML, falling back to
// document.title for pages that set it from script only.
func pageTitle(page *rod.Page) string {
	if raw, err := page.HTML(); err == nil {
		if title := titleFromHTML(raw); title != "" {
			return title
		}
	}
	return evalStringOrEmpty(page, `() => document.title`)
}

func titleFromHTML(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("head > title").First().Text())
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors.
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
