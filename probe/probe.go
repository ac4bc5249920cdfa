package probe

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/utils"
	"github.com/use-agent/verify/config"
	"github.com/use-agent/verify/models"
)

// Probe checks that a page is reachable and keeps a screenshot of it.
type Probe struct {
	cfg *config.Config
}

// New creates a Probe for the given configuration.
func New(cfg *config.Config) *Probe {
	return &Probe{cfg: cfg}
}

// Run performs one probe. It never returns an error: failures are recorded
// on the Outcome. The browser is released before Run returns.
func (p *Probe) Run(ctx context.Context) *models.Outcome {
	start := time.Now()
	out := &models.Outcome{URL: p.cfg.Target.URL}

	err := p.run(ctx, out)
	out.Duration = time.Since(start)

	if err != nil {
		out.Err = err
		slog.Warn("probe failed",
			"url", out.URL,
			"code", models.CodeOf(err),
			"duration", out.Duration,
			"error", err,
		)
		return out
	}

	out.Reachable = true
	slog.Info("probe succeeded",
		"url", out.URL,
		"title", out.Title,
		"status", out.StatusCode,
		"screenshot", out.ScreenshotPath,
		"duration", out.Duration,
	)
	return out
}

// run is the linear launch → navigate → capture sequence.
//
//  1. Acquire browser        – released by defer on every path
//  2. Open page              – viewport, stealth and headers before navigation
//  3. Navigate + load        – bounded by the navigation timeout
//  4. Settle + metadata      – best-effort, never fails the run
//  5. Capture + write        – bounded by the capture timeout
func (p *Probe) run(ctx context.Context, out *models.Outcome) error {
	// ── 1. Acquire browser ────────────────────────────────────────────
	s, err := openSession(p.cfg.Browser)
	if err != nil {
		return err
	}
	out.BrowserPID = s.pid
	defer s.release()

	// ── 2. Open page ──────────────────────────────────────────────────
	page, err := s.openPage()
	if err != nil {
		return models.NewProbeError(
			models.ErrCodeBrowserLaunch,
			"failed to open page",
			err,
		)
	}
	preparePage(page, p.cfg)

	// ── 3. Navigate ───────────────────────────────────────────────────
	navCtx, navCancel := context.WithTimeout(ctx, p.cfg.Target.NavigationTimeout)
	defer navCancel()

	np := page.Context(navCtx)
	if err := np.Navigate(p.cfg.Target.URL); err != nil {
		return categorizeError(err, "navigation to target URL failed")
	}
	if err := np.WaitLoad(); err != nil {
		return categorizeError(err, "page did not finish loading")
	}

	// ── 4. Settle + metadata ─────────────────────────────────────────
	capCtx, capCancel := context.WithTimeout(ctx, p.cfg.Capture.Timeout)
	defer capCancel()

	settle(ctx, page, p.cfg.Capture.SettleWindow)

	cp := page.Context(capCtx)
	out.StatusCode = statusCode(cp)
	out.Title = pageTitle(cp)

	// ── 5. Capture + write ───────────────────────────────────────────
	img, err := capture(cp, p.cfg.Capture.FullPage)
	if err != nil {
		return models.NewProbeError(models.ErrCodeScreenshot, "failed to capture screenshot", err)
	}
	if err := utils.OutputFile(p.cfg.Capture.OutputPath, img); err != nil {
		return models.NewProbeError(models.ErrCodeArtifact, "failed to write screenshot", err)
	}
	out.ScreenshotPath = p.cfg.Capture.OutputPath

	return nil
}

// settleBudget caps how long settle may spend, in settle windows.
const settleBudget = 4

// settle waits for the DOM to stop changing, giving up after settleBudget
// windows. Pages that never settle (spinners, clocks) are captured as they are.
func settle(ctx context.Context, page *rod.Page, window time.Duration) {
	if window <= 0 {
		return
	}
	settleCtx, cancel := context.WithTimeout(ctx, settleBudget*window)
	defer cancel()

	if err := page.Context(settleCtx).WaitDOMStable(window, 0.1); err != nil {
		slog.Debug("DOM did not settle, capturing current state", "error", err)
	}
}

// categorizeError wraps navigation errors into typed ProbeErrors so the
// log carries the failure kind.
func categorizeError(err error, msg string) *models.ProbeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewProbeError(models.ErrCodeTimeout, "navigation timed out", err)
	case errors.Is(err, context.Canceled):
		return models.NewProbeError(models.ErrCodeTimeout, "navigation canceled", err)
	default:
		return models.NewProbeError(models.ErrCodeNavigation, msg, err)
	}
}
