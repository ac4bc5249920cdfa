package probe

import (
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/use-agent/verify/config"
	"github.com/use-agent/verify/models"
)

// session owns one launched Chromium and its CDP connection.
// release is safe to call more than once.
type session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	pid      int
	once     sync.Once
}

// openSession launches a browser and connects to it. On error nothing is
// left running.
func openSession(cfg config.BrowserConfig) (*session, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}
	if cfg.Proxy != "" {
		l = l.Proxy(cfg.Proxy)
	}

	l.Set(flags.Flag("disable-features"), "TranslateUI")
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("hide-scrollbars"))
	l.Set(flags.Flag("no-first-run"))

	if cfg.Stealth {
		l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
		l.Delete(flags.Flag("enable-automation"))
	}

	controlURL, err := l.Launch()
	if err != nil {
		killLauncher(l)
		return nil, models.NewProbeError(
			models.ErrCodeBrowserLaunch,
			"failed to launch browser",
			err,
		)
	}
	slog.Debug("browser launched", "controlURL", controlURL, "pid", l.PID())

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		killLauncher(l)
		return nil, models.NewProbeError(
			models.ErrCodeBrowserLaunch,
			"failed to connect to browser",
			err,
		)
	}

	return &session{
		launcher: l,
		browser:  browser,
		pid:      l.PID(),
	}, nil
}

// openPage opens the session's page. release closes it.
func (s *session) openPage() (*rod.Page, error) {
	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	s.page = page
	return page, nil
}

// release closes the page and the browser, kills the process group and
// removes the temporary profile.
func (s *session) release() {
	s.once.Do(func() {
		if s.page != nil {
			if err := s.page.Close(); err != nil {
				slog.Debug("page close returned error", "error", err)
			}
		}
		if err := s.browser.Close(); err != nil {
			slog.Debug("browser close returned error, killing process", "error", err)
		}
		killLauncher(s.launcher)
		slog.Debug("browser released", "pid", s.pid)
	})
}

// killLauncher is a no-op until the process has started: Kill with a zero
// PID would signal our own process group, and Cleanup would block forever.
func killLauncher(l *launcher.Launcher) {
	if l.PID() <= 0 {
		return
	}
	l.Kill()
	l.Cleanup()
}
