//go:build linux || darwin

package probe

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"
)

// processGone reports whether pid no longer exists.
func processGone(pid int) bool {
	return errors.Is(syscall.Kill(pid, 0), syscall.ESRCH)
}

func TestRun_ReleasesBrowser(t *testing.T) {
	srv := fixtureServer(t, 0)

	for name, url := range map[string]string{
		"reachable":   srv.URL,
		"unreachable": closedPortURL(t),
	} {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig(t, url)

			out := New(cfg).Run(context.Background())

			if out.BrowserPID <= 0 {
				t.Fatalf("BrowserPID = %d, want a launched process", out.BrowserPID)
			}
			if !processGone(out.BrowserPID) {
				t.Errorf("browser process %d still running after Run", out.BrowserPID)
			}
		})
	}
}

func TestSessionRelease_Idempotent(t *testing.T) {
	cfg := testConfig(t, "about:blank")

	s, err := openSession(cfg.Browser)
	if err != nil {
		t.Fatalf("openSession: %v", err)
	}
	page, err := s.openPage()
	if err != nil {
		t.Fatalf("openPage: %v", err)
	}
	if s.page != page {
		t.Fatal("session should own the opened page")
	}

	done := make(chan struct{})
	go func() {
		s.release()
		s.release()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("release did not return")
	}
	if !processGone(s.pid) {
		t.Errorf("browser process %d still running after release", s.pid)
	}
}
