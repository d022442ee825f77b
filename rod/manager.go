package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
)

// DefaultMaxPages is how many pages one Chrome process renders before it is
// replaced. Publisher pages carry heavy ad scripts and leak memory quickly.
const DefaultMaxPages = 50

// chromeFlags are passed to every launched browser.
var chromeFlags = []struct {
	name   flags.Flag
	values []string
}{
	{name: "disable-background-timer-throttling"},
	{name: "disable-backgrounding-occluded-windows"},
	{name: "disable-renderer-backgrounding"},
	{name: "disable-dev-shm-usage"},
	{name: "disable-hang-monitor"},
	{name: "blink-settings", values: []string{"imagesEnabled=false"}},
}

// session is one running Chrome process.
type session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

func startSession() (*session, error) {
	l := launcher.New().Leakless(true).Headless(true)
	for _, f := range chromeFlags {
		l = l.Set(f.name, f.values...)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching chrome: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to chrome: %w", err)
	}
	return &session{browser: b, launcher: l}, nil
}

func (s *session) stop() error {
	err := s.browser.Close()
	s.launcher.Kill()
	return err
}

// BrowserManager hands out a shared browser and swaps it for a fresh process
// once it has rendered MaxPages pages. It is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	current  *session
	rendered int64
	maxPages int64
	closed   bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the restart threshold.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		if n > 0 {
			bm.maxPages = n
		}
	}
}

// NewBrowserManager starts Chrome. Callers must Close the manager.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(bm)
	}

	s, err := startSession()
	if err != nil {
		return nil, err
	}
	bm.current = s
	return bm, nil
}

// Browser returns the browser to open the next page in. When the current
// process has reached its page budget a replacement is started first; if
// that fails the old process stays in service.
func (bm *BrowserManager) Browser() *rod.Browser {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.current == nil {
		return nil
	}
	if !bm.closed && bm.rendered >= bm.maxPages {
		if next, err := startSession(); err == nil {
			_ = bm.current.stop()
			bm.current = next
			bm.rendered = 0
		}
	}
	return bm.current.browser
}

// IncrementPageCount records a rendered page against the current process.
func (bm *BrowserManager) IncrementPageCount() {
	bm.mu.Lock()
	bm.rendered++
	bm.mu.Unlock()
}

// Close stops Chrome. Subsequent calls do nothing.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true

	s := bm.current
	bm.current = nil
	if s == nil {
		return nil
	}
	return s.stop()
}

// LauncherPID returns the Chrome launcher's process ID, or 0 after Close.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.current == nil {
		return 0
	}
	return bm.current.launcher.PID()
}
