package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
)

// DefaultMaxPages is the number of pages fetched before the browser is
// replaced.
const DefaultMaxPages = 75

// stabilityFlags keep background tabs from being throttled while a page
// renders.
var stabilityFlags = []flags.Flag{
	"disable-background-timer-throttling",
	"disable-backgrounding-occluded-windows",
	"disable-renderer-backgrounding",
	"disable-dev-shm-usage",
	"disable-hang-monitor",
}

// BrowserManager owns the browser process and replaces it after maxPages
// pages, since Chrome's memory baseline grows with every page it renders.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    atomic.Int64
	maxPages int64
	headless bool
	closed   atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the number of pages after which the browser is recycled.
// Defaults to DefaultMaxPages if not specified.
func WithMaxPages(n int64) ManagerOption {
	return func(m *BrowserManager) {
		m.maxPages = n
	}
}

// WithHeadless controls whether the browser window is hidden. Defaults to
// true.
func WithHeadless(headless bool) ManagerOption {
	return func(m *BrowserManager) {
		m.headless = headless
	}
}

// NewBrowserManager launches a browser. Close must be called when the
// BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	m := &BrowserManager{
		maxPages: DefaultMaxPages,
		headless: true,
	}
	for _, opt := range opts {
		opt(m)
	}

	browser, l, err := m.launch()
	if err != nil {
		return nil, err
	}
	m.browser, m.launcher = browser, l
	return m, nil
}

// Browser returns the current browser, replacing it first when maxPages
// pages have been counted. Callers report finished pages with
// IncrementPageCount.
func (m *BrowserManager) Browser() *rod.Browser {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pages.Load() >= m.maxPages {
		m.recycle()
	}
	return m.browser
}

// IncrementPageCount counts one fetched page toward the recycling threshold.
func (m *BrowserManager) IncrementPageCount() {
	m.pages.Add(1)
}

// Close shuts the browser down. Close is safe to call multiple times.
func (m *BrowserManager) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	err := shutdown(m.browser, m.launcher)
	m.browser, m.launcher = nil, nil
	return err
}

// LauncherPID returns the process ID of the browser launcher, or 0 after
// Close.
func (m *BrowserManager) LauncherPID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.launcher == nil {
		return 0
	}
	return m.launcher.PID()
}

func (m *BrowserManager) launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().Leakless(true).Headless(m.headless)
	for _, f := range stabilityFlags {
		l = l.Set(f)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return browser, l, nil
}

// recycle swaps in a fresh browser. The old one is kept when the new one
// fails to launch. Must be called with mu held.
func (m *BrowserManager) recycle() {
	browser, l, err := m.launch()
	if err != nil {
		return
	}
	_ = shutdown(m.browser, m.launcher)
	m.browser, m.launcher = browser, l
	m.pages.Store(0)
}

func shutdown(browser *rod.Browser, l *launcher.Launcher) error {
	var err error
	if browser != nil {
		err = browser.Close()
	}
	if l != nil {
		l.Kill()
	}
	return err
}
