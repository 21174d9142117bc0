package rod

import (
	"fmt"
	"sync"

	"github.com/fwojciec/ohscrap"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is the default number of pages a browser serves before
// it is replaced.
const DefaultMaxPages = 75

// BrowserManager hands out pages from a headless Chrome and replaces the
// browser after it has served maxPages pages, since Chrome's memory use
// keeps growing even when pages are closed. A replaced browser is shut down
// once its last open page is released.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	current  *instance
	maxPages int64
	closed   bool
}

// instance is one launched browser. Counters are guarded by the manager's mutex.
type instance struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	opened   int64
	inFlight int
	retired  bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the number of pages a browser serves before it is
// replaced. Defaults to DefaultMaxPages.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// NewBrowserManager launches a headless Chrome browser.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(bm)
	}

	inst, err := launch()
	if err != nil {
		return nil, err
	}
	bm.current = inst

	return bm, nil
}

// Page opens a blank page. The returned release function closes the page
// and must be called exactly once when the caller is done with it.
func (bm *BrowserManager) Page() (*rod.Page, func(), error) {
	bm.mu.Lock()
	if bm.closed {
		bm.mu.Unlock()
		return nil, nil, ohscrap.Errorf(ohscrap.EINVALID, "browser manager is closed")
	}
	var retired *instance
	if bm.maxPages > 0 && bm.current.opened >= bm.maxPages {
		retired = bm.replace()
	}
	inst := bm.current
	inst.opened++
	inst.inFlight++
	bm.mu.Unlock()

	if retired != nil {
		_ = retired.shutdown()
	}

	page, err := inst.browser.Page(proto.TargetCreateTarget{})
	release := func() {
		if page != nil {
			_ = page.Close()
		}
		bm.mu.Lock()
		inst.inFlight--
		done := inst.retired && inst.inFlight == 0
		bm.mu.Unlock()
		if done {
			_ = inst.shutdown()
		}
	}
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("opening page: %w", err)
	}
	return page, release, nil
}

// Close shuts the current browser down. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	if bm.closed {
		bm.mu.Unlock()
		return nil
	}
	bm.closed = true
	inst := bm.current
	bm.mu.Unlock()

	return inst.shutdown()
}

// LauncherPID returns the process ID of the current browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.current == nil || bm.current.launcher == nil {
		return 0
	}
	return bm.current.launcher.PID()
}

// replace launches a fresh browser and retires the current one. It returns
// the retired instance when nothing uses it anymore so the caller can shut
// it down outside the lock. If the launch fails the current browser stays.
// Must be called with mu held.
func (bm *BrowserManager) replace() *instance {
	next, err := launch()
	if err != nil {
		return nil
	}

	old := bm.current
	old.retired = true
	bm.current = next
	if old.inFlight == 0 {
		return old
	}
	return nil
}

// launch starts a browser with flags that keep background pages rendering.
func launch() (*instance, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("ignore-certificate-errors").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &instance{browser: browser, launcher: l}, nil
}

func (i *instance) shutdown() error {
	err := i.browser.Close()
	i.launcher.Kill()
	return err
}
