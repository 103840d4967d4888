package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultRecycleAfter is the number of pages a Chrome process serves before
// it is replaced. Chrome's memory baseline only grows under sustained load.
const DefaultRecycleAfter = 75

// browser owns one headless Chrome process at a time and relaunches it once
// it has opened limit pages. It is safe for concurrent use.
type browser struct {
	mu       sync.Mutex
	conn     *rod.Browser
	launcher *launcher.Launcher
	opened   int64
	limit    int64
	launches int
}

func launchBrowser(limit int64) (*browser, error) {
	b := &browser{limit: limit}
	if err := b.start(); err != nil {
		return nil, err
	}
	return b, nil
}

// newPage opens a blank tab, relaunching Chrome first when the current
// process has reached its page limit. A failed relaunch keeps the old
// process running.
func (b *browser) newPage() (*rod.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		return nil, fmt.Errorf("browser closed")
	}
	if b.limit > 0 && b.opened >= b.limit {
		oldConn, oldLauncher := b.conn, b.launcher
		if err := b.start(); err == nil {
			_ = oldConn.Close()
			oldLauncher.Kill()
		}
	}
	b.opened++
	return b.conn.Page(proto.TargetCreateTarget{})
}

// start launches Chrome with flags that keep background tabs rendering.
// Must be called with mu held or before b is shared.
func (b *browser) start() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	conn := rod.New().ControlURL(u)
	if err := conn.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	b.conn, b.launcher = conn, l
	b.opened = 0
	b.launches++
	return nil
}

func (b *browser) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.conn != nil {
		err = b.conn.Close()
		b.conn = nil
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher = nil
	}
	return err
}

func (b *browser) pid() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.launcher == nil {
		return 0
	}
	return b.launcher.PID()
}

func (b *browser) launchCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.launches
}
