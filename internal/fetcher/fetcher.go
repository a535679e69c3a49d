package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"xwlb/internal/browser"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// WaitStrategy 页面加载后的等待策略
type WaitStrategy string

const (
	WaitLoad             WaitStrategy = "load"             // 等待 load 事件
	WaitNetworkIdle      WaitStrategy = "networkidle"      // load 之后再等网络空闲（尽力而为）
	WaitDOMContentLoaded WaitStrategy = "domcontentloaded" // 只等 DOMContentLoaded
)

const (
	// DefaultTimeout is used when the caller passes no page timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultIdleTimeout bounds the best-effort network idle wait.
	DefaultIdleTimeout = 10 * time.Second
	// idleWindow is how long the network must stay quiet to count as idle.
	idleWindow = 500 * time.Millisecond
)

// FetchResult 页面快照
type FetchResult struct {
	HTML         string        // 等待结束时的完整 DOM
	Title        string        // 页面标题
	URL          string        // 最终URL
	LoadTime     time.Duration // 加载时间
	IdleTimedOut bool          // 网络空闲等待是否超时
}

// Fetcher 在同一个页面上依次打开多个 URL
type Fetcher struct {
	browser     *browser.Browser
	page        *rod.Page
	timeout     time.Duration
	idleTimeout time.Duration
}

// NewFetcher 创建新的 Fetcher 实例
func NewFetcher(b *browser.Browser, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		browser:     b,
		timeout:     timeout,
		idleTimeout: DefaultIdleTimeout,
	}
}

// Close 关闭页面
func (f *Fetcher) Close() {
	if f.page != nil {
		f.page.Close()
		f.page = nil
	}
}

func (f *Fetcher) ensurePage() (*rod.Page, error) {
	if f.page != nil {
		return f.page, nil
	}
	page, err := f.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	f.page = page
	return page, nil
}

// Fetch 打开 url，按策略等待，然后返回 DOM 快照
func (f *Fetcher) Fetch(ctx context.Context, url string, strategy WaitStrategy) (*FetchResult, error) {
	startTime := time.Now()

	page, err := f.ensurePage()
	if err != nil {
		return nil, err
	}
	p := page.Context(ctx)

	result := &FetchResult{}

	switch strategy {
	case WaitDOMContentLoaded:
		if err := f.navigateDOMContentLoaded(p, url); err != nil {
			return nil, err
		}

	case WaitNetworkIdle:
		if err := f.navigateAndLoad(p, url); err != nil {
			return nil, err
		}
		result.IdleTimedOut = f.waitIdle(p)

	default:
		if err := f.navigateAndLoad(p, url); err != nil {
			return nil, err
		}
	}

	html, err := p.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read page HTML: %w", err)
	}

	info, err := p.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to read page info: %w", err)
	}

	result.HTML = html
	result.Title = info.Title
	result.URL = info.URL
	result.LoadTime = time.Since(startTime)

	return result, nil
}

func (f *Fetcher) navigateAndLoad(p *rod.Page, url string) error {
	if err := p.Timeout(f.timeout).Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}
	if err := p.Timeout(f.timeout).WaitLoad(); err != nil {
		return fmt.Errorf("failed to wait for page load: %w", err)
	}
	return nil
}

// navigateDOMContentLoaded navigates and blocks until the main frame fires
// DOMContentLoaded. Subframe events are ignored.
func (f *Fetcher) navigateDOMContentLoaded(p *rod.Page, url string) error {
	ctx, cancel := context.WithTimeout(p.GetContext(), f.timeout)
	defer cancel()
	tp := p.Context(ctx)

	if err := (proto.PageSetLifecycleEventsEnabled{Enabled: true}).Call(tp); err != nil {
		return fmt.Errorf("failed to enable lifecycle events: %w", err)
	}

	// 必须在导航前订阅生命周期事件
	wait := tp.EachEvent(mainFrameLifecycle(tp.FrameID, proto.PageLifecycleEventNameDOMContentLoaded))
	if err := tp.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}
	wait()

	return waitErr(ctx, "DOMContentLoaded")
}

// mainFrameLifecycle matches lifecycle event name on frame only.
func mainFrameLifecycle(frame proto.PageFrameID, name proto.PageLifecycleEventName) func(*proto.PageLifecycleEvent) bool {
	return func(e *proto.PageLifecycleEvent) bool {
		return e.FrameID == frame && e.Name == name
	}
}

// waitErr turns an expired or cancelled wait into an error.
func waitErr(ctx context.Context, event string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to wait for %s: %w", event, err)
	}
	return nil
}

// waitIdle reports true when the idle bound expired before the network went quiet.
func (f *Fetcher) waitIdle(p *rod.Page) bool {
	ctx, cancel := context.WithTimeout(p.GetContext(), f.idleTimeout)
	defer cancel()

	wait := p.Context(ctx).WaitRequestIdle(
		idleWindow, nil, nil,
		[]proto.NetworkResourceType{proto.NetworkResourceTypeImage, proto.NetworkResourceTypeMedia},
	)
	wait()

	return errors.Is(ctx.Err(), context.DeadlineExceeded)
}
