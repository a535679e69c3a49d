package browser

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultUserAgent 伪装成普通桌面 Chrome
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

// hideWebdriver 在每个新文档加载前执行
const hideWebdriver = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined});`

// Config 浏览器启动参数
type Config struct {
	Headless       bool
	ProxyURL       string
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
}

func (c Config) withDefaults() Config {
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.ViewportWidth <= 0 {
		c.ViewportWidth = DefaultViewportWidth
	}
	if c.ViewportHeight <= 0 {
		c.ViewportHeight = DefaultViewportHeight
	}
	return c
}

// Browser 封装 rod.Browser 实例
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	cfg      Config
}

// New 启动浏览器并建立连接
func New(cfg Config) (*Browser, error) {
	cfg = cfg.withDefaults()

	l := newLauncher(cfg)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	rb := rod.New().ControlURL(controlURL)
	if err := rb.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Browser{
		browser:  rb,
		launcher: l,
		cfg:      cfg,
	}, nil
}

// newLauncher builds the launcher without starting the browser process.
func newLauncher(cfg Config) *launcher.Launcher {
	l := launcher.New().
		Headless(cfg.Headless).
		Set(flags.Flag("disable-blink-features"), "AutomationControlled")

	if cfg.ProxyURL != "" {
		l = l.Proxy(cfg.ProxyURL)
	}
	return l
}

// NewPage 创建新页面，并设置 UA、视口和反检测脚本
func (b *Browser) NewPage() (*rod.Page, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent: b.cfg.UserAgent,
	}); err != nil {
		page.Close()
		return nil, fmt.Errorf("failed to set user agent: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             b.cfg.ViewportWidth,
		Height:            b.cfg.ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		page.Close()
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	if _, err := page.EvalOnNewDocument(hideWebdriver); err != nil {
		page.Close()
		return nil, fmt.Errorf("failed to install init script: %w", err)
	}

	return page, nil
}

// Close 关闭浏览器并清理资源
func (b *Browser) Close() error {
	var err error
	if b.browser != nil {
		err = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
	}
	return err
}
