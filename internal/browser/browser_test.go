package browser

import (
	"testing"

	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/stretchr/testify/assert"
)

// TestConfigDefaults verifies unset fields fall back to the desktop profile
func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()

	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, 1280, cfg.ViewportWidth)
	assert.Equal(t, 720, cfg.ViewportHeight)
	assert.False(t, cfg.Headless, "headed unless asked otherwise")
}

// TestConfigDefaults_KeepsExplicitValues verifies explicit values survive
func TestConfigDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{UserAgent: "test-agent", ViewportWidth: 800, ViewportHeight: 600}.withDefaults()

	assert.Equal(t, "test-agent", cfg.UserAgent)
	assert.Equal(t, 800, cfg.ViewportWidth)
	assert.Equal(t, 600, cfg.ViewportHeight)
}

// TestNewLauncher_AutomationFlag verifies the anti-detection switch is passed
func TestNewLauncher_AutomationFlag(t *testing.T) {
	l := newLauncher(Config{}.withDefaults())

	assert.Equal(t, "AutomationControlled", l.Get(flags.Flag("disable-blink-features")))
	assert.False(t, l.Has(flags.Headless), "should launch a visible window by default")
	assert.False(t, l.Has(flags.ProxyServer))
}

// TestNewLauncher_HeadlessAndProxy verifies headless and proxy flags
func TestNewLauncher_HeadlessAndProxy(t *testing.T) {
	l := newLauncher(Config{Headless: true, ProxyURL: "http://127.0.0.1:7890"}.withDefaults())

	assert.True(t, l.Has(flags.Headless))
	assert.Equal(t, "http://127.0.0.1:7890", l.Get(flags.ProxyServer))
}
