package scraper

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type namedScraper string

func (n namedScraper) Name() string { return string(n) }
func (n namedScraper) Scrape(context.Context, Options) (Content, error) {
	return nil, nil
}

// TestRegistry_CaseInsensitive verifies lookups ignore case
func TestRegistry_CaseInsensitive(t *testing.T) {
	Register(namedScraper("Registry-Test"))

	s, ok := Get("registry-test")
	assert.True(t, ok)
	assert.Equal(t, "Registry-Test", s.Name())

	_, ok = Get("REGISTRY-TEST")
	assert.True(t, ok)
}

// TestRegistry_Unknown verifies missing names are reported
func TestRegistry_Unknown(t *testing.T) {
	_, ok := Get("no-such-site")
	assert.False(t, ok)
}

// TestNames verifies registered names are listed
func TestNames(t *testing.T) {
	Register(namedScraper("names-b"))
	Register(namedScraper("names-a"))

	names := Names()
	assert.Contains(t, names, "names-a")
	assert.Contains(t, names, "names-b")
	assert.IsIncreasing(t, names)
}

// TestOptionsLog verifies Log forwards to Logf and tolerates nil
func TestOptionsLog(t *testing.T) {
	var lines []string
	opts := Options{Logf: func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}}

	opts.Log("Opening %s...", "https://example.com")
	Options{}.Log("dropped")

	assert.Equal(t, []string{"Opening https://example.com..."}, lines)
}
