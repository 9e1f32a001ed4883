// Package assets fetches, caches and resolves model assets and runs the
// model loading pipeline.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/folio3d/internal/logger"
)

// Fetch errors.
var (
	ErrHTTPStatus        = errors.New("unexpected HTTP status")
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
)

// DefaultTimeout bounds a single HTTP fetch.
const DefaultTimeout = 15 * time.Second

// Fetcher retrieves the bytes behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Manager fetches file:// and http(s):// URLs and caches successful reads
// by URL. Failures are never cached.
type Manager struct {
	client *http.Client
	cache  *Cache
	log    *zap.Logger
}

// NewManager creates a manager whose HTTP fetches time out after timeout.
func NewManager(timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{
		client: &http.Client{Timeout: timeout},
		cache:  NewCache(),
		log:    logger.Named("assets"),
	}
}

// Fetch returns the bytes at rawURL, from cache when possible.
func (m *Manager) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if data, ok := m.cache.Get(rawURL); ok {
		m.log.Debug("cache hit", zap.String("url", rawURL))
		return data, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", rawURL, err)
	}

	var data []byte
	switch u.Scheme {
	case "file", "":
		data, err = readFile(u)
	case "http", "https":
		data, err = m.fetchHTTP(ctx, rawURL)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	if err != nil {
		return nil, err
	}

	m.cache.Set(rawURL, data)
	m.log.Debug("fetched", zap.String("url", rawURL), zap.Int("bytes", len(data)))
	return data, nil
}

// Invalidate drops a cached URL so the next Fetch rereads it.
func (m *Manager) Invalidate(rawURL string) {
	m.cache.Delete(rawURL)
}

// Cache exposes the byte cache for its hit and miss counters.
func (m *Manager) Cache() *Cache {
	return m.cache
}

func readFile(u *url.URL) ([]byte, error) {
	path := filepath.FromSlash(u.Path)
	if u.Scheme == "" {
		path = filepath.FromSlash(u.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func (m *Manager) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s for %s", ErrHTTPStatus, resp.Status, rawURL)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", rawURL, err)
	}
	return data, nil
}

// Cache is a simple in-memory cache for fetched assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	// Hit counters are written, so this takes the write lock.
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Delete removes one item.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
