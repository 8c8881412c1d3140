package pipeline

import (
	"bytes"
	"io"
	"time"

	"jralmeda/pcxscraper/helpers"
	"jralmeda/pcxscraper/logger"
	"jralmeda/pcxscraper/services/cache"
)

// Fetcher retrieves the raw markup of a page. Implementations fail with an
// error on network problems or non-success status codes.
type Fetcher interface {
	Fetch(url string) (io.Reader, error)
}

// FetchFunc adapts a plain function into a Fetcher
type FetchFunc func(url string) (io.Reader, error)

// Fetch implements Fetcher
func (f FetchFunc) Fetch(url string) (io.Reader, error) {
	return f(url)
}

// HTTPFetcher fetches pages over HTTP with browser-like headers
type HTTPFetcher struct{}

// Fetch implements Fetcher
func (HTTPFetcher) Fetch(url string) (io.Reader, error) {
	return helpers.FetchWithRandomHeaders(url)
}

// CachingFetcher decorates a Fetcher with a page cache so repeated runs
// stay polite to the origin. Cache failures fall through to the origin
// fetch; a cache is never a reason for a fetch to fail.
type CachingFetcher struct {
	Next     Fetcher
	CacheSvc cache.CacheService
	TTL      time.Duration
}

// NewCachingFetcher wraps next with the given page cache
func NewCachingFetcher(next Fetcher, cacheSvc cache.CacheService, ttl time.Duration) *CachingFetcher {
	return &CachingFetcher{Next: next, CacheSvc: cacheSvc, TTL: ttl}
}

// Fetch implements Fetcher
func (c *CachingFetcher) Fetch(url string) (io.Reader, error) {
	key := "page:" + url

	if data, err := c.CacheSvc.Get(key); err == nil {
		logger.Debug("page cache hit: %s", url)
		return bytes.NewReader(data), nil
	}

	body, err := c.Next.Fetch(url)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	if err := c.CacheSvc.Set(key, data, c.TTL); err != nil {
		logger.Debug("page cache store failed for %s: %v", url, err)
	}

	return bytes.NewReader(data), nil
}
