package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/benjaminestes/robots"
)

var ErrRobotsDisallowed = errors.New("disallowed by robots.txt")

// Fetcher retrieves one search-results document. Implementations must be
// bounded: a fetch fails with a timeout error rather than hang.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// userAgents rotates per request so repeated polls look less mechanical.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:89.0) Gecko/20100101 Firefox/89.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/90.0.4430.212 Safari/537.36",
}

type HTTPFetcher struct {
	client        *http.Client
	respectRobots bool
	robotsCache   map[string]*robots.Robots
}

func NewHTTPFetcher(timeout time.Duration, respectRobots bool) *HTTPFetcher {
	return &HTTPFetcher{
		client:        &http.Client{Timeout: timeout},
		respectRobots: respectRobots,
		robotsCache:   make(map[string]*robots.Robots),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	ua := userAgents[rand.Intn(len(userAgents))]

	if f.respectRobots {
		r := checkRobots(url, f.robotsCache)
		if r != nil && !r.Test(ua, url) {
			return nil, ErrRobotsDisallowed
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Add("User-Agent", ua)
	req.Header.Add("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Add("Accept-Language", "en-US,en;q=0.9,nl;q=0.8")
	req.Header.Add("Upgrade-Insecure-Requests", "1")
	req.Header.Add("Cache-Control", "max-age=0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	if !validateHTMLContentTypeHeader(resp, "text/html") {
		return nil, fmt.Errorf("unexpected content type %q for %s", resp.Header.Get("Content-Type"), url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if !validateBodyContentType(body, "text/html") {
		return nil, fmt.Errorf("response body for %s does not look like HTML", url)
	}

	return body, nil
}

func validateHTMLContentTypeHeader(resp *http.Response, contentType string) bool {
	header := resp.Header.Get("Content-Type")

	return strings.Contains(strings.ToLower(header), contentType)
}

func validateBodyContentType(body []byte, contentType string) bool {
	return strings.HasPrefix(http.DetectContentType(body), contentType)
}
