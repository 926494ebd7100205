package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"card-arbitrage/models"
)

const (
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	httpTimeout    = 12 * time.Second
	browserTimeout = 60 * time.Second
	maxBodySize    = 10 * 1024 * 1024
)

// FetchError is the only error kind that crosses the fetcher boundary. It is
// always recoverable: the caller skips the source and continues.
type FetchError struct {
	URL    string
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher retrieves source documents over plain HTTP or through headless
// Chrome. It performs no retries; retry policy belongs to the caller.
type Fetcher struct {
	client   *http.Client
	allocCtx context.Context
	headers  map[string]string
}

// New creates a Fetcher. allocCtx may be nil when only KindHTTP fetches will
// be issued.
func New(allocCtx context.Context) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: httpTimeout},
		allocCtx: allocCtx,
		headers:  map[string]string{},
	}
}

// SetHeader adds a header sent with every plain HTTP fetch, e.g. an API key.
func (f *Fetcher) SetHeader(key, value string) {
	f.headers[key] = value
}

// Fetch retrieves endpoint according to kind. It returns a SourceDocument
// or a *FetchError, never a panic and never a raw transport error.
func (f *Fetcher) Fetch(ctx context.Context, endpoint string, kind models.DocumentKind) (*models.SourceDocument, error) {
	switch kind {
	case models.KindBrowser:
		return f.fetchBrowser(ctx, endpoint)
	default:
		return f.fetchHTTP(ctx, endpoint)
	}
}

func (f *Fetcher) fetchHTTP(ctx context.Context, endpoint string) (*models.SourceDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{URL: endpoint, Reason: "build request", Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: endpoint, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: endpoint, Reason: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: endpoint, Reason: "read body", Err: err}
	}

	return &models.SourceDocument{
		URL:         endpoint,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		FetchedAt:   time.Now(),
	}, nil
}

func (f *Fetcher) fetchBrowser(ctx context.Context, endpoint string) (*models.SourceDocument, error) {
	if f.allocCtx == nil {
		return nil, &FetchError{URL: endpoint, Reason: "no browser allocator configured"}
	}

	tabCtx, cancel := chromedp.NewContext(f.allocCtx)
	defer cancel()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, browserTimeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(endpoint),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, &FetchError{URL: endpoint, Reason: "browser navigation", Err: err}
	}

	return &models.SourceDocument{
		URL:         endpoint,
		ContentType: "text/html",
		Body:        []byte(html),
		FetchedAt:   time.Now(),
	}, nil
}

// NewBrowserAllocator builds the shared headless Chrome allocator used by
// every rendered fetch in a run. The returned cancel func must be deferred.
func NewBrowserAllocator(chromeBin string) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent(userAgent),
	)
	if bin := findChromeBinary(chromeBin); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	cancel := func() {
		cancelSilent()
		cancelAlloc()
	}
	return silentCtx, cancel
}

// findChromeBinary locates the Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
