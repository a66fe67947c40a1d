package base

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrAllStrategiesFailed is returned when no fetcher produced a page the
// validator accepted.
var ErrAllStrategiesFailed = errors.New("all strategies failed")

const defaultChromeDriverPath = "/usr/local/bin/chromedriver"

// Fetcher is one way of loading a page.
type Fetcher struct {
	Name  string
	Fetch func(ctx context.Context, url string) (*goquery.Document, error)
}

// BaseScraper handles common scraping logic
type BaseScraper struct {
	Client           *http.Client
	ChromeDriverPath string
	Ports            *PortPool
	// Fetchers are tried in order; the first page the validator accepts wins.
	Fetchers []Fetcher
}

// NewBaseScraper creates a scraper that tries plain HTTP, then headless
// Chrome, then a chromedriver session.
func NewBaseScraper() *BaseScraper {
	b := &BaseScraper{
		Client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				ForceAttemptHTTP2:     false,
				TLSNextProto:          make(map[string]func(string, *tls.Conn) http.RoundTripper),
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		ChromeDriverPath: defaultChromeDriverPath,
		Ports:            NewPortPool(4444, 16),
	}
	b.Fetchers = []Fetcher{
		{Name: "HTTP", Fetch: b.FetchDocumentHTTP},
		{Name: "ChromeDP", Fetch: b.FetchDocumentChromeDP},
		{Name: "Selenium", Fetch: b.FetchDocumentSelenium},
	}
	return b
}

// FetchDocument fetches the URL using each strategy in turn with a custom validator
func (b *BaseScraper) FetchDocument(ctx context.Context, url string, validator func(*goquery.Document) bool) (*goquery.Document, error) {
	for _, f := range b.Fetchers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fmt.Printf("[BaseScraper] Trying %s: %s\n", f.Name, url)
		doc, err := f.Fetch(ctx, url)
		if err != nil {
			fmt.Printf("[BaseScraper] %s Failed: %v\n", f.Name, err)
			continue
		}
		if !validator(doc) {
			fmt.Printf("[BaseScraper] %s yielded invalid content (validator failed), trying fallbacks...\n", f.Name)
			continue
		}
		fmt.Printf("[BaseScraper] %s Success: %s\n", f.Name, url)
		return doc, nil
	}
	return nil, fmt.Errorf("%w for %s", ErrAllStrategiesFailed, url)
}

// HasFormFields accepts any page with at least one form control.
func HasFormFields(doc *goquery.Document) bool {
	return doc.Find("input, select, textarea").Length() > 0
}

// FetchDocumentHTTP fetches the URL and returns a GoQuery document via standard HTTP
func (b *BaseScraper) FetchDocumentHTTP(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	// Common headers to mimic a real browser
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-IN,en;q=0.9")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	res, err := b.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code error: %d %s", res.StatusCode, res.Status)
	}

	return goquery.NewDocumentFromReader(res.Body)
}
