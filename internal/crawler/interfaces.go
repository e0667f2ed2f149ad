package crawler

import (
	"context"
	"time"
)

// Fetcher retrieves a single page. Implementations never return an error:
// every failure is folded into the FetchResult outcome.
type Fetcher interface {
	Fetch(ctx context.Context, url string) *FetchResult
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context, url string) *FetchResult

// Fetch calls f(ctx, url)
func (f FetcherFunc) Fetch(ctx context.Context, url string) *FetchResult {
	return f(ctx, url)
}

// Recorder receives the crawl as it happens. Errors are logged by the
// orchestrator and never stop the crawl.
type Recorder interface {
	RecordPage(page *PageRecord) error
	RecordLinks(sourceURL string, targetURLs []string) error
	RecordError(crawlErr *CrawlError) error
}

// CrawlStats represents crawling statistics
type CrawlStats struct {
	PagesCrawled    int   // 200 text/html pages read
	PagesSkipped    int   // Non-200 or non-HTML responses
	LinksFound      int   // Canonical links extracted, summed over pages
	ErrorCount      int   // Transport failures
	BytesDownloaded int64 // Bytes of HTML read
	StartTime       time.Time
	Duration        time.Duration
}

// PagesPerSecond returns the average fetch rate over the crawl
func (s CrawlStats) PagesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.PagesCrawled) / s.Duration.Seconds()
}

type nopRecorder struct{}

func (nopRecorder) RecordPage(*PageRecord) error { return nil }

func (nopRecorder) RecordLinks(string, []string) error { return nil }

func (nopRecorder) RecordError(*CrawlError) error { return nil }
