// Package crawler provides the breadth-first crawl engine.
// A single flow pops canonical URLs from the frontier, fetches them through
// the politeness limiter, extracts links and records the first discoverer
// of every URL so the visited pages can be rebuilt into a tree.
package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/masahif/rovercrawler/internal/config"
	"github.com/masahif/rovercrawler/internal/parser"
)

const progressInterval = 10

// Crawler runs crawls with one immutable configuration
type Crawler struct {
	config   config.CrawlConfig
	fetcher  Fetcher
	recorder Recorder
}

// Option customizes a Crawler
type Option func(*Crawler)

// WithFetcher replaces the network fetcher
func WithFetcher(f Fetcher) Option {
	return func(c *Crawler) {
		c.fetcher = f
	}
}

// WithRecorder sets the recorder that receives pages, links and errors
func WithRecorder(r Recorder) Option {
	return func(c *Crawler) {
		c.recorder = r
	}
}

// New creates a crawler. The configuration is copied and never modified.
func New(cfg config.CrawlConfig, opts ...Option) (*Crawler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid crawl config: %w", err)
	}

	c := &Crawler{
		config:   cfg,
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fetcher == nil {
		c.fetcher = NewHTTPFetcher(cfg)
	}

	return c, nil
}

// Config returns the crawl configuration
func (c *Crawler) Config() config.CrawlConfig {
	return c.config
}

// Close releases the fetcher's resources
func (c *Crawler) Close() error {
	if closer, ok := c.fetcher.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Crawl walks the site reachable from seed in breadth-first order.
// It returns an error only when seed is not a usable http(s) URL.
// When ctx is canceled the loop stops before the next fetch and the
// result covers the pages visited so far, with Interrupted set.
func (c *Crawler) Crawl(ctx context.Context, seed string) (*Result, error) {
	if err := config.ValidateSeedURL(seed); err != nil {
		return nil, err
	}
	root, ok := parser.CanonicalizeURL(seed)
	if !ok {
		return nil, fmt.Errorf("%w: %s", config.ErrInvalidSeedURL, seed)
	}

	run := &crawlRun{
		crawler:  c,
		root:     root,
		filter:   NewURLFilter(parser.Host(root), c.config.FollowExternal),
		frontier: NewFrontier(root),
		titles:   make(map[string]string),
	}
	run.stats.StartTime = time.Now()

	slog.Info("Starting crawl", "url", root, "max_depth", c.config.MaxDepth, "max_pages", c.config.MaxPages,
		"follow_external", c.config.FollowExternal)

	run.loop(ctx)
	run.stats.Duration = time.Since(run.stats.StartTime)

	if run.interrupted {
		slog.Info("Crawl interrupted", "visited", run.frontier.VisitedCount())
	} else {
		slog.Info("Crawl finished", "visited", run.frontier.VisitedCount(), "pages", run.stats.PagesCrawled,
			"errors", run.stats.ErrorCount, "duration", run.stats.Duration)
	}

	visited := run.frontier.VisitedOrder()
	parents := run.frontier.Parents()
	return &Result{
		RootURL:     root,
		Tree:        BuildTree(root, parents, visited),
		Stats:       run.stats,
		Visited:     visited,
		Depths:      run.frontier.Depths(),
		Parents:     parents,
		Titles:      run.titles,
		Interrupted: run.interrupted,
	}, nil
}

// crawlRun is the state of one Crawl call
type crawlRun struct {
	crawler     *Crawler
	root        string
	filter      *URLFilter
	frontier    *Frontier
	stats       CrawlStats
	titles      map[string]string
	interrupted bool
}

func (r *crawlRun) loop(ctx context.Context) {
	cfg := r.crawler.config

	for r.frontier.Len() > 0 && r.frontier.VisitedCount() < cfg.MaxPages {
		if ctx.Err() != nil {
			r.interrupted = true
			return
		}

		entry, _ := r.frontier.Pop()
		if r.frontier.IsVisited(entry.URL) || entry.Depth > cfg.MaxDepth {
			continue
		}
		r.frontier.MarkVisited(entry.URL, entry.Depth)

		result := r.crawler.fetcher.Fetch(ctx, entry.URL)
		if result.Outcome == OutcomeCanceled {
			r.interrupted = true
			r.recordPage(entry, result, "", 0)
			return
		}

		r.handleResult(entry, result)

		if visited := r.frontier.VisitedCount(); visited%progressInterval == 0 {
			slog.Info("Crawl progress", "visited", visited, "queued", r.frontier.Len(),
				"elapsed", time.Since(r.stats.StartTime).Round(time.Second))
		}
	}
}

func (r *crawlRun) handleResult(entry FrontierEntry, result *FetchResult) {
	switch result.Outcome {
	case OutcomeTransportError:
		r.stats.ErrorCount++
		r.recordError(result)
		r.recordPage(entry, result, "", 0)
		return
	case OutcomeBadStatus, OutcomeNotHTML:
		r.stats.PagesSkipped++
		r.recordPage(entry, result, "", 0)
		return
	case OutcomeOK:
	default:
		slog.Warn("Unknown fetch outcome", "url", entry.URL, "outcome", result.Outcome)
		return
	}

	r.stats.PagesCrawled++
	r.stats.BytesDownloaded += result.ResponseSize

	parsed := r.extract(entry.URL, result)
	if parsed.Title != "" {
		r.titles[entry.URL] = parsed.Title
	}
	r.stats.LinksFound += len(parsed.Links)

	visited := r.frontier.Visited()
	for _, link := range parsed.Links {
		if !r.filter.ShouldCrawl(link, visited) {
			continue
		}
		r.frontier.Push(link, entry.Depth+1)
		r.frontier.SetParentIfAbsent(link, entry.URL)
	}

	if err := r.crawler.recorder.RecordLinks(entry.URL, parsed.Links); err != nil {
		slog.Warn("Failed to record links", "url", entry.URL, "error", err)
	}
	r.recordPage(entry, result, parsed.Title, len(parsed.Links))

	slog.Debug("Crawled page", "url", entry.URL, "depth", entry.Depth, "links", len(parsed.Links))
}

// extract parses a fetched body. Links resolve against the requested URL so
// that a seed redirecting to another host keeps its links on the seed host.
// Parse failures yield no links.
func (r *crawlRun) extract(pageURL string, result *FetchResult) *parser.ParseResult {
	p, err := parser.NewHTMLParser(pageURL)
	if err != nil {
		slog.Debug("Cannot parse page", "url", pageURL, "error", err)
		return &parser.ParseResult{}
	}

	parsed, err := p.Parse(result.Body)
	if err != nil {
		slog.Debug("Failed to parse page", "url", pageURL, "error", err)
		return &parser.ParseResult{}
	}
	if result.FinalURL != "" && result.FinalURL != pageURL {
		slog.Debug("Page was redirected", "url", pageURL, "final_url", result.FinalURL)
	}
	return parsed
}

func (r *crawlRun) recordPage(entry FrontierEntry, result *FetchResult, title string, links int) {
	parent, _ := r.frontier.Parent(entry.URL)
	page := &PageRecord{
		URL:          entry.URL,
		ParentURL:    parent,
		Depth:        entry.Depth,
		Outcome:      result.Outcome,
		StatusCode:   result.StatusCode,
		ContentType:  result.ContentType,
		Title:        title,
		LinksFound:   links,
		ResponseSize: result.ResponseSize,
		TTFB:         result.TTFB,
		DownloadTime: result.DownloadTime,
		CrawledAt:    time.Now().UTC(),
	}
	if err := r.crawler.recorder.RecordPage(page); err != nil {
		slog.Warn("Failed to record page", "url", entry.URL, "error", err)
	}
}

func (r *crawlRun) recordError(result *FetchResult) {
	msg := ""
	if result.Err != nil {
		msg = result.Err.Error()
	}
	slog.Debug("Fetch failed", "url", result.URL, "error_type", result.ErrorType, "error", msg)

	crawlErr := &CrawlError{
		URL:          result.URL,
		ErrorType:    result.ErrorType,
		ErrorMessage: msg,
		OccurredAt:   time.Now().UTC(),
	}
	if err := r.crawler.recorder.RecordError(crawlErr); err != nil {
		slog.Warn("Failed to record error", "url", result.URL, "error", err)
	}
}
