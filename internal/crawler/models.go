package crawler

import "time"

// FrontierEntry is a canonical URL waiting to be fetched at a given depth
type FrontierEntry struct {
	URL   string
	Depth int
}

// FetchOutcome classifies what a fetch produced
type FetchOutcome int

const (
	// OutcomeOK means a 200 text/html body was read
	OutcomeOK FetchOutcome = iota
	// OutcomeTransportError covers DNS, connect, TLS, timeout and read failures
	OutcomeTransportError
	// OutcomeBadStatus means the server answered with a status other than 200
	OutcomeBadStatus
	// OutcomeNotHTML means the declared content type is not text/html
	OutcomeNotHTML
	// OutcomeCanceled means the crawl context ended before or during the fetch
	OutcomeCanceled
)

// String returns the name stored by recorders and shown in logs
func (o FetchOutcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeTransportError:
		return "transport_error"
	case OutcomeBadStatus:
		return "bad_status"
	case OutcomeNotHTML:
		return "not_html"
	case OutcomeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// FetchResult is the explicit result of one fetch. Body is set only for OutcomeOK.
type FetchResult struct {
	URL          string
	FinalURL     string // After following redirects
	Outcome      FetchOutcome
	StatusCode   int
	ContentType  string
	Body         []byte
	ResponseSize int64
	TTFB         time.Duration
	DownloadTime time.Duration
	Err          error  // Transport error, set for OutcomeTransportError
	ErrorType    string // timeout, dns_error, connection_failed, tls_error, network_error
}

// PageRecord is what the orchestrator reports for every visited URL
type PageRecord struct {
	URL          string
	ParentURL    string // Empty for the root
	Depth        int
	Outcome      FetchOutcome
	StatusCode   int
	ContentType  string
	Title        string
	LinksFound   int
	ResponseSize int64
	TTFB         time.Duration
	DownloadTime time.Duration
	CrawledAt    time.Time
}

// CrawlError represents crawling errors
type CrawlError struct {
	URL          string    // URL where error occurred
	ErrorType    string    // Error type (timeout, dns_error, connection_failed, etc.)
	ErrorMessage string    // Detailed error message
	OccurredAt   time.Time // Error occurrence timestamp (UTC)
}

// Result is everything a finished (or interrupted) crawl hands to the
// rendering and export collaborators.
type Result struct {
	RootURL     string
	Tree        *Node // nil when the root was never visited
	Stats       CrawlStats
	Visited     []string          // Canonical URLs in the order they were dequeued for fetching
	Depths      map[string]int    // Depth of each visited URL
	Parents     map[string]string // First discoverer of each discovered URL, "" for the root
	Titles      map[string]string // Page titles of successfully fetched URLs
	Interrupted bool
}
