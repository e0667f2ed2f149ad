package config

import "errors"

var (
	// ErrInvalidSeedURL is returned when the seed is not an absolute http(s) URL
	ErrInvalidSeedURL = errors.New("invalid seed URL")
	// ErrInvalidMaxDepth is returned when max_depth is less than 1
	ErrInvalidMaxDepth = errors.New("max_depth must be at least 1")
	// ErrInvalidMaxPages is returned when max_pages is less than 1
	ErrInvalidMaxPages = errors.New("max_pages must be at least 1")
	// ErrInvalidTimeout is returned when request timeout is not greater than 0
	ErrInvalidTimeout = errors.New("request_timeout must be greater than 0")
	// ErrInvalidRateLimit is returned when the rate limit is negative
	ErrInvalidRateLimit = errors.New("rate_limit cannot be negative")
	// ErrEmptyUserAgent is returned when the user agent is blank
	ErrEmptyUserAgent = errors.New("user_agent cannot be empty")
	// ErrInvalidMaxBodySize is returned when max_body_size is not greater than 0
	ErrInvalidMaxBodySize = errors.New("max_body_size must be greater than 0")
	// ErrInvalidLogLevel is returned for an unknown log level name
	ErrInvalidLogLevel = errors.New("unknown log_level")
)
