package storage

const schemaSQL = `
-- One row per crawl; pages, links and errors hang off run_id
CREATE TABLE IF NOT EXISTS crawl_runs (
    id TEXT PRIMARY KEY NOT NULL,
    root_url TEXT NOT NULL,
    max_depth INTEGER NOT NULL,
    max_pages INTEGER NOT NULL,
    follow_external INTEGER NOT NULL DEFAULT 0,
    user_agent TEXT,
    started_at DATETIME NOT NULL,
    finished_at DATETIME,
    status TEXT NOT NULL DEFAULT 'running' CHECK (status IN ('running', 'completed', 'interrupted')),

    -- Filled by FinishRun
    pages_crawled INTEGER,
    pages_skipped INTEGER,
    links_found INTEGER,
    error_count INTEGER,
    bytes_downloaded INTEGER,
    duration_ms INTEGER
);

-- Every visited URL, whatever the fetch outcome
CREATE TABLE IF NOT EXISTS pages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES crawl_runs(id),
    url TEXT NOT NULL,
    parent_url TEXT,
    depth INTEGER NOT NULL,
    outcome TEXT NOT NULL,
    status_code INTEGER,
    content_type TEXT,
    title TEXT,
    links_found INTEGER,
    ttfb_ms INTEGER,
    download_time_ms INTEGER,
    response_size_bytes INTEGER,
    crawled_at DATETIME NOT NULL,
    UNIQUE(run_id, url)
);

CREATE INDEX IF NOT EXISTS idx_pages_run ON pages(run_id);
CREATE INDEX IF NOT EXISTS idx_pages_outcome ON pages(run_id, outcome);

-- Canonical links found on fetched pages
CREATE TABLE IF NOT EXISTS links (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES crawl_runs(id),
    source_url TEXT NOT NULL,
    target_url TEXT NOT NULL,
    UNIQUE(run_id, source_url, target_url)
);

CREATE INDEX IF NOT EXISTS idx_links_source ON links(run_id, source_url);
CREATE INDEX IF NOT EXISTS idx_links_target ON links(run_id, target_url);

-- Transport failures
CREATE TABLE IF NOT EXISTS crawl_errors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES crawl_runs(id),
    url TEXT NOT NULL,
    error_type TEXT NOT NULL,
    error_message TEXT,
    occurred_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_errors_run ON crawl_errors(run_id);
CREATE INDEX IF NOT EXISTS idx_errors_type ON crawl_errors(error_type);
`
