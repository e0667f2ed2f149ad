package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rodaine/table"

	"github.com/masahif/rovercrawler/internal/crawler"
)

// WriteStats prints the statistics block
func WriteStats(w io.Writer, stats crawler.CrawlStats, p *Palette) {
	if p == nil {
		p = Plain()
	}

	rule := strings.Repeat("=", 60)
	_, _ = p.Info.Fprintln(w, "\n"+rule)
	_, _ = p.Root.Fprintln(w, "CRAWL STATISTICS:")

	tbl := table.New("Metric", "Value").WithWriter(w)
	tbl.WithHeaderFormatter(p.Dim.SprintfFunc())
	for _, row := range statRows(stats) {
		tbl.AddRow(row[0], row[1])
	}
	tbl.Print()

	_, _ = p.Info.Fprintln(w, rule)
}

// statRows returns the label/value pairs shared by the terminal and
// Markdown outputs.
func statRows(stats crawler.CrawlStats) [][]string {
	rows := [][]string{
		{"Pages crawled", humanize.Comma(int64(stats.PagesCrawled))},
		{"Pages skipped", humanize.Comma(int64(stats.PagesSkipped))},
		{"Links found", humanize.Comma(int64(stats.LinksFound))},
		{"Errors", humanize.Comma(int64(stats.ErrorCount))},
		{"Downloaded", humanize.Bytes(uint64(stats.BytesDownloaded))},
		{"Time elapsed", fmt.Sprintf("%.1f seconds", stats.Duration.Seconds())},
	}
	if stats.Duration > 0 {
		rows = append(rows, []string{"Avg speed", fmt.Sprintf("%.1f pages/sec", stats.PagesPerSecond())})
	}
	return rows
}

// WriteSummary prints the closing line of a crawl
func WriteSummary(w io.Writer, result *crawler.Result, p *Palette) {
	if p == nil {
		p = Plain()
	}
	if result.Interrupted {
		_, _ = p.Warning.Fprintln(w, "\n[!] Crawl interrupted by user")
	}
	_, _ = p.Info.Fprintf(w, "\n[✓] Crawl complete! Found %d unique URLs.\n", result.Tree.Size())
}

// WriteStructure prints the site structure section, or a warning when
// nothing was crawled.
func WriteStructure(w io.Writer, result *crawler.Result, p *Palette) error {
	if p == nil {
		p = Plain()
	}
	if result.Stats.PagesCrawled == 0 {
		_, _ = p.Warning.Fprintln(w, "[!] No pages were crawled. Check URL and network connection.")
		return nil
	}

	_, _ = p.Root.Fprintln(w, "\nSITE STRUCTURE:")
	_, _ = p.Dim.Fprintf(w, "Root: %s\n\n", result.RootURL)
	return NewTreeWriter(w, p).Write(result.Tree)
}

func formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
