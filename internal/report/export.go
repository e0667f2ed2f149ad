package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/nao1215/markdown"
	"golang.org/x/sync/errgroup"

	"github.com/masahif/rovercrawler/internal/crawler"
)

// Format names an export file format
type Format string

// Supported export formats
const (
	FormatJSON     Format = "json"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
)

// Report is a finished crawl plus the details the exports print about it
type Report struct {
	Result      *crawler.Result
	MaxDepth    int
	GeneratedAt time.Time
}

// NewReport creates a report stamped with the current time
func NewReport(result *crawler.Result, maxDepth int) *Report {
	return &Report{
		Result:      result,
		MaxDepth:    maxDepth,
		GeneratedAt: time.Now(),
	}
}

// Target is one export file to write
type Target struct {
	Format Format
	Path   string
}

// Write renders the report in the given format
func (r *Report) Write(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		return r.WriteJSON(w)
	case FormatText:
		return r.WriteText(w)
	case FormatMarkdown:
		return r.WriteMarkdown(w)
	case FormatCSV:
		return r.WriteCSV(w)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// ExportAll writes every target concurrently. All files are attempted;
// the first error is returned.
func (r *Report) ExportAll(targets []Target) error {
	var g errgroup.Group

	for _, target := range targets {
		g.Go(func() error {
			if err := r.exportFile(target); err != nil {
				slog.Error("Export failed", "format", target.Format, "path", target.Path, "error", err)
				return err
			}
			slog.Info("Results exported", "format", target.Format, "path", target.Path)
			return nil
		})
	}

	return g.Wait()
}

func (r *Report) exportFile(target Target) (err error) {
	f, err := os.Create(target.Path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target.Path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", target.Path, cerr)
		}
	}()

	if err := r.Write(f, target.Format); err != nil {
		return fmt.Errorf("failed to export %s: %w", target.Format, err)
	}
	return nil
}

// jsonTree marshals a node as {"url": {"child": {...}}} keeping child order
type jsonTree struct {
	node *crawler.Node
}

func (t jsonTree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if t.node != nil {
		if err := writeJSONNode(&buf, t.node); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONNode(buf *bytes.Buffer, n *crawler.Node) error {
	key, err := json.Marshal(n.URL)
	if err != nil {
		return err
	}
	buf.Write(key)
	buf.WriteString(":{")
	for i, child := range n.Children {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONNode(buf, child); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// WriteJSON writes the tree as nested objects keyed by URL, indented by two spaces
func (r *Report) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(jsonTree{node: r.Result.Tree}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tree: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteText writes a plain header followed by the uncolored tree
func (r *Report) WriteText(w io.Writer) error {
	rule := strings.Repeat("=", 60)
	header := []string{
		rule,
		"ROVERCRAWLER EXPORT",
		"Generated: " + formatTime(r.GeneratedAt),
		rule,
		"",
		"Root URL: " + r.Result.RootURL,
		"Crawl depth: " + strconv.Itoa(r.MaxDepth),
		"Pages crawled: " + strconv.Itoa(r.Result.Tree.Size()),
		"",
		"SITE STRUCTURE:",
		"",
	}
	if _, err := io.WriteString(w, strings.Join(header, "\n")+"\n"); err != nil {
		return err
	}
	return NewTreeWriter(w, Plain()).Write(r.Result.Tree)
}

// WriteMarkdown writes a report with a summary table, the statistics, the
// tree and one row per visited page.
func (r *Report) WriteMarkdown(w io.Writer) error {
	result := r.Result
	md := markdown.NewMarkdown(w)

	status := "Complete"
	if result.Interrupted {
		status = "Interrupted (partial results)"
	}

	md.H1("RoverCrawler Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Root URL", "`" + result.RootURL + "`"},
			{"Generated", formatTime(r.GeneratedAt)},
			{"Crawl depth", strconv.Itoa(r.MaxDepth)},
			{"Unique URLs", strconv.Itoa(result.Tree.Size())},
			{"Status", status},
		},
	})
	md.PlainText("")

	md.H2("Statistics")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows:   statRows(result.Stats),
	})
	md.PlainText("")

	md.H2("Site Structure")
	md.PlainText("")
	var tree strings.Builder
	if err := NewTreeWriter(&tree, Plain()).Write(result.Tree); err != nil {
		return err
	}
	md.CodeBlocks(markdown.SyntaxHighlightText, strings.TrimRight(tree.String(), "\n"))
	md.PlainText("")

	md.H2("Pages")
	md.PlainText("")
	rows := make([][]string, 0, len(result.Visited))
	for _, u := range result.Visited {
		title := result.Titles[u]
		if title == "" {
			title = "-"
		}
		parent := result.Parents[u]
		if parent == "" {
			parent = "-"
		}
		rows = append(rows, []string{u, strconv.Itoa(result.Depths[u]), title, parent})
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Depth", "Title", "Parent"},
		Rows:   rows,
	})

	return md.Build()
}

// edgeRow is one parent->child edge of the tree
type edgeRow struct {
	Parent string `csv:"parent"`
	URL    string `csv:"url"`
	Depth  int    `csv:"depth"`
	Title  string `csv:"title"`
}

// WriteCSV writes one row per tree edge in pre-order, the root first with
// an empty parent.
func (r *Report) WriteCSV(w io.Writer) error {
	result := r.Result
	var rows []edgeRow

	var walk func(n *crawler.Node, parent string)
	walk = func(n *crawler.Node, parent string) {
		rows = append(rows, edgeRow{
			Parent: parent,
			URL:    n.URL,
			Depth:  result.Depths[n.URL],
			Title:  result.Titles[n.URL],
		})
		for _, child := range n.Children {
			walk(child, n.URL)
		}
	}
	if result.Tree != nil {
		walk(result.Tree, "")
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
