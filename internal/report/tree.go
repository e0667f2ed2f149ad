package report

import (
	"fmt"
	"io"
	"net/url"

	"github.com/masahif/rovercrawler/internal/crawler"
	"github.com/masahif/rovercrawler/internal/parser"
)

// TreeWriter draws a crawl tree with box-drawing branches. Every node is
// shown by its path; nodes on a host other than the root's are marked
// external.
type TreeWriter struct {
	output  io.Writer
	palette *Palette
}

// NewTreeWriter creates a TreeWriter
func NewTreeWriter(output io.Writer, p *Palette) *TreeWriter {
	if p == nil {
		p = Plain()
	}
	return &TreeWriter{output: output, palette: p}
}

// Write renders tree
func (w *TreeWriter) Write(tree *crawler.Node) error {
	if tree == nil {
		return nil
	}

	filter := crawler.NewURLFilter(parser.Host(tree.URL), false)
	if _, err := w.palette.Root.Fprintln(w.output, displayPath(tree.URL)); err != nil {
		return fmt.Errorf("failed to write tree: %w", err)
	}
	return w.writeChildren(tree, "", filter)
}

func (w *TreeWriter) writeChildren(n *crawler.Node, prefix string, filter *crawler.URLFilter) error {
	for i, child := range n.Children {
		last := i == len(n.Children)-1

		branch, next := "├── ", prefix+"│   "
		if last {
			branch, next = "└── ", prefix+"    "
		}

		c, suffix := w.palette.Link, ""
		if filter.IsExternal(child.URL) {
			c, suffix = w.palette.External, " (external)"
		}

		if _, err := fmt.Fprint(w.output, prefix+branch); err != nil {
			return fmt.Errorf("failed to write tree: %w", err)
		}
		if _, err := c.Fprintln(w.output, displayPath(child.URL)+suffix); err != nil {
			return fmt.Errorf("failed to write tree: %w", err)
		}

		if err := w.writeChildren(child, next, filter); err != nil {
			return err
		}
	}
	return nil
}

// displayPath returns the path of a URL, "/" when it has none
func displayPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}
