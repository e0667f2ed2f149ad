// Package parser turns raw hyperlink references and HTML documents into
// canonical page URLs. Canonicalize normalizes a single reference; the
// HTMLParser walks a document and collects every <a href> and <link href>.
package parser

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/net/html"
)

// HTMLParser extracts the title and outgoing links of a page
type HTMLParser struct {
	baseURL string
}

// ParseResult contains the parsed HTML data
type ParseResult struct {
	Title string
	// Links holds canonical URLs in document order, each listed once.
	Links []string
}

// NewHTMLParser creates a parser that resolves references against baseURL
func NewHTMLParser(baseURL string) (*HTMLParser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("invalid base URL: %q is not absolute", baseURL)
	}

	return &HTMLParser{baseURL: baseURL}, nil
}

// Parse parses HTML content and returns its title and canonical links.
// References the canonicalizer rejects are dropped silently.
func (p *HTMLParser) Parse(htmlContent []byte) (*ParseResult, error) {
	doc, err := html.Parse(bytes.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	c := &collector{
		baseURL: p.baseURL,
		seen:    mapset.NewThreadUnsafeSet[string](),
		result:  &ParseResult{Links: []string{}},
	}
	c.traverse(doc)

	return c.result, nil
}

// ExtractLinks is a shortcut for NewHTMLParser(baseURL).Parse(content).Links.
// On error the returned slice is empty and the error is a diagnostic only.
func ExtractLinks(htmlContent []byte, baseURL string) ([]string, error) {
	p, err := NewHTMLParser(baseURL)
	if err != nil {
		return []string{}, err
	}

	result, err := p.Parse(htmlContent)
	if err != nil {
		return []string{}, err
	}
	return result.Links, nil
}

type collector struct {
	baseURL string
	seen    mapset.Set[string]
	result  *ParseResult
}

// traverse recursively walks the HTML tree
func (c *collector) traverse(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "title":
			if c.result.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				c.result.Title = strings.TrimSpace(n.FirstChild.Data)
			}

		case "a", "link":
			if href, ok := attr(n, "href"); ok {
				c.add(href)
			}
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.traverse(child)
	}
}

func (c *collector) add(href string) {
	link, ok := Canonicalize(c.baseURL, href)
	if !ok {
		return
	}
	if c.seen.Add(link) {
		c.result.Links = append(c.result.Links, link)
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
