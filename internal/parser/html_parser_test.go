package parser

import (
	"reflect"
	"testing"
)

func TestHTMLParser(t *testing.T) {
	htmlContent := `
<!DOCTYPE html>
<html>
<head>
	<title>Test Page Title</title>
	<link rel="stylesheet" href="/static/site.css">
	<link rel="canonical" href="https://example.com/test-page">
</head>
<body>
	<h1>Test Page</h1>
	<a href="/relative-link">Relative Link</a>
	<a href="https://example.com/absolute-link/">Absolute Link</a>
	<a href="https://external.com/page" rel="nofollow">External Link</a>
	<a href="#anchor">Anchor Link</a>
	<a href="javascript:void(0)">JavaScript Link</a>
	<a href="mailto:someone@example.com">Mail</a>
	<a href="/Relative-Link?utm=1">Duplicate after canonicalization</a>
	<a name="no-href">No href</a>
	<img src="/ignored.png">
	<script src="/ignored.js"></script>
</body>
</html>
`

	p, err := NewHTMLParser("https://example.com/test-page")
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	result, err := p.Parse([]byte(htmlContent))
	if err != nil {
		t.Fatalf("Failed to parse HTML: %v", err)
	}

	if result.Title != "Test Page Title" {
		t.Errorf("Expected title 'Test Page Title', got '%s'", result.Title)
	}

	expected := []string{
		"https://example.com/static/site.css",
		"https://example.com/test-page",
		"https://example.com/relative-link",
		"https://example.com/absolute-link",
		"https://external.com/page",
	}

	if !reflect.DeepEqual(result.Links, expected) {
		t.Errorf("Expected links %v, got %v", expected, result.Links)
	}
}

func TestExtractLinksMalformedMarkup(t *testing.T) {
	// Unclosed tags and stray brackets are recovered by the HTML5 parser.
	content := []byte(`<html><body><div><a href="/one">one<a href='/two'>two</div></p><<<a href=/three>`)

	links, err := ExtractLinks(content, "http://example.com")
	if err != nil {
		t.Fatalf("Expected malformed markup to be tolerated, got %v", err)
	}

	expected := []string{
		"http://example.com/one",
		"http://example.com/two",
		"http://example.com/three",
	}
	if !reflect.DeepEqual(links, expected) {
		t.Errorf("Expected %v, got %v", expected, links)
	}
}

func TestExtractLinksEmptyAndBinary(t *testing.T) {
	links, err := ExtractLinks(nil, "https://example.com")
	if err != nil {
		t.Fatalf("Unexpected error for empty document: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("Expected no links, got %v", links)
	}

	links, err = ExtractLinks([]byte{0x00, 0xff, 0xfe, '<', 'a'}, "https://example.com")
	if err != nil {
		t.Fatalf("Unexpected error for binary garbage: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("Expected no links, got %v", links)
	}
}

func TestExtractLinksInvalidBase(t *testing.T) {
	links, err := ExtractLinks([]byte(`<a href="/x">x</a>`), "not a url")
	if err == nil {
		t.Error("Expected error for relative base URL")
	}
	if links == nil || len(links) != 0 {
		t.Errorf("Expected an empty, non-nil link set, got %#v", links)
	}
}
