package parser

import (
	"net/url"
	"strings"
)

// rejectedPrefixes are references that never name a fetchable page.
var rejectedPrefixes = []string{"javascript:", "mailto:", "tel:", "#"}

// Canonicalize resolves rawRef against baseURL and returns the canonical
// key for the page it names. The second return value is false when the
// reference is rejected: empty, a javascript:/mailto:/tel: link, an in-page
// fragment, unparsable, or resolving to a scheme other than http/https.
//
// The canonical form drops query and fragment, drops user info, strips
// trailing slashes from the path (the bare root stays "/", and an empty
// path becomes "/") and lower-cases the whole string. Lower-casing the path can merge pages that
// differ only by case; that is accepted for structure mapping.
func Canonicalize(baseURL, rawRef string) (string, bool) {
	ref := strings.TrimSpace(rawRef)
	if ref == "" {
		return "", false
	}

	lowerRef := strings.ToLower(ref)
	for _, prefix := range rejectedPrefixes {
		if strings.HasPrefix(lowerRef, prefix) {
			return "", false
		}
	}

	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", false
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return "", false
	}

	return canonicalForm(base.ResolveReference(refURL))
}

// CanonicalizeURL canonicalizes an absolute URL on its own, e.g. a seed.
func CanonicalizeURL(rawURL string) (string, bool) {
	return Canonicalize(rawURL, rawURL)
}

func canonicalForm(u *url.URL) (string, bool) {
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false
	}

	if u.Host == "" {
		return "", false
	}

	// "/a//" and "/a/" both become "/a".
	path := strings.TrimRight(u.EscapedPath(), "/")
	if path == "" {
		path = "/"
	}

	return strings.ToLower(scheme + "://" + u.Host + path), true
}

// Host returns the lower-cased host (with port, if any) of a canonical URL.
func Host(canonicalURL string) string {
	u, err := url.Parse(canonicalURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
