package crawler

import (
	"net/url"
	"path"
	"strings"
)

// skipExtensions are path suffixes that never lead to an HTML page:
// documents, images, archives, executables, audio and video.
var skipExtensions = map[string]bool{
	// documents
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true, ".odt": true, ".rtf": true,
	// images
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true,
	".svg": true, ".webp": true, ".ico": true, ".tif": true, ".tiff": true,
	// archives
	".zip": true, ".tar": true, ".gz": true, ".tgz": true, ".bz2": true,
	".xz": true, ".rar": true, ".7z": true,
	// executables and installers
	".exe": true, ".dmg": true, ".msi": true, ".deb": true, ".rpm": true,
	".apk": true, ".bin": true, ".iso": true,
	// audio and video
	".mp3": true, ".wav": true, ".ogg": true, ".flac": true, ".aac": true,
	".mp4": true, ".avi": true, ".mov": true, ".mkv": true, ".webm": true,
	".wmv": true, ".flv": true,
}

// URLFilter implements the admission rule for discovered links
type URLFilter struct {
	rootHost       string
	followExternal bool
}

// NewURLFilter creates a filter bound to the seed's host
func NewURLFilter(rootHost string, followExternal bool) *URLFilter {
	return &URLFilter{
		rootHost:       strings.ToLower(rootHost),
		followExternal: followExternal,
	}
}

// ShouldCrawl reports whether a canonical URL may be queued. It rejects
// URLs already visited, non-http(s) URLs, URLs on another host when
// external links are not followed, and URLs whose path names a known
// non-HTML file type.
func (f *URLFilter) ShouldCrawl(canonicalURL string, visited VisitedSet) bool {
	if canonicalURL == "" {
		return false
	}

	if visited != nil && visited.Contains(canonicalURL) {
		return false
	}

	u, err := url.Parse(canonicalURL)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}

	if !f.followExternal && strings.ToLower(u.Host) != f.rootHost {
		return false
	}

	return !hasSkippedExtension(u.Path)
}

// IsExternal reports whether a URL lives on a host other than the root's
func (f *URLFilter) IsExternal(canonicalURL string) bool {
	u, err := url.Parse(canonicalURL)
	if err != nil {
		return true
	}
	return strings.ToLower(u.Host) != f.rootHost
}

func hasSkippedExtension(p string) bool {
	return skipExtensions[strings.ToLower(path.Ext(p))]
}
