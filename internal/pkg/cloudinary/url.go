package cloudinary

import (
	"net/url"
	"strings"
)

// attachmentDirective forces the browser to download the delivered file
// instead of rendering it inline.
const attachmentDirective = "fl_attachment"

// AttachmentURL rewrites a Cloudinary delivery URL into one that serves the
// file as an attachment. URLs on other hosts are returned unchanged.
//
// The path is handled as segments rather than string offsets: the directive
// is inserted after the "upload" segment (this also covers raw delivery,
// where "upload" is nested after "raw"), after a bare "raw" segment when no
// "upload" follows, or, as a last resort, before a version segment
// ("v" + digits). Applying the function twice yields the same URL.
func AttachmentURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || !isCloudinaryHost(u.Host) {
		return rawURL
	}

	segments := strings.Split(u.Path, "/")

	insertAt := -1
	if idx := indexOfSegment(segments, "upload"); idx >= 0 {
		insertAt = idx + 1
	} else if idx := indexOfSegment(segments, "raw"); idx >= 0 {
		insertAt = idx + 1
	} else if idx := versionSegmentIndex(segments); idx >= 0 {
		// Unexpected URL shape; inserting before the version segment is a
		// best effort, not a guaranteed contract.
		insertAt = idx
	}

	if insertAt < 0 {
		return rawURL
	}

	// already normalized: the directive sits at the insertion point, or just
	// before it on the version-fallback path
	if insertAt < len(segments) && segments[insertAt] == attachmentDirective {
		return rawURL
	}
	if insertAt > 0 && segments[insertAt-1] == attachmentDirective {
		return rawURL
	}

	rebuilt := make([]string, 0, len(segments)+1)
	rebuilt = append(rebuilt, segments[:insertAt]...)
	rebuilt = append(rebuilt, attachmentDirective)
	rebuilt = append(rebuilt, segments[insertAt:]...)

	u.Path = strings.Join(rebuilt, "/")
	u.RawPath = ""

	return u.String()
}

func isCloudinaryHost(host string) bool {
	if idx := strings.IndexByte(host, ':'); idx >= 0 {
		host = host[:idx]
	}
	return host == "cloudinary.com" || strings.HasSuffix(host, ".cloudinary.com")
}

func indexOfSegment(segments []string, want string) int {
	for i, s := range segments {
		if s == want {
			return i
		}
	}
	return -1
}

// versionSegmentIndex finds the first path segment of the form "v<digits>"
func versionSegmentIndex(segments []string) int {
	for i, s := range segments {
		if len(s) < 2 || s[0] != 'v' {
			continue
		}
		digits := true
		for _, r := range s[1:] {
			if r < '0' || r > '9' {
				digits = false
				break
			}
		}
		if digits {
			return i
		}
	}
	return -1
}
