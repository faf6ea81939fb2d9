package leads

import (
	"net/url"
	"regexp"
	"strings"
)

// urlPattern matches the first http(s) URL in a cell. The URL ends at
// whitespace, a quote, a closing parenthesis or a comma.
var urlPattern = regexp.MustCompile(`(?i)https?://[^\s"),]+`)

const (
	maxPathLabel = 24
	maxRawLabel  = 28
	ellipsis     = "…"
)

// ExtractURL returns the first http(s) URL found in s, or "".
func ExtractURL(s string) string {
	return urlPattern.FindString(s)
}

// ShortenURL builds a compact link label: host without "www." plus the path
// without its trailing slash, the path cut to 24 characters. If the URL does
// not parse, the raw string is cut to 28 characters instead.
func ShortenURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return truncate(raw, maxRawLabel)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	path := strings.TrimSuffix(u.EscapedPath(), "/")
	if path == "" || path == "/" {
		return host
	}
	return host + truncate(path, maxPathLabel)
}

// truncate cuts s to n runes and appends an ellipsis when it was longer.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + ellipsis
}
