// Package urlfilter detects links that are not on the chat's allow-list.
package urlfilter

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// urlPattern matches scheme-prefixed, www-prefixed and bare-domain links.
var urlPattern = regexp.MustCompile(`(?i)((?:(?:https?://)|(?:www\.)|(?:[a-zA-Z0-9-]+\.[a-zA-Z]{2,}))\S*)`)

var whitespace = strings.NewReplacer(" ", "", "\n", "", "\t", "")

// Filter reports messages that carry a link outside its allow-list.
type Filter struct {
	allowed []string
}

// New creates a filter allowing any link that contains one of patterns,
// compared case-insensitively. Blank patterns are ignored.
func New(patterns ...string) *Filter {
	f := &Filter{}
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			f.allowed = append(f.allowed, p)
		}
	}
	return f
}

// Load builds a filter from every file matching glob, one pattern per line.
// Files are read in name order. A glob with no matches yields a filter that
// allows nothing.
func Load(glob string) (*Filter, error) {
	if glob == "" {
		return New(), nil
	}
	paths, err := filepath.Glob(glob)
	if err != nil {
		return nil, fmt.Errorf("matching allow-lists %q: %w", glob, err)
	}
	sort.Strings(paths)

	var patterns []string
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading allow-list %s: %w", path, err)
		}
		patterns = append(patterns, strings.Split(string(data), "\n")...)
	}
	return New(patterns...), nil
}

// Patterns returns the normalized allow-list.
func (f *Filter) Patterns() []string {
	return append([]string(nil), f.allowed...)
}

// Links returns every link found in text. Whitespace is removed first so
// links split across spaces or lines are still caught.
func (f *Filter) Links(text string) []string {
	text = whitespace.Replace(text)
	links := urlPattern.FindAllString(text, -1)
	for i, link := range links {
		if strings.HasPrefix(strings.ToLower(link), "www.") {
			links[i] = "http://" + link
		}
	}
	return links
}

// Allowed reports whether link contains an allow-listed pattern.
func (f *Filter) Allowed(link string) bool {
	link = strings.ToLower(link)
	for _, p := range f.allowed {
		if strings.Contains(link, p) {
			return true
		}
	}
	return false
}

// Prohibited returns the first link in text that is not allowed.
func (f *Filter) Prohibited(text string) (string, bool) {
	for _, link := range f.Links(text) {
		if !f.Allowed(link) {
			return link, true
		}
	}
	return "", false
}
