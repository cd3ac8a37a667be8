package textutil

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var slugSeparators = strings.NewReplacer("-", " ", "_", " ", "+", " ", ".", " ")

// TitleFromSlug converts a URL slug such as "my-cool-song" into a display
// title ("My Cool Song").
func TitleFromSlug(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ""
	}
	fields := strings.Fields(slugSeparators.Replace(slug))
	if len(fields) == 0 {
		return ""
	}
	return cases.Title(language.Und).String(strings.Join(fields, " "))
}

// TitleFromURL derives a fallback display title from the last path segment of
// a media page URL. Returns "" when nothing usable can be extracted.
func TitleFromURL(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	segments := strings.Split(parsed.Path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if title := TitleFromSlug(segments[i]); title != "" {
			return title
		}
	}
	return ""
}
