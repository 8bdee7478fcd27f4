// Package processor enriches collected articles: sentiment, keywords,
// named entities, and quality scoring.
package processor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?://[^\s)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// RemoveLinks strips markdown links (keeping the anchor text) and bare
// URLs from text before analysis.
func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// StripHTML extracts readable text from an HTML fragment. Non-HTML
// input passes through unchanged.
func StripHTML(input string) string {
	if !strings.ContainsRune(input, '<') {
		return input
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return input
	}
	doc.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// CleanText prepares article text for analysis.
func CleanText(input string) string {
	text := StripHTML(input)
	text = RemoveLinks(text)
	return strings.Join(strings.Fields(text), " ")
}
