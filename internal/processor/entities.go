package processor

import (
	"regexp"
	"sort"
	"strings"

	"github.com/oraclo-news/oraclo/internal/types"
)

// Pattern-based named entity recognition. Deliberately lightweight:
// capitalization and context cues, no model weights.
var (
	orgPattern = regexp.MustCompile(
		`\b([A-Z][A-Za-z&'-]*(?: [A-Z][A-Za-z&'-]*)* (?:Inc|Corp|Corporation|Company|Ltd|LLC|Group|Agency|Ministry|University|Institute|Association|Bank|Authority|Committee|Commission|Council|Organization|Party)\.?)`)
	personPattern = regexp.MustCompile(
		`\b([A-Z][a-z]+(?:\s[A-Z]\.)?\s[A-Z][a-z]+(?:\s[A-Z][a-z]+)?)\b`)
	locPattern = regexp.MustCompile(
		`\b(?:in|at|from|near|across)\s+([A-Z][a-z]+(?:\s[A-Z][a-z]+)?)\b`)
)

// Words that look like names but start ordinary sentences.
var entityStoplist = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`The This That These Those There
		Here When While After Before During President Prime Minister
		Senator Governor Mayor Chief Officials Police Government Monday
		Tuesday Wednesday Thursday Friday Saturday Sunday January
		February March April May June July August September October
		November December`) {
		entityStoplist[w] = struct{}{}
	}
}

// EntityExtractor finds PERSON, ORG, and LOC mentions in text.
type EntityExtractor struct{}

// NewEntityExtractor builds an extractor.
func NewEntityExtractor() *EntityExtractor {
	return &EntityExtractor{}
}

// Extract returns entities in order of appearance. Overlapping matches
// resolve in favor of organizations, then people, then locations.
func (e *EntityExtractor) Extract(text string) ([]types.Entity, error) {
	text = CleanText(text)
	if text == "" {
		return nil, types.ErrEmptyText
	}

	var entities []types.Entity
	claimed := make([]bool, len(text))

	claim := func(start, end int) bool {
		for i := start; i < end; i++ {
			if claimed[i] {
				return false
			}
		}
		for i := start; i < end; i++ {
			claimed[i] = true
		}
		return true
	}

	for _, m := range orgPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[2], m[3]
		if claim(start, end) {
			entities = append(entities, types.Entity{
				Text: text[start:end], Type: "ORG",
				Start: start, End: end, Confidence: 0.8,
			})
		}
	}

	for _, m := range personPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[2], m[3]
		candidate := text[start:end]
		if firstWordStoplisted(candidate) {
			continue
		}
		if claim(start, end) {
			entities = append(entities, types.Entity{
				Text: candidate, Type: "PERSON",
				Start: start, End: end, Confidence: 0.6,
			})
		}
	}

	for _, m := range locPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[2], m[3]
		candidate := text[start:end]
		if firstWordStoplisted(candidate) {
			continue
		}
		if claim(start, end) {
			entities = append(entities, types.Entity{
				Text: candidate, Type: "LOC",
				Start: start, End: end, Confidence: 0.5,
			})
		}
	}

	sort.Slice(entities, func(i, j int) bool {
		return entities[i].Start < entities[j].Start
	})
	return entities, nil
}

func firstWordStoplisted(s string) bool {
	first, _, _ := strings.Cut(s, " ")
	_, ok := entityStoplist[first]
	return ok
}
