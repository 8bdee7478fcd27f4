package processor

import (
	"regexp"
	"sort"
	"strings"

	"github.com/oraclo-news/oraclo/internal/types"
)

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		a about above after again against all am an and any are as at be
		because been before being below between both but by could did do
		does doing down during each few for from further had has have
		having he her here hers herself him himself his how i if in into
		is it its itself just me more most my myself no nor not now of
		off on once only or other our ours ourselves out over own said
		same she should so some such than that the their theirs them
		themselves then there these they this those through to too under
		until up very was we were what when where which while who whom
		why will with would you your yours yourself yourselves says say
		new also one two may many much like get got make made year years
		day days today monday tuesday wednesday thursday friday saturday
		sunday`) {
		stopwords[w] = struct{}{}
	}
}

var wordPattern = regexp.MustCompile(`[a-zA-Z][a-zA-Z'-]*`)

// KeywordExtractor pulls the most frequent informative terms from text.
type KeywordExtractor struct {
	maxKeywords int
	minLength   int
}

// NewKeywordExtractor builds an extractor. maxKeywords caps the result
// list; minLength drops short tokens.
func NewKeywordExtractor(maxKeywords, minLength int) *KeywordExtractor {
	if maxKeywords <= 0 {
		maxKeywords = 10
	}
	if minLength <= 0 {
		minLength = 4
	}
	return &KeywordExtractor{maxKeywords: maxKeywords, minLength: minLength}
}

// Extract returns keywords scored by frequency relative to document
// length, descending.
func (k *KeywordExtractor) Extract(text string) ([]types.Keyword, error) {
	text = CleanText(text)
	if text == "" {
		return nil, types.ErrEmptyText
	}

	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	freq := make(map[string]int)
	total := 0
	for _, w := range words {
		if len(w) < k.minLength {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		freq[w]++
		total++
	}
	if total == 0 {
		return nil, nil
	}

	keywords := make([]types.Keyword, 0, len(freq))
	for w, n := range freq {
		keywords = append(keywords, types.Keyword{
			Text:  w,
			Score: float64(n) / float64(total),
		})
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Score != keywords[j].Score {
			return keywords[i].Score > keywords[j].Score
		}
		return keywords[i].Text < keywords[j].Text
	})

	if len(keywords) > k.maxKeywords {
		keywords = keywords[:k.maxKeywords]
	}
	return keywords, nil
}
