package processor

import (
	"math"
	"regexp"
	"strings"

	"github.com/oraclo-news/oraclo/internal/types"
)

// Quality component weights. They sum to 1.
const (
	weightReadability  = 0.2
	weightCompleteness = 0.3
	weightAccuracy     = 0.25
	weightRelevance    = 0.25
)

var (
	sentencePattern = regexp.MustCompile(`[.!?]+`)
	digitPattern    = regexp.MustCompile(`\d`)
)

// QualityScorer estimates editorial quality of an article from its
// structure: readability, completeness, sourcing cues, and title
// relevance.
type QualityScorer struct{}

// NewQualityScorer builds a scorer.
func NewQualityScorer() *QualityScorer {
	return &QualityScorer{}
}

// Score rates an article on a 0..1 scale per component and overall.
func (q *QualityScorer) Score(a *types.Article) *types.QualityResult {
	content := CleanText(a.Content)
	title := CleanText(a.Title)

	readability := scoreReadability(content)
	completeness := scoreCompleteness(a, content)
	accuracy := scoreAccuracy(content)
	relevance := scoreRelevance(title, content)

	overall := weightReadability*readability +
		weightCompleteness*completeness +
		weightAccuracy*accuracy +
		weightRelevance*relevance

	return &types.QualityResult{
		Overall:      round2(overall),
		Readability:  round2(readability),
		Completeness: round2(completeness),
		Accuracy:     round2(accuracy),
		Relevance:    round2(relevance),
		Factors: map[string]any{
			"content_length": len(content),
			"word_count":     len(strings.Fields(content)),
		},
	}
}

// scoreReadability rewards moderate sentence length (roughly 10-25
// words reads best for news copy).
func scoreReadability(content string) float64 {
	words := strings.Fields(content)
	if len(words) == 0 {
		return 0
	}
	sentences := sentencePattern.Split(content, -1)
	count := 0
	for _, s := range sentences {
		if strings.TrimSpace(s) != "" {
			count++
		}
	}
	if count == 0 {
		count = 1
	}
	avg := float64(len(words)) / float64(count)

	switch {
	case avg >= 10 && avg <= 25:
		return 1.0
	case avg < 10:
		return math.Max(0.3, avg/10)
	default:
		return math.Max(0.3, 1.0-(avg-25)/50)
	}
}

// scoreCompleteness rewards presence of the usual article fields and a
// substantive body.
func scoreCompleteness(a *types.Article, content string) float64 {
	score := 0.0
	if len(a.Title) >= 10 {
		score += 0.2
	}
	if a.Author != "" {
		score += 0.15
	}
	if a.PublishedAt != nil {
		score += 0.15
	}
	wordCount := len(strings.Fields(content))
	switch {
	case wordCount >= 300:
		score += 0.5
	case wordCount >= 100:
		score += 0.35
	case wordCount >= 30:
		score += 0.2
	}
	return math.Min(score, 1.0)
}

// scoreAccuracy looks for sourcing cues: quotes, attributions, numbers.
func scoreAccuracy(content string) float64 {
	if content == "" {
		return 0
	}
	score := 0.4 // base for any substantive content
	lower := strings.ToLower(content)
	for _, cue := range []string{"according to", "said", "reported", "announced", "confirmed", "stated"} {
		if strings.Contains(lower, cue) {
			score += 0.15
			break
		}
	}
	if strings.ContainsAny(content, `"“”`) {
		score += 0.25
	}
	if digitPattern.MatchString(content) {
		score += 0.2
	}
	return math.Min(score, 1.0)
}

// scoreRelevance measures how much of the title's vocabulary the body
// actually covers.
func scoreRelevance(title, content string) float64 {
	titleWords := strings.Fields(strings.ToLower(title))
	if len(titleWords) == 0 {
		return 0
	}
	if content == "" {
		return 0.3 // headline-only capture, weak but not worthless
	}
	lower := strings.ToLower(content)
	matched := 0
	considered := 0
	for _, w := range titleWords {
		if len(w) < 4 {
			continue
		}
		considered++
		if strings.Contains(lower, w) {
			matched++
		}
	}
	if considered == 0 {
		return 0.5
	}
	return float64(matched) / float64(considered)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
