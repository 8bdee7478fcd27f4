package store

import (
	"fmt"
	"strings"
	"time"
)

// ArticleFilter narrows article listings. Zero values mean "no filter".
type ArticleFilter struct {
	SourceID  int64
	Category  string
	Status    string
	Priority  string
	Sentiment string // positive, negative, neutral
	Search    string
	From      time.Time
	To        time.Time
	Breaking  bool
	Featured  bool

	OrderBy  string // column, "-" prefix for descending
	Page     int
	PageSize int
}

// Sentiment band boundaries used by listing filters and the API.
const (
	sentimentPositiveMin = 0.1
	sentimentNegativeMax = -0.1
)

var orderableColumns = map[string]string{
	"collected_at":    "a.collected_at",
	"published_at":    "a.published_at",
	"sentiment_score": "a.sentiment_score",
	"relevance_score": "a.relevance_score",
	"views_count":     "a.views_count",
}

// whereClause builds the WHERE fragment and its positional args.
// Args are numbered starting at startArg.
func (f ArticleFilter) whereClause(startArg int) (string, []any) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", startArg+len(args)-1)
	}

	if f.SourceID > 0 {
		conds = append(conds, "a.source_id = "+arg(f.SourceID))
	}
	if f.Category != "" {
		conds = append(conds, `a.id IN (
			SELECT ac.article_id FROM article_categories ac
			JOIN categories c ON c.id = ac.category_id
			WHERE c.name = `+arg(f.Category)+")")
	}
	if f.Status != "" {
		conds = append(conds, "a.status = "+arg(f.Status))
	}
	if f.Priority != "" {
		conds = append(conds, "a.priority = "+arg(f.Priority))
	}
	switch f.Sentiment {
	case "positive":
		conds = append(conds, fmt.Sprintf("a.sentiment_score > %g", sentimentPositiveMin))
	case "negative":
		conds = append(conds, fmt.Sprintf("a.sentiment_score < %g", sentimentNegativeMax))
	case "neutral":
		conds = append(conds, fmt.Sprintf("a.sentiment_score BETWEEN %g AND %g",
			sentimentNegativeMax, sentimentPositiveMin))
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conds = append(conds, fmt.Sprintf("(a.title ILIKE %s OR a.content ILIKE %s OR a.author ILIKE %s)", p, p, p))
	}
	if !f.From.IsZero() {
		conds = append(conds, "a.collected_at >= "+arg(f.From))
	}
	if !f.To.IsZero() {
		conds = append(conds, "a.collected_at <= "+arg(f.To))
	}
	if f.Breaking {
		conds = append(conds, "a.is_breaking")
	}
	if f.Featured {
		conds = append(conds, "a.is_featured")
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// orderClause builds the ORDER BY fragment, defaulting to newest first.
// Unknown columns are ignored rather than interpolated.
func (f ArticleFilter) orderClause() string {
	col, dir := f.OrderBy, "ASC"
	if strings.HasPrefix(col, "-") {
		col, dir = col[1:], "DESC"
	}
	sqlCol, ok := orderableColumns[col]
	if !ok {
		return "ORDER BY a.collected_at DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s", sqlCol, dir)
}

// limitOffset builds the pagination fragment.
func (f ArticleFilter) limitOffset() (limit, offset int) {
	limit = f.PageSize
	if limit <= 0 {
		limit = 20
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}
