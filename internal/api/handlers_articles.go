package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oraclo-news/oraclo/internal/store"
)

// parseWindow reads a "hours" query parameter, defaulting to 24.
func parseWindow(c *gin.Context) time.Duration {
	hours, err := strconv.Atoi(c.DefaultQuery("hours", "24"))
	if err != nil || hours <= 0 || hours > 24*30 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

func (s *Server) parseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		return 10
	}
	if limit > s.cfg.MaxPageSize {
		return s.cfg.MaxPageSize
	}
	return limit
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// articleFilterFromQuery maps list query parameters onto a filter.
func (s *Server) articleFilterFromQuery(c *gin.Context) store.ArticleFilter {
	f := store.ArticleFilter{
		Category:  c.Query("category"),
		Status:    c.Query("status"),
		Priority:  c.Query("priority"),
		Sentiment: c.Query("sentiment"),
		Search:    c.Query("search"),
		OrderBy:   c.Query("ordering"),
		Breaking:  c.Query("breaking") == "true",
		Featured:  c.Query("featured") == "true",
	}
	if sid, err := strconv.ParseInt(c.Query("source"), 10, 64); err == nil {
		f.SourceID = sid
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		f.Page = page
	}
	f.PageSize = s.cfg.PageSize
	if size, err := strconv.Atoi(c.Query("page_size")); err == nil && size > 0 {
		if size > s.cfg.MaxPageSize {
			size = s.cfg.MaxPageSize
		}
		f.PageSize = size
	}
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		f.From = from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		f.To = to
	}
	return f
}

func (s *Server) handleListArticles(c *gin.Context) {
	f := s.articleFilterFromQuery(c)
	articles, total, err := s.storage.ListArticles(c.Request.Context(), f)
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     total,
		"page":      page,
		"page_size": f.PageSize,
		"results":   articles,
	})
}

func (s *Server) handleGetArticle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	a, err := s.storage.GetArticle(c.Request.Context(), id)
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	if err := s.storage.IncrementViews(c.Request.Context(), id); err != nil {
		s.logger.Warn("view count update failed", "article_id", id, "error", err)
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) handleBreakingArticles(c *gin.Context) {
	articles, err := s.storage.BreakingArticles(c.Request.Context(), parseWindow(c), s.parseLimit(c))
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(articles), "results": articles})
}

func (s *Server) handleTrendingArticles(c *gin.Context) {
	articles, err := s.storage.TrendingArticles(c.Request.Context(), parseWindow(c), s.parseLimit(c))
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(articles), "results": articles})
}

func (s *Server) handleAnalyzeArticle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	bundle, err := s.enricher.ProcessArticle(c.Request.Context(), id)
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article_id": id, "analysis": bundle})
}

func (s *Server) handleSearch(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}
	f := s.articleFilterFromQuery(c)
	f.Search = q
	articles, total, err := s.storage.ListArticles(c.Request.Context(), f)
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "count": total, "results": articles})
}

func (s *Server) handleTrending(c *gin.Context) {
	window := parseWindow(c)
	limit := s.parseLimit(c)

	keywords, err := s.storage.TrendingKeywords(c.Request.Context(), window, limit)
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	entities, err := s.storage.TrendingEntities(c.Request.Context(), window, limit)
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	articles, err := s.storage.TrendingArticles(c.Request.Context(), window, limit)
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"window_hours": int(window.Hours()),
		"keywords":     keywords,
		"entities":     entities,
		"articles":     articles,
	})
}
