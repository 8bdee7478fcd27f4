package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oraclo-news/oraclo/internal/types"
)

type textRequest struct {
	Text string `json:"text" binding:"required"`
}

func (s *Server) handleSentimentAnalysis(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := s.enricher.AnalyzeSentiment(req.Text)
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleKeywordExtraction(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kws, err := s.enricher.ExtractKeywords(req.Text)
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(kws), "keywords": kws})
}

func (s *Server) handleEntityExtraction(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ents, err := s.enricher.ExtractEntities(req.Text)
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(ents), "entities": ents})
}

type qualityRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

func (s *Server) handleQualityScore(c *gin.Context) {
	var req qualityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res := s.enricher.ScoreQuality(&types.Article{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
	})
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleProcessBacklog(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 || limit > 1000 {
		limit = 100
	}
	processed, err := s.enricher.ProcessBacklog(c.Request.Context(), limit)
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"processed": processed})
}

func (s *Server) handleListCategories(c *gin.Context) {
	cats, err := s.storage.ListCategories(c.Request.Context())
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(cats), "results": cats})
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func (s *Server) handleCreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Slug == "" {
		req.Slug = strings.ToLower(strings.ReplaceAll(req.Name, " ", "-"))
	}
	cat := &types.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Color:       req.Color,
		IsActive:    true,
	}
	if _, err := s.storage.CreateCategory(c.Request.Context(), cat); err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (s *Server) handleUpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Slug == "" {
		req.Slug = strings.ToLower(strings.ReplaceAll(req.Name, " ", "-"))
	}
	cat := &types.Category{
		ID:          id,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Color:       req.Color,
		IsActive:    true,
	}
	if err := s.storage.UpdateCategory(c.Request.Context(), cat); err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (s *Server) handleDeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.storage.DeleteCategory(c.Request.Context(), id); err != nil {
		s.errorResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCategoryArticles(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cat, err := s.storage.GetCategory(c.Request.Context(), id)
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	f := s.articleFilterFromQuery(c)
	f.Category = cat.Name
	articles, total, err := s.storage.ListArticles(c.Request.Context(), f)
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"category": cat,
		"count":    total,
		"results":  articles,
	})
}

func (s *Server) handleListAnalyses(c *gin.Context) {
	var articleID int64
	if aid, err := strconv.ParseInt(c.Query("article"), 10, 64); err == nil {
		articleID = aid
	}
	analysisType := types.AnalysisType(c.Query("type"))
	analyses, err := s.storage.ListAnalyses(c.Request.Context(), articleID, analysisType, s.parseLimit(c))
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(analyses), "results": analyses})
}

func (s *Server) handleListAlerts(c *gin.Context) {
	alertType := types.AlertType(c.Query("type"))
	unreadOnly := c.Query("unread") == "true"
	alerts, err := s.storage.ListAlerts(c.Request.Context(), alertType, unreadOnly, s.parseLimit(c))
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(alerts), "results": alerts})
}

func (s *Server) handleMarkAlertRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.storage.MarkAlertRead(c.Request.Context(), id); err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read", "id": id})
}
