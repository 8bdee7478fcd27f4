package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oraclo-news/oraclo/internal/types"
)

// sourceRequest is the create/update payload.
type sourceRequest struct {
	Name               string             `json:"name" binding:"required"`
	URL                string             `json:"url" binding:"required"`
	Type               types.SourceType   `json:"source_type"`
	Country            string             `json:"country"`
	Language           string             `json:"language"`
	IsActive           *bool              `json:"is_active"`
	RenderJS           bool               `json:"render_js"`
	CollectionInterval int                `json:"collection_interval"`
	MaxArticles        int                `json:"max_articles"`
	Scrape             types.ScrapeConfig `json:"scrape_config"`
}

func (r *sourceRequest) toSource() *types.Source {
	src := &types.Source{
		Name:               r.Name,
		URL:                r.URL,
		Type:               r.Type,
		Country:            r.Country,
		Language:           r.Language,
		IsActive:           true,
		RenderJS:           r.RenderJS,
		CollectionInterval: r.CollectionInterval,
		MaxArticles:        r.MaxArticles,
		Scrape:             r.Scrape,
	}
	if r.Type == "" {
		src.Type = types.SourceWebsite
	}
	if r.IsActive != nil {
		src.IsActive = *r.IsActive
	}
	if src.CollectionInterval <= 0 {
		src.CollectionInterval = 300
	}
	if src.MaxArticles <= 0 {
		src.MaxArticles = 50
	}
	return src
}

func validSourceType(t types.SourceType) bool {
	switch t {
	case types.SourceWebsite, types.SourceRSS, types.SourceAPI:
		return true
	}
	return false
}

func (s *Server) handleListSources(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	sources, err := s.storage.ListSources(c.Request.Context(), activeOnly)
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(sources), "results": sources})
}

func (s *Server) handleCreateSource(c *gin.Context) {
	var req sourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	src := req.toSource()
	if !validSourceType(src.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source_type"})
		return
	}
	if _, err := s.storage.CreateSource(c.Request.Context(), src); err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, src)
}

func (s *Server) handleGetSource(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	src, err := s.storage.GetSource(c.Request.Context(), id)
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, src)
}

func (s *Server) handleUpdateSource(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req sourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	src := req.toSource()
	src.ID = id
	if !validSourceType(src.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source_type"})
		return
	}
	if err := s.storage.UpdateSource(c.Request.Context(), src); err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, src)
}

func (s *Server) handleDeleteSource(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.storage.DeleteSource(c.Request.Context(), id); err != nil {
		s.errorResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSourceStats(c *gin.Context) {
	stats, err := s.storage.GetSourceStats(c.Request.Context())
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// handleCollectSource triggers an immediate collection in the
// background and returns 202.
func (s *Server) handleCollectSource(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	src, err := s.storage.GetSource(c.Request.Context(), id)
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	if s.collect == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "collector not running"})
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		log := s.collect.CollectSource(ctx, src)
		s.logger.Info("on-demand collection finished",
			"source", src.Name,
			"status", log.Status,
			"saved", log.ArticlesSaved,
		)
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "collection started", "source_id": id})
}

// handleCollectDue starts a background collection of every due source,
// or of one source when the body names it.
func (s *Server) handleCollectDue(c *gin.Context) {
	var req struct {
		SourceID int64 `json:"source_id"`
	}
	_ = c.ShouldBindJSON(&req)

	if s.collect == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "collector not running"})
		return
	}

	var sources []*types.Source
	if req.SourceID > 0 {
		src, err := s.storage.GetSource(c.Request.Context(), req.SourceID)
		if err != nil {
			s.errorResponse(c, err)
			return
		}
		sources = append(sources, src)
	} else {
		due, err := s.storage.DueSources(c.Request.Context(), time.Now())
		if err != nil {
			s.errorResponse(c, err)
			return
		}
		sources = due
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		for _, src := range sources {
			if ctx.Err() != nil {
				return
			}
			s.collect.CollectSource(ctx, src)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "collection started", "sources": len(sources)})
}

func (s *Server) handleListCollectionLogs(c *gin.Context) {
	var sourceID int64
	if sid, err := strconv.ParseInt(c.Query("source"), 10, 64); err == nil {
		sourceID = sid
	}
	status := types.CollectionStatus(c.Query("status"))
	logs, err := s.storage.ListCollectionLogs(c.Request.Context(), sourceID, status, s.parseLimit(c))
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(logs), "results": logs})
}
