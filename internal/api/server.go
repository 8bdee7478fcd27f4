// Package api serves the REST interface over the article store, the
// enrichment pipeline, and the collectors.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oraclo-news/oraclo/internal/config"
	"github.com/oraclo-news/oraclo/internal/observability"
	"github.com/oraclo-news/oraclo/internal/store"
	"github.com/oraclo-news/oraclo/internal/types"
)

// Storage is the persistence surface the API depends on.
type Storage interface {
	GetArticle(ctx context.Context, id int64) (*types.Article, error)
	ListArticles(ctx context.Context, f store.ArticleFilter) ([]*types.Article, int, error)
	BreakingArticles(ctx context.Context, window time.Duration, limit int) ([]*types.Article, error)
	TrendingArticles(ctx context.Context, window time.Duration, limit int) ([]*types.Article, error)
	IncrementViews(ctx context.Context, id int64) error

	CreateSource(ctx context.Context, src *types.Source) (int64, error)
	GetSource(ctx context.Context, id int64) (*types.Source, error)
	ListSources(ctx context.Context, activeOnly bool) ([]*types.Source, error)
	DueSources(ctx context.Context, now time.Time) ([]*types.Source, error)
	UpdateSource(ctx context.Context, src *types.Source) error
	DeleteSource(ctx context.Context, id int64) error
	GetSourceStats(ctx context.Context) (*store.SourceStats, error)

	CreateCategory(ctx context.Context, c *types.Category) (int64, error)
	GetCategory(ctx context.Context, id int64) (*types.Category, error)
	ListCategories(ctx context.Context) ([]*types.Category, error)
	UpdateCategory(ctx context.Context, c *types.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	ListAnalyses(ctx context.Context, articleID int64, analysisType types.AnalysisType, limit int) ([]*types.Analysis, error)
	ListAlerts(ctx context.Context, alertType types.AlertType, unreadOnly bool, limit int) ([]*types.Alert, error)
	MarkAlertRead(ctx context.Context, id int64) error
	ListCollectionLogs(ctx context.Context, sourceID int64, status types.CollectionStatus, limit int) ([]*types.CollectionLog, error)

	GetStats(ctx context.Context, window time.Duration) (*store.Stats, error)
	TrendingKeywords(ctx context.Context, window time.Duration, limit int) ([]store.TrendingTerm, error)
	TrendingEntities(ctx context.Context, window time.Duration, limit int) ([]store.TrendingTerm, error)
}

// Enricher is the NLP surface the API depends on.
type Enricher interface {
	AnalyzeSentiment(text string) (*types.SentimentResult, error)
	ExtractKeywords(text string) ([]types.Keyword, error)
	ExtractEntities(text string) ([]types.Entity, error)
	ScoreQuality(a *types.Article) *types.QualityResult
	ProcessArticle(ctx context.Context, articleID int64) (*types.AnalysisBundle, error)
	ProcessBacklog(ctx context.Context, limit int) (int, error)
}

// CollectTrigger runs one on-demand collection for a source.
type CollectTrigger interface {
	CollectSource(ctx context.Context, src *types.Source) *types.CollectionLog
}

// Server hosts the REST API.
type Server struct {
	router   *gin.Engine
	cfg      *config.APIConfig
	storage  Storage
	enricher Enricher
	collect  CollectTrigger
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewServer wires routes onto a gin engine.
func NewServer(cfg *config.APIConfig, storage Storage, enricher Enricher, collect CollectTrigger, metrics *observability.Metrics, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		router:   gin.New(),
		cfg:      cfg,
		storage:  storage,
		enricher: enricher,
		collect:  collect,
		metrics:  metrics,
		logger:   logger.With("component", "api"),
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.registerRoutes()
	return s
}

// Router exposes the handler for mounting extra routes and for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until the context is cancelled, then shuts down cleanly.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", s.cfg.Port),
		Handler:     s.router,
		ReadTimeout: s.cfg.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) registerRoutes() {
	s.router.GET("/api/health", s.handleHealth)
	s.router.GET("/api/stats", s.handleStats)

	articles := s.router.Group("/api/articles")
	{
		articles.GET("", s.handleListArticles)
		articles.GET("/breaking", s.handleBreakingArticles)
		articles.GET("/trending", s.handleTrendingArticles)
		articles.GET("/:id", s.handleGetArticle)
		articles.POST("/:id/analyze", s.handleAnalyzeArticle)
	}

	sources := s.router.Group("/api/sources")
	{
		sources.GET("", s.handleListSources)
		sources.POST("", s.handleCreateSource)
		sources.GET("/stats", s.handleSourceStats)
		sources.GET("/:id", s.handleGetSource)
		sources.PUT("/:id", s.handleUpdateSource)
		sources.DELETE("/:id", s.handleDeleteSource)
		sources.POST("/:id/collect", s.handleCollectSource)
	}

	categories := s.router.Group("/api/categories")
	{
		categories.GET("", s.handleListCategories)
		categories.POST("", s.handleCreateCategory)
		categories.PUT("/:id", s.handleUpdateCategory)
		categories.DELETE("/:id", s.handleDeleteCategory)
		categories.GET("/:id/articles", s.handleCategoryArticles)
	}

	s.router.GET("/api/analyses", s.handleListAnalyses)

	alerts := s.router.Group("/api/alerts")
	{
		alerts.GET("", s.handleListAlerts)
		alerts.POST("/:id/read", s.handleMarkAlertRead)
	}

	s.router.GET("/api/collection-logs", s.handleListCollectionLogs)
	s.router.GET("/api/search", s.handleSearch)
	s.router.GET("/api/trending", s.handleTrending)

	s.router.POST("/api/sentiment-analysis", s.handleSentimentAnalysis)
	s.router.POST("/api/entity-extraction", s.handleEntityExtraction)
	s.router.POST("/api/keyword-extraction", s.handleKeywordExtraction)
	s.router.POST("/api/quality-score", s.handleQualityScore)

	s.router.POST("/api/collect", s.handleCollectDue)
	s.router.POST("/api/process", s.handleProcessBacklog)

	s.router.GET("/api/metrics-lite", s.handleMetricsLite)
}

// errorResponse maps internal errors to API status codes.
func (s *Server) errorResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, types.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, types.ErrEmptyText):
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
	default:
		s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": config.Version,
		"time":    time.Now().UTC(),
	})
}

// handleMetricsLite exposes the counter snapshot without requiring the
// Prometheus listener to be enabled.
func (s *Server) handleMetricsLite(c *gin.Context) {
	if s.metrics == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, s.metrics.Snapshot())
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.storage.GetStats(c.Request.Context(), 24*time.Hour)
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	resp := gin.H{"stats": stats}
	if s.metrics != nil {
		resp["counters"] = s.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, resp)
}
