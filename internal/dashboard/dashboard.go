// Package dashboard serves the embedded monitoring page. It renders a
// single HTML view that polls /api/stats for live platform numbers.
package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Mount registers the dashboard routes on an existing router.
func Mount(r gin.IRouter, logger *slog.Logger) {
	log := logger.With("component", "dashboard")
	r.GET("/dashboard", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, dashboardHTML)
	})
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})
	log.Debug("dashboard mounted", "path", "/dashboard")
}
