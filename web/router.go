// Package web is a stand-in implementation of the remote API contract the
// console talks to. It exists for development, demos, and integration tests
// of the client; the production backend is an external service.
package web

import (
	"fmt"
	"log"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/iatek/deptadmin/db"
	"github.com/iatek/deptadmin/util"
	"golang.org/x/time/rate"
)

func Router(conf *util.AppConfig, database *db.DB) error {
	log.Printf("Starting stand-in API server on %s:%d", conf.Conf.Host, conf.Conf.HttpPort)
	g := gin.Default()
	g.Use(gzip.Gzip(gzip.DefaultCompression))

	// Global rate limiter: 10 requests per second per IP, burst of 20
	globalLimiter := NewRateLimiter(rate.Limit(10), 20)
	g.Use(RateLimitMiddleware(globalLimiter))

	RegisterRoutes(g, conf, database)

	return g.Run(fmt.Sprintf("%s:%d", conf.Conf.Host, conf.Conf.HttpPort))
}

// RegisterRoutes wires the handlers onto the engine. Split out from Router
// so handler tests can run against httptest without binding a port.
func RegisterRoutes(g *gin.Engine, conf *util.AppConfig, database *db.DB) {

	// Auth endpoints
	g.POST("/api/auth/login", func(c *gin.Context) {
		HandleLogin(c, database)
	})

	g.POST("/api/auth/register", func(c *gin.Context) {
		HandleRegister(c, database)
	})

	g.GET("/api/auth/me", BearerAuth(database), HandleMe)

	// Submissions
	g.GET("/dept/departements", BearerAuth(database), func(c *gin.Context) {
		HandleListSubmissions(c, database)
	})

	// The public contact form that feeds the inbox
	g.POST("/dept/departements", MaxBytesMiddleware(64*1024), func(c *gin.Context) {
		HandleCreateSubmission(c, database)
	})

	g.DELETE("/dept/:id", BearerAuth(database), func(c *gin.Context) {
		HandleDeleteSubmission(c, database)
	})

	// RSS feed of recent submissions, for watching the inbox from a reader
	g.GET("/feed", func(c *gin.Context) {

		c.Header("Content-Type", "application/xml; charset=utf-8")

		rss, err := GetRSS(conf, database)
		if err != nil {
			c.Render(404, render.String{Format: ""})
		} else {
			c.Render(200, render.String{Format: rss})
		}
	})
}
