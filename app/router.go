// Package app wires the engine session behind a localhost HTTP API.
package app

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the HTTP router over one engine server.
func NewRouter(s *Server) *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/health", Health)
	router.POST("/engine/connect", s.ConnectEngine)
	router.POST("/analyze", s.AnalyzePosition)
	router.GET("/events", s.GetEvents)
	router.GET("/status", s.GetStatus)
	router.GET("/history", s.GetHistory)

	return router
}
