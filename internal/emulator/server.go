package emulator

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server serves the emulated bills backend
type Server struct {
	repo      *BillRepository
	uploadDir string
	publicURL string
	token     string
	logger    *zap.Logger
}

// NewServer creates an emulator server. publicURL is the base under which
// uploaded receipts are reachable; token, when non-empty, is required as a
// bearer credential on the bills routes.
func NewServer(repo *BillRepository, uploadDir, publicURL, token string, logger *zap.Logger) *Server {
	return &Server{
		repo:      repo,
		uploadDir: uploadDir,
		publicURL: publicURL,
		token:     token,
		logger:    logger,
	}
}

// Router builds the HTTP routes
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(s.logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "billed-emulator",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	router.Static("/receipts", s.uploadDir)

	bills := router.Group("/bills")
	bills.Use(s.authMiddleware())
	{
		bills.GET("", s.listBills)
		bills.POST("", s.createBill)
		bills.PUT("/:id", s.updateBill)
	}

	return router
}

// authMiddleware requires the configured bearer token, when one is set
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.token == "" {
			c.Next()
			return
		}
		if c.GetHeader("Authorization") != "Bearer "+s.token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.Next()
	}
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}
