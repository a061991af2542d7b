package fixture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// slowRequestThreshold is the duration above which requests are logged at WARN level.
const slowRequestThreshold = 100 * time.Millisecond

// NewRouter builds the HTTP handler serving s.
func NewRouter(s *Store, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// Any origin may read, as the production backend allows.
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Accept", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "healthy",
			"conversations": s.Len(),
			"loaded_at":     s.LoadedAt().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")
	{
		api.GET("/conversations", func(c *gin.Context) {
			c.JSON(http.StatusOK, s.List())
		})
		api.GET("/conversations/:id", func(c *gin.Context) {
			d, ok := s.Get(c.Param("id"))
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
				return
			}
			c.JSON(http.StatusOK, d)
		})
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return router
}

// requestLogger logs every request with timing. Slow requests are logged at
// WARN level, server errors at ERROR.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", duration.Milliseconds(),
		}
		if id := c.GetHeader("X-Request-ID"); id != "" {
			attrs = append(attrs, "request_id", id)
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("request failed", attrs...)
		case duration > slowRequestThreshold:
			logger.Warn("slow request", attrs...)
		default:
			logger.Debug("request completed", attrs...)
		}
	}
}

// Serve runs the fixture backend on addr until ctx is cancelled, reloading
// the store whenever its file changes.
func Serve(ctx context.Context, addr string, s *Store, logger *slog.Logger) error {
	w, err := NewWatcher(s, logger)
	if err != nil {
		return fmt.Errorf("watch %s: %w", s.Path(), err)
	}
	defer w.Close()

	httpServer := &http.Server{
		Addr:        addr,
		Handler:     NewRouter(s, logger),
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("fixture backend listening", "addr", addr, "file", s.Path(), "conversations", s.Len())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down fixture backend...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
