package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FlushCache handles POST /internal/cache/flush
func FlushCache(c *gin.Context) {
	before := lookService.CacheLen()
	lookService.FlushCache()
	c.JSON(http.StatusOK, gin.H{"flushed": before})
}

// CacheStats handles GET /internal/cache/stats
func CacheStats(c *gin.Context) {
	cfg := lookService.Config()
	c.JSON(http.StatusOK, gin.H{
		"entries":  lookService.CacheLen(),
		"capacity": cfg.CacheCapacity,
		"ttl":      cfg.CacheTTL.String(),
	})
}
