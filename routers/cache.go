package routers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smilefnb/smile_backend/cache"
)

// RegisterCacheRoutes wires the auxiliary blob-store endpoints around an
// injected store. The store may be disabled; these handlers then answer 503
// while every other endpoint is unaffected.
func RegisterCacheRoutes(r *gin.RouterGroup, store *cache.Store) {
	r.GET("/check", checkCacheData(store))
	r.GET("/data", getCacheData(store))
	r.POST("/data", setCacheData(store))
	r.DELETE("/data", clearCacheData(store))
}

func checkCacheData(store *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		size, err := store.Size(c.Request.Context())
		if err != nil {
			cacheError(c, "checkCacheData", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"size": size})
	}
}

func getCacheData(store *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, found, err := store.Get(c.Request.Context())
		if err != nil {
			cacheError(c, "getCacheData", err)
			return
		}
		if !found {
			c.JSON(http.StatusOK, gin.H{"data": nil, "message": "No data found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": value})
	}
}

func setCacheData(store *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload map[string]any
		if err := c.ShouldBindJSON(&payload); err != nil {
			validationError(c, err)
			return
		}

		if err := store.Set(c.Request.Context(), payload); err != nil {
			cacheError(c, "setCacheData", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Data saved successfully"})
	}
}

func clearCacheData(store *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Clear(c.Request.Context()); err != nil {
			cacheError(c, "clearCacheData", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Redis data cleared successfully"})
	}
}
