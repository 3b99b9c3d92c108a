package routers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/smilefnb/smile_backend/config"
	"github.com/smilefnb/smile_backend/utils"
)

// Error bodies are {"detail": string}. Storage errors are logged with their
// raw cause but never echoed to the client.

func notFound(c *gin.Context, detail string) {
	c.JSON(http.StatusNotFound, gin.H{"detail": detail})
}

func validationError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": utils.ValidationDetail(err)})
}

func storageError(c *gin.Context, funcName string, data any, err error) {
	config.LogError(config.GetLogger(), "routers", funcName, c.FullPath(), data, err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
}

func cacheError(c *gin.Context, funcName string, err error) {
	config.LogError(config.GetLogger(), "routers", funcName, c.FullPath(), nil, err)
	if errors.Is(err, utils.ErrorCacheUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "auxiliary cache unavailable"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
}

func tableIdParam(c *gin.Context) (int, bool) {
	tableId, err := strconv.Atoi(c.Param("tableId"))
	if err != nil || tableId < 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "tableId must be a non-negative integer"})
		return 0, false
	}
	return tableId, true
}

func idParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": name + " must be an integer"})
		return 0, false
	}
	return id, true
}

// dishNameParam decodes the URL-encoded dish name path segment.
func dishNameParam(c *gin.Context) string {
	raw := c.Param("dishName")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}
