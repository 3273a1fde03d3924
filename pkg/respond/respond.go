// Package respond 提供 HTTP 错误到状态码的统一映射
package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taxnova/backoffice/pkg/apperr"
)

// Error 将业务错误映射为 HTTP 响应
func Error(c *gin.Context, err error) {
	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, apperr.ErrMalformedArchive):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
