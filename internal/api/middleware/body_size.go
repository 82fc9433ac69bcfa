package middleware

import (
	"net/http"

	"vitaspoon/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BodySizeLimit 限制請求體大小，maxSize <= 0 時不限制
// 宣告長度超過上限直接回 413；未宣告長度的請求讀取時截斷
func BodySizeLimit(maxSize int64) gin.HandlerFunc {
	if maxSize <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			common.LogWarn("Request body too large",
				zap.Int64("content_length", c.Request.ContentLength),
				zap.Int64("max_size", maxSize),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
			)
			c.AbortWithStatusJSON(common.ErrRequestTooLarge.Status, common.ErrRequestTooLarge.ToResponse(false))
			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		}
		c.Next()
	}
}
