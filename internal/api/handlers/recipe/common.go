package recipe

import (
	"errors"
	"net/http"

	"vitaspoon/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError 以統一格式回應錯誤
func respondError(c *gin.Context, err *common.CustomError, debug bool) {
	status := err.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		common.LogError("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("code", err.Code),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, err.ToResponse(debug))
}

// asCustomError 將任意錯誤轉為 CustomError
func asCustomError(err error, fallback *common.CustomError) *common.CustomError {
	var ce *common.CustomError
	if errors.As(err, &ce) {
		return ce
	}
	return fallback.Wrap(err)
}
