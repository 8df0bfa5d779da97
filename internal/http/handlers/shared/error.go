package shared

import (
	"errors"

	"github.com/stockflow/internal/http/response"
	"github.com/stockflow/internal/logger"
	"github.com/stockflow/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondServiceError 按业务错误类型映射响应码，未识别的错误按 500 处理并记录日志。
func RespondServiceError(c *gin.Context, err error, fallbackMsg string) {
	writeAppError(c, ClassifyServiceError(err, fallbackMsg))
}

// ClassifyServiceError 把 service 层错误转换为带业务码的 AppError
func ClassifyServiceError(err error, fallbackMsg string) *response.AppError {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return response.WrapError(response.CodeBadRequest, err.Error(), err).
			WithData(gin.H{"fields": validationErr.Fields})
	case errors.Is(err, service.ErrValidation):
		return response.WrapError(response.CodeBadRequest, err.Error(), err)
	case errors.Is(err, service.ErrNotFound):
		return response.WrapError(response.CodeNotFound, err.Error(), err)
	case errors.Is(err, service.ErrBrandExists), errors.Is(err, service.ErrItemBrandConflict):
		return response.WrapError(response.CodeConflict, err.Error(), err)
	default:
		return response.WrapError(response.CodeInternal, fallbackMsg, err)
	}
}

func writeAppError(c *gin.Context, appErr *response.AppError) {
	if appErr.Err != nil && appErr.Internal() {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", appErr.Err,
		)
	}
	appErr.Write(c)
}
