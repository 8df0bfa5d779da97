package response

import "github.com/gin-gonic/gin"

// AppError 携带业务码的错误，Data 会随错误信封一并返回
type AppError struct {
	Code    int
	Message string
	Data    interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Internal 是否属于需要记录日志的内部错误
func (e *AppError) Internal() bool {
	return e.Code >= CodeInternal
}

// WithData 附加响应数据
func (e *AppError) WithData(data interface{}) *AppError {
	e.Data = data
	return e
}

// Write 按统一信封写出
func (e *AppError) Write(c *gin.Context) {
	if e.Data != nil {
		ErrorWithData(c, e.Code, e.Message, e.Data)
		return
	}
	Error(c, e.Code, e.Message)
}

// WrapError 包装错误
func WrapError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
