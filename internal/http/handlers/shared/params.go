package shared

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/stockflow/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ParseUintParam 解析路径中的正整数 ID，失败时直接写入 400 响应。
func ParseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		response.BadRequest(c, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return uint(value), true
}

// ParseIntQuery 解析可选整数查询参数，缺省返回 fallback。
func ParseIntQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		response.BadRequest(c, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return value, true
}

// FlexInt 兼容数字与数字字符串的整数（表单输入常以字符串提交）。
type FlexInt int

// UnmarshalJSON 解析 24 或 "24"
func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(strings.TrimSpace(s))
	}
	value, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("invalid integer %q", string(b))
	}
	*f = FlexInt(value)
	return nil
}
