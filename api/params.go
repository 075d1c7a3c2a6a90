package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// parseID 解析路径参数 id，失败时已写入 400 响应
func parseID(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id64 == 0 {
		BadRequest(c, "无效的ID")
		return 0, false
	}
	return uint(id64), true
}

// parseDate 解析 2006-01-02 格式日期
func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("日期格式错误，应为: %s", dateLayout)
	}
	return t, nil
}

// parseOptionalDate 空字符串返回 nil
func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// numberString 金额字段既可以是 JSON 数字也可以是字符串
func numberString(n *json.Number) *string {
	if n == nil {
		return nil
	}
	s := n.String()
	return &s
}
