package api

import (
	"strconv"

	"budget/middleware"
	"budget/service"

	"github.com/gin-gonic/gin"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

// ActivityHandler 操作日志处理器
type ActivityHandler struct {
	activity *service.ActivityLogger
}

func NewActivityHandler(activity *service.ActivityLogger) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// List 操作日志
// @Summary 获取操作日志
// @Description 按时间倒序返回最近的操作记录
// @Tags 操作日志
// @Produce json
// @Security BearerAuth
// @Param limit query int false "返回条数，默认 50，最大 200"
// @Success 200 {object} Response{data=[]models.ActivityLog} "获取成功"
// @Router /api/v1/activity [get]
func (h *ActivityHandler) List(c *gin.Context) {
	limit := defaultActivityLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			BadRequest(c, "limit 必须为正整数")
			return
		}
		limit = n
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	logs, err := h.activity.List(c.Request.Context(), middleware.GetCurrentUserID(c), limit)
	if err != nil {
		handleError(c, err, "查询操作日志失败")
		return
	}
	Success(c, logs)
}
