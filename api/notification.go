package api

import (
	"budget/middleware"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// NotificationHandler 通知处理器
type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List 通知列表
// @Summary 获取通知列表
// @Description 按创建时间倒序返回，附带展示样式
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]service.NotificationView} "获取成功"
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	list, err := h.notifications.List(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		handleError(c, err, "查询通知失败")
		return
	}
	Success(c, list)
}

// MarkRead 标记已读
// @Summary 标记通知已读
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Param id path int true "通知ID"
// @Success 200 {object} Response{data=service.NotificationView} "操作成功"
// @Failure 404 {object} Response "通知不存在"
// @Router /api/v1/notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.notifications.MarkRead(c.Request.Context(), middleware.GetCurrentUserID(c), id)
	if err != nil {
		handleError(c, err, "操作失败")
		return
	}
	Success(c, view)
}

// MarkAllRead 全部标记已读
// @Summary 全部通知标记已读
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=map[string]int64} "操作成功"
// @Router /api/v1/notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	n, err := h.notifications.MarkAllRead(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		handleError(c, err, "操作失败")
		return
	}
	Success(c, gin.H{"updated": n})
}
