package api

import (
	"encoding/json"

	"budget/middleware"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// GoalHandler 财务目标处理器
type GoalHandler struct {
	goals *service.GoalService
}

func NewGoalHandler(goals *service.GoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

type GoalCreateRequest struct {
	CategoryID    *uint        `json:"category_id"`
	Name          string       `json:"name" binding:"required,max=100" example:"应急基金"`
	Description   string       `json:"description"`
	Type          string       `json:"type" binding:"required" example:"savings"`
	TargetAmount  json.Number  `json:"target_amount" binding:"required" swaggertype:"string" example:"10000.00"`
	CurrentAmount *json.Number `json:"current_amount" swaggertype:"string"`
	Period        string       `json:"period" example:"monthly"`
	TargetDate    *string      `json:"target_date" example:"2024-12-31"`
	IsActive      *bool        `json:"is_active"`
	Color         string       `json:"color" binding:"omitempty,max=20"`
	Icon          string       `json:"icon" binding:"omitempty,max=50"`
}

type GoalUpdateRequest struct {
	CategoryID    *uint        `json:"category_id"`
	Name          *string      `json:"name" binding:"omitempty,max=100"`
	Description   *string      `json:"description"`
	Type          *string      `json:"type"`
	TargetAmount  *json.Number `json:"target_amount" swaggertype:"string"`
	CurrentAmount *json.Number `json:"current_amount" swaggertype:"string"`
	Period        *string      `json:"period"`
	TargetDate    *string      `json:"target_date"`
	IsActive      *bool        `json:"is_active"`
	Color         *string      `json:"color" binding:"omitempty,max=20"`
	Icon          *string      `json:"icon" binding:"omitempty,max=50"`
}

type GoalContributeRequest struct {
	Amount json.Number `json:"amount" binding:"required" swaggertype:"string" example:"200.00"`
}

// List 目标列表
// @Summary 获取目标列表
// @Description 返回当前用户的目标及完成百分比
// @Tags 目标
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]service.GoalProgress} "获取成功"
// @Router /api/v1/goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	list, err := h.goals.List(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		handleError(c, err, "查询目标失败")
		return
	}
	Success(c, list)
}

// Create 创建目标
// @Summary 创建目标
// @Tags 目标
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GoalCreateRequest true "目标信息"
// @Success 200 {object} Response{data=service.GoalProgress} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	var req GoalCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	targetDate, err := parseOptionalDate(req.TargetDate)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	goal, err := h.goals.Create(c.Request.Context(), middleware.GetCurrentUserID(c), service.GoalInput{
		CategoryID:    req.CategoryID,
		Name:          req.Name,
		Description:   req.Description,
		Type:          req.Type,
		TargetAmount:  req.TargetAmount.String(),
		CurrentAmount: numberString(req.CurrentAmount),
		Period:        req.Period,
		TargetDate:    targetDate,
		IsActive:      req.IsActive,
		Color:         req.Color,
		Icon:          req.Icon,
	})
	if err != nil {
		handleError(c, err, "创建目标失败")
		return
	}
	SuccessWithMessage(c, "创建成功", goal)
}

// Update 更新目标
// @Summary 更新目标
// @Tags 目标
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "目标ID"
// @Param request body GoalUpdateRequest true "更新内容"
// @Success 200 {object} Response{data=service.GoalProgress} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "目标不存在"
// @Router /api/v1/goals/{id} [put]
func (h *GoalHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req GoalUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	targetDate, err := parseOptionalDate(req.TargetDate)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	goal, err := h.goals.Update(c.Request.Context(), middleware.GetCurrentUserID(c), id, service.GoalUpdate{
		CategoryID:    req.CategoryID,
		Name:          req.Name,
		Description:   req.Description,
		Type:          req.Type,
		TargetAmount:  numberString(req.TargetAmount),
		CurrentAmount: numberString(req.CurrentAmount),
		Period:        req.Period,
		TargetDate:    targetDate,
		IsActive:      req.IsActive,
		Color:         req.Color,
		Icon:          req.Icon,
	})
	if err != nil {
		handleError(c, err, "更新目标失败")
		return
	}
	SuccessWithMessage(c, "更新成功", goal)
}

// Contribute 追加目标金额
// @Summary 追加目标金额
// @Tags 目标
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "目标ID"
// @Param request body GoalContributeRequest true "追加金额"
// @Success 200 {object} Response{data=service.GoalProgress} "操作成功"
// @Failure 400 {object} Response "金额无效"
// @Failure 404 {object} Response "目标不存在"
// @Router /api/v1/goals/{id}/contribute [post]
func (h *GoalHandler) Contribute(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req GoalContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	goal, err := h.goals.Contribute(c.Request.Context(), middleware.GetCurrentUserID(c), id, req.Amount.String())
	if err != nil {
		handleError(c, err, "操作失败")
		return
	}
	Success(c, goal)
}

// Delete 删除目标
// @Summary 删除目标
// @Tags 目标
// @Produce json
// @Security BearerAuth
// @Param id path int true "目标ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "目标不存在"
// @Router /api/v1/goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.goals.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		handleError(c, err, "删除目标失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
