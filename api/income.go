package api

import (
	"encoding/json"

	"budget/middleware"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// IncomeHandler 收入处理器
type IncomeHandler struct {
	incomes *service.IncomeService
}

func NewIncomeHandler(incomes *service.IncomeService) *IncomeHandler {
	return &IncomeHandler{incomes: incomes}
}

type CreateIncomeRequest struct {
	Source      string      `json:"source" binding:"required,max=100" example:"工资"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount" binding:"required" swaggertype:"string" example:"5000.00"`
	IsRecurring *bool       `json:"is_recurring"`
	ReceiptDay  *int        `json:"receipt_day" example:"5"`
	Date        *string     `json:"date" example:"2024-03-20"`
}

type UpdateIncomeRequest struct {
	Source      *string      `json:"source" binding:"omitempty,max=100"`
	Description *string      `json:"description"`
	Amount      *json.Number `json:"amount" swaggertype:"string"`
	IsRecurring *bool        `json:"is_recurring"`
	ReceiptDay  *int         `json:"receipt_day"`
	Date        *string      `json:"date"`
}

// List 获取收入列表
// @Summary 获取收入列表
// @Description 获取当前用户全部收入，包含固定收入和一次性收入
// @Tags 收入
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Income} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/incomes [get]
func (h *IncomeHandler) List(c *gin.Context) {
	list, err := h.incomes.List(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		handleError(c, err, "查询收入失败")
		return
	}
	Success(c, list)
}

// Get 获取收入详情
// @Summary 获取收入详情
// @Tags 收入
// @Produce json
// @Security BearerAuth
// @Param id path int true "收入ID"
// @Success 200 {object} Response{data=models.Income} "获取成功"
// @Failure 404 {object} Response "收入不存在"
// @Router /api/v1/incomes/{id} [get]
func (h *IncomeHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	in, err := h.incomes.Get(c.Request.Context(), middleware.GetCurrentUserID(c), id)
	if err != nil {
		handleError(c, err, "查询收入失败")
		return
	}
	Success(c, in)
}

// Create 创建收入
// @Summary 创建收入
// @Description 固定收入填写 receipt_day，一次性收入填写 date；一次性收入会同时记一笔收入流水
// @Tags 收入
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateIncomeRequest true "收入信息"
// @Success 200 {object} Response{data=models.Income} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/incomes [post]
func (h *IncomeHandler) Create(c *gin.Context) {
	var req CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	in, err := h.incomes.Create(c.Request.Context(), middleware.GetCurrentUserID(c), service.IncomeInput{
		Source:      req.Source,
		Description: req.Description,
		Amount:      req.Amount.String(),
		IsRecurring: req.IsRecurring,
		ReceiptDay:  req.ReceiptDay,
		Date:        date,
	})
	if err != nil {
		handleError(c, err, "创建收入失败")
		return
	}
	SuccessWithMessage(c, "创建成功", in)
}

// Update 更新收入
// @Summary 更新收入
// @Description 部分更新，切换 is_recurring 时会清空原有的日期字段
// @Tags 收入
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "收入ID"
// @Param request body UpdateIncomeRequest true "更新内容"
// @Success 200 {object} Response{data=models.Income} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "收入不存在"
// @Router /api/v1/incomes/{id} [put]
func (h *IncomeHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	in, err := h.incomes.Update(c.Request.Context(), middleware.GetCurrentUserID(c), id, service.IncomeUpdate{
		Source:      req.Source,
		Description: req.Description,
		Amount:      numberString(req.Amount),
		IsRecurring: req.IsRecurring,
		ReceiptDay:  req.ReceiptDay,
		Date:        date,
	})
	if err != nil {
		handleError(c, err, "更新收入失败")
		return
	}
	SuccessWithMessage(c, "更新成功", in)
}

// Delete 删除收入
// @Summary 删除收入
// @Tags 收入
// @Produce json
// @Security BearerAuth
// @Param id path int true "收入ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "收入不存在"
// @Router /api/v1/incomes/{id} [delete]
func (h *IncomeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.incomes.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		handleError(c, err, "删除收入失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
