package api

import (
	"encoding/json"
	"time"

	"budget/middleware"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// BillHandler 账单处理器
type BillHandler struct {
	bills *service.BillService
	now   func() time.Time
}

// NewBillHandler 创建账单处理器
func NewBillHandler(bills *service.BillService, now func() time.Time) *BillHandler {
	if now == nil {
		now = time.Now
	}
	return &BillHandler{bills: bills, now: now}
}

// BillCreateRequest 创建账单请求
type BillCreateRequest struct {
	CategoryID         *uint        `json:"category_id" example:"1"`
	Name               string       `json:"name" binding:"required,max=100" example:"房租"`
	Description        *string      `json:"description"`
	Amount             json.Number  `json:"amount" binding:"required" swaggertype:"string" example:"1800.00"`
	DueDay             int          `json:"due_day" binding:"required" example:"10"`
	IsRecurring        *bool        `json:"is_recurring"`
	IsInstallment      bool         `json:"is_installment"`
	TotalInstallments  *int         `json:"total_installments"`
	CurrentInstallment *int         `json:"current_installment"`
	OriginalAmount     *json.Number `json:"original_amount" swaggertype:"string"`
}

// BillUpdateRequest 更新账单请求，未传字段保持不变
type BillUpdateRequest struct {
	CategoryID         *uint        `json:"category_id"`
	Name               *string      `json:"name" binding:"omitempty,max=100"`
	Description        *string      `json:"description"`
	Amount             *json.Number `json:"amount" swaggertype:"string"`
	DueDay             *int         `json:"due_day"`
	IsRecurring        *bool        `json:"is_recurring"`
	IsInstallment      *bool        `json:"is_installment"`
	TotalInstallments  *int         `json:"total_installments"`
	CurrentInstallment *int         `json:"current_installment"`
	IsPaid             *bool        `json:"is_paid"`
	PaymentDate        *string      `json:"payment_date" example:"2024-03-05"`
	PaymentMethod      *string      `json:"payment_method" example:"pix"`
	PaymentSource      *string      `json:"payment_source"`
}

// MarkPaidRequest 标记已付请求
type MarkPaidRequest struct {
	PaymentDate   string  `json:"payment_date" example:"2024-03-05"`
	PaymentMethod string  `json:"payment_method" example:"pix"`
	PaymentSource *string `json:"payment_source"`
}

// List 账单列表
// @Summary 获取账单列表
// @Description 返回当前用户全部账单，状态按当天计算
// @Tags 账单
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]service.BillView} "获取成功"
// @Router /api/v1/bills [get]
func (h *BillHandler) List(c *gin.Context) {
	views, err := h.bills.List(c.Request.Context(), middleware.GetCurrentUserID(c), h.now())
	if err != nil {
		handleError(c, err, "查询账单失败")
		return
	}
	Success(c, views)
}

// Get 账单详情
// @Summary 获取账单详情
// @Tags 账单
// @Produce json
// @Security BearerAuth
// @Param id path int true "账单ID"
// @Success 200 {object} Response{data=service.BillView} "获取成功"
// @Failure 404 {object} Response "账单不存在"
// @Router /api/v1/bills/{id} [get]
func (h *BillHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.bills.Get(c.Request.Context(), middleware.GetCurrentUserID(c), id)
	if err != nil {
		handleError(c, err, "查询账单失败")
		return
	}
	Success(c, view)
}

// Create 创建账单
// @Summary 创建账单
// @Description 新账单为未付状态，is_recurring 默认为 true
// @Tags 账单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BillCreateRequest true "账单信息"
// @Success 200 {object} Response{data=service.BillView} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	var req BillCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	view, err := h.bills.Create(c.Request.Context(), middleware.GetCurrentUserID(c), service.BillInput{
		CategoryID:         req.CategoryID,
		Name:               req.Name,
		Description:        req.Description,
		Amount:             req.Amount.String(),
		DueDay:             req.DueDay,
		IsRecurring:        req.IsRecurring,
		IsInstallment:      req.IsInstallment,
		TotalInstallments:  req.TotalInstallments,
		CurrentInstallment: req.CurrentInstallment,
		OriginalAmount:     numberString(req.OriginalAmount),
	})
	if err != nil {
		handleError(c, err, "创建账单失败")
		return
	}
	SuccessWithMessage(c, "创建成功", view)
}

// Update 更新账单
// @Summary 更新账单
// @Description 部分更新。is_paid=true 时必须同时提供付款日期和方式，is_paid=false 会清空付款信息；category_id 传 0 取消分类
// @Tags 账单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "账单ID"
// @Param request body BillUpdateRequest true "更新内容"
// @Success 200 {object} Response{data=service.BillView} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "账单不存在"
// @Router /api/v1/bills/{id} [put]
func (h *BillHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req BillUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	paymentDate, err := parseOptionalDate(req.PaymentDate)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	view, err := h.bills.Update(c.Request.Context(), middleware.GetCurrentUserID(c), id, service.BillUpdate{
		CategoryID:         req.CategoryID,
		Name:               req.Name,
		Description:        req.Description,
		Amount:             numberString(req.Amount),
		DueDay:             req.DueDay,
		IsRecurring:        req.IsRecurring,
		IsInstallment:      req.IsInstallment,
		TotalInstallments:  req.TotalInstallments,
		CurrentInstallment: req.CurrentInstallment,
		IsPaid:             req.IsPaid,
		PaymentDate:        paymentDate,
		PaymentMethod:      req.PaymentMethod,
		PaymentSource:      req.PaymentSource,
	})
	if err != nil {
		handleError(c, err, "更新账单失败")
		return
	}
	SuccessWithMessage(c, "更新成功", view)
}

// MarkPaid 标记已付
// @Summary 标记账单已付
// @Tags 账单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "账单ID"
// @Param request body MarkPaidRequest true "付款信息"
// @Success 200 {object} Response{data=service.BillView} "操作成功"
// @Failure 400 {object} Response "缺少付款日期或付款方式"
// @Failure 404 {object} Response "账单不存在"
// @Router /api/v1/bills/{id}/pay [post]
func (h *BillHandler) MarkPaid(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	date, err := parseOptionalDate(&req.PaymentDate)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	view, err := h.bills.MarkPaid(c.Request.Context(), middleware.GetCurrentUserID(c), id, service.PaymentInput{
		Date:   date,
		Method: req.PaymentMethod,
		Source: req.PaymentSource,
	})
	if err != nil {
		handleError(c, err, "操作失败")
		return
	}
	SuccessWithMessage(c, "已标记为已付", view)
}

// MarkUnpaid 标记未付
// @Summary 标记账单未付
// @Description 无条件清空付款日期、方式和来源
// @Tags 账单
// @Produce json
// @Security BearerAuth
// @Param id path int true "账单ID"
// @Success 200 {object} Response{data=service.BillView} "操作成功"
// @Failure 404 {object} Response "账单不存在"
// @Router /api/v1/bills/{id}/unpay [post]
func (h *BillHandler) MarkUnpaid(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.bills.MarkUnpaid(c.Request.Context(), middleware.GetCurrentUserID(c), id)
	if err != nil {
		handleError(c, err, "操作失败")
		return
	}
	SuccessWithMessage(c, "已标记为未付", view)
}

// Delete 删除账单
// @Summary 删除账单
// @Tags 账单
// @Produce json
// @Security BearerAuth
// @Param id path int true "账单ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "账单不存在"
// @Router /api/v1/bills/{id} [delete]
func (h *BillHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.bills.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		handleError(c, err, "删除账单失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
