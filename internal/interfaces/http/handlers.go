package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jlupholstery/workshop-admin/internal/domain/allocation"
	"github.com/jlupholstery/workshop-admin/internal/domain/entity"
	"github.com/jlupholstery/workshop-admin/internal/report"
	"github.com/jlupholstery/workshop-admin/internal/service"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	orderService      *service.OrderService
	paymentService    *service.PaymentService
	completionService *service.CompletionService
	statusStore       service.StatusStore
	reportService     *report.Service
	logger            *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	orderService *service.OrderService,
	paymentService *service.PaymentService,
	completionService *service.CompletionService,
	statusStore service.StatusStore,
	reportService *report.Service,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		orderService:      orderService,
		paymentService:    paymentService,
		completionService: completionService,
		statusStore:       statusStore,
		reportService:     reportService,
		logger:            logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "workshop-admin",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// ListStatuses handles GET /api/v1/statuses
func (h *Handlers) ListStatuses(c *gin.Context) {
	defs, err := h.statusStore.List()
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: defs})
}

// CreateOrder handles POST /api/v1/orders
func (h *Handlers) CreateOrder(c *gin.Context) {
	var order entity.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid order payload"})
		return
	}

	if err := h.orderService.Create(&order); err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: order})
}

// ListOrdersRequest holds query parameters for listing orders
type ListOrdersRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// ListOrders handles GET /api/v1/orders
func (h *Handlers) ListOrders(c *gin.Context) {
	var req ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid query parameters"})
		return
	}

	orders, err := h.orderService.List(req.Limit, req.Offset)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: orders})
}

// GetOrder handles GET /api/v1/orders/:id
func (h *Handlers) GetOrder(c *gin.Context) {
	order, err := h.orderService.Get(c.Param("id"))
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: order})
}

// GetTotals handles GET /api/v1/orders/:id/totals
func (h *Handlers) GetTotals(c *gin.Context) {
	totals, err := h.orderService.PreviewTotals(c.Param("id"))
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: totals})
}

// RecordPaymentRequest is the payload for recording a payment. Amount has
// no binding tag on purpose: a zero amount is the service's refusal
// (ErrZeroPayment, 422), not a malformed request.
type RecordPaymentRequest struct {
	Amount float64 `json:"amount"`
	Note   string  `json:"note"`
}

// RecordPayment handles POST /api/v1/orders/:id/payments
func (h *Handlers) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid payment payload"})
		return
	}

	order, err := h.paymentService.RecordPayment(c.Param("id"), req.Amount, req.Note)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: order})
}

// TransitionRequest is the payload for a status transition.
type TransitionRequest struct {
	StatusCode string `json:"status_code" binding:"required"`
}

// RequestTransition handles POST /api/v1/orders/:id/transition. Gate
// rejections come back as 422 with the structured result so the UI can
// offer remediation; they are not server errors.
func (h *Handlers) RequestTransition(c *gin.Context) {
	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid transition payload"})
		return
	}

	resp, err := h.completionService.RequestTransition(c.Param("id"), req.StatusCode)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	if !resp.Result.Accepted() {
		c.JSON(http.StatusUnprocessableEntity, Response{
			Success: false,
			Data:    resp,
			Error:   string(resp.Result.Reason),
		})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: resp})
}

// PreviewAllocation handles GET /api/v1/orders/:id/allocation/preview
func (h *Handlers) PreviewAllocation(c *gin.Context) {
	resp, err := h.completionService.PreviewAllocation(c.Param("id"))
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: resp})
}

// CompleteRequest is the payload for a completion commit.
type CompleteRequest struct {
	StatusCode string                     `json:"status_code" binding:"required"`
	Rows       []entity.MonthlyAllocation `json:"rows" binding:"required"`
}

// CommitCompletion handles POST /api/v1/orders/:id/complete
func (h *Handlers) CommitCompletion(c *gin.Context) {
	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid completion payload"})
		return
	}

	result, err := h.completionService.CommitCompletion(c.Param("id"), req.StatusCode, req.Rows)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	if !result.Committed() {
		reason := string(result.Transition.Reason)
		if result.SumError != nil {
			reason = result.SumError.Error()
		}
		c.JSON(http.StatusUnprocessableEntity, Response{
			Success: false,
			Data:    result,
			Error:   reason,
		})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// MonthlyReport handles GET /api/v1/reports/monthly/:year. Streams the
// workbook as a download.
func (h *Handlers) MonthlyReport(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2200 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid year"})
		return
	}

	f, err := h.reportService.BuildWorkbook(year)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("monthly_revenue_%d.xlsx", year)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("Failed to stream report", zap.Int("year", year), zap.Error(err))
	}
}

// serviceError maps service and domain errors to status codes. Validation
// refusals are 422, missing things 404, terminal conflicts 409, the rest
// 500.
func (h *Handlers) serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrStatusNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrOrderTerminal):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrZeroPayment),
		errors.Is(err, service.ErrNotDoneStatus),
		errors.Is(err, allocation.ErrMissingDateRange),
		errors.Is(err, allocation.ErrInvalidDate):
		c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Error: err.Error()})
	default:
		h.logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal error"})
	}
}
