package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/taxnova/backoffice/internal/profile/application"
	"github.com/taxnova/backoffice/internal/profile/domain"
	"github.com/taxnova/backoffice/pkg/middleware"
	"github.com/taxnova/backoffice/pkg/respond"
)

// Handler 档案 HTTP 入口
type Handler struct {
	app *application.ProfileService
}

// NewHandler 注册档案路由
func NewHandler(r *gin.Engine, app *application.ProfileService) {
	h := &Handler{app: app}

	g := r.Group("/v1/profiles")
	g.Use(middleware.RequireRole("admin", "superuser"))
	{
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.PUT("/:id/kyc", h.SetKYCStatus)
		g.POST("/:id/wallet-adjustments", h.AdjustWallet)
	}
}

// List 档案列表
func (h *Handler) List(c *gin.Context) {
	filter := domain.ListFilter{
		Role:   domain.Role(c.Query("role")),
		Search: c.Query("search"),
	}

	profiles, err := h.app.List(c.Request.Context(), filter)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": profiles, "count": len(profiles)})
}

// Get 档案详情
func (h *Handler) Get(c *gin.Context) {
	profile, err := h.app.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SetKYCStatus 设置认证状态
func (h *Handler) SetKYCStatus(c *gin.Context) {
	var req struct {
		Status  string `json:"status" binding:"required"`
		AdminID string `json:"admin_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.app.SetKYCStatus(c.Request.Context(), application.SetKYCStatusCommand{
		ProfileID: c.Param("id"),
		Status:    domain.KYCStatus(req.Status),
		AdminID:   req.AdminID,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// AdjustWallet 调整钱包余额
func (h *Handler) AdjustWallet(c *gin.Context) {
	var req struct {
		Amount  string `json:"amount" binding:"required"`
		Reason  string `json:"reason"`
		AdminID string `json:"admin_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	err = h.app.AdjustWallet(c.Request.Context(), application.AdjustWalletCommand{
		ProfileID: c.Param("id"),
		Amount:    amount,
		Reason:    req.Reason,
		AdminID:   req.AdminID,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
