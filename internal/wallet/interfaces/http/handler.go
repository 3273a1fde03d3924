package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/taxnova/backoffice/internal/wallet/application"
	"github.com/taxnova/backoffice/internal/wallet/domain"
	"github.com/taxnova/backoffice/pkg/middleware"
	"github.com/taxnova/backoffice/pkg/respond"
)

// Handler 钱包 HTTP 入口
type Handler struct {
	app *application.WalletService
}

// NewHandler 注册钱包路由
func NewHandler(r *gin.Engine, app *application.WalletService) {
	h := &Handler{app: app}

	partner := r.Group("/v1/wallet")
	partner.Use(middleware.RequireRole("partner", "admin", "superuser"))
	{
		partner.GET("/statements/:partner_id", h.Statement)
		partner.POST("/payouts", h.RequestPayout)
	}

	admin := r.Group("/v1/wallet")
	admin.Use(middleware.RequireRole("admin", "superuser"))
	{
		admin.GET("/payouts", h.ListPayouts)
		admin.POST("/royalties", h.CreditRoyalty)
		admin.POST("/payouts/:id/complete", h.CompletePayout)
		admin.POST("/payouts/:id/reject", h.RejectPayout)
	}
}

// Statement 合作伙伴对账单
func (h *Handler) Statement(c *gin.Context) {
	statement, err := h.app.GetStatement(c.Request.Context(), c.Param("partner_id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, statement)
}

// ListPayouts 提现申请列表
func (h *Handler) ListPayouts(c *gin.Context) {
	payouts, err := h.app.ListPayouts(c.Request.Context(), domain.PayoutStatus(c.Query("status")))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": payouts, "count": len(payouts)})
}

// CreditRoyalty 收益入账
func (h *Handler) CreditRoyalty(c *gin.Context) {
	var req struct {
		PartnerID string `json:"partner_id" binding:"required"`
		Amount    string `json:"amount" binding:"required"`
		Type      string `json:"type" binding:"required"`
		ClientID  string `json:"client_id"`
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

	entry, err := h.app.CreditRoyalty(c.Request.Context(), application.CreditRoyaltyCommand{
		PartnerID: req.PartnerID,
		Amount:    amount,
		Type:      domain.RoyaltyType(req.Type),
		ClientID:  req.ClientID,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// RequestPayout 创建提现申请
func (h *Handler) RequestPayout(c *gin.Context) {
	var req struct {
		PartnerID string `json:"partner_id" binding:"required"`
		Amount    string `json:"amount" binding:"required"`
		Address   string `json:"address" binding:"required"`
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

	payout, err := h.app.RequestPayout(c.Request.Context(), application.RequestPayoutCommand{
		PartnerID: req.PartnerID,
		Amount:    amount,
		Address:   req.Address,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, payout)
}

// CompletePayout 完成提现
func (h *Handler) CompletePayout(c *gin.Context) {
	h.process(c, h.app.CompletePayout)
}

// RejectPayout 驳回提现
func (h *Handler) RejectPayout(c *gin.Context) {
	h.process(c, h.app.RejectPayout)
}

func (h *Handler) process(c *gin.Context, fn func(ctx context.Context, cmd application.ProcessPayoutCommand) error) {
	var req struct {
		AdminID string `json:"admin_id"`
		Note    string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := fn(c.Request.Context(), application.ProcessPayoutCommand{
		PayoutID: c.Param("id"),
		AdminID:  req.AdminID,
		Note:     req.Note,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
