package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taxnova/backoffice/internal/document/application"
	"github.com/taxnova/backoffice/internal/document/domain"
	"github.com/taxnova/backoffice/pkg/middleware"
	"github.com/taxnova/backoffice/pkg/respond"
)

// Handler 资料审核 HTTP 入口
type Handler struct {
	app *application.ReviewService
}

// NewHandler 注册资料审核路由
func NewHandler(r *gin.Engine, app *application.ReviewService) {
	h := &Handler{app: app}

	g := r.Group("/v1/documents")
	g.Use(middleware.RequireRole("admin", "superuser"))
	{
		g.GET("/review", h.Review)
		g.PUT("/:id/status", h.SetStatus)
		g.POST("/batch-verify", h.BatchVerify)
	}
}

// Review 按归属用户聚合的审核视图
func (h *Handler) Review(c *gin.Context) {
	filter := application.ReviewFilter{
		Search: c.Query("search"),
		Status: application.StatusFilter(c.DefaultQuery("status", string(application.FilterAll))),
		Sort:   application.SortOrder(c.DefaultQuery("sort", string(application.SortNewest))),
	}

	groups, err := h.app.Groups(c.Request.Context(), filter)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups, "count": len(groups)})
}

// SetStatus 单条资料状态变更
func (h *Handler) SetStatus(c *gin.Context) {
	var req struct {
		Status  string `json:"status" binding:"required"`
		AdminID string `json:"admin_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.app.SetStatus(c.Request.Context(), application.SetStatusCommand{
		DocumentID: c.Param("id"),
		Status:     domain.Status(req.Status),
		AdminID:    req.AdminID,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// BatchVerify 将某用户的全部未核验资料置为 verified
func (h *Handler) BatchVerify(c *gin.Context) {
	var req struct {
		UserID  string `json:"user_id" binding:"required"`
		AdminID string `json:"admin_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.app.BatchVerify(c.Request.Context(), application.BatchVerifyCommand{
		UserID:  req.UserID,
		AdminID: req.AdminID,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": count})
}
