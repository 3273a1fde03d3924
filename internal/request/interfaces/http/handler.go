package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taxnova/backoffice/internal/request/application"
	"github.com/taxnova/backoffice/internal/request/domain"
	"github.com/taxnova/backoffice/pkg/middleware"
	"github.com/taxnova/backoffice/pkg/respond"
)

// Handler 服务申请 HTTP 入口
type Handler struct {
	app *application.RequestService
}

// NewHandler 注册服务申请路由
func NewHandler(r *gin.Engine, app *application.RequestService) {
	h := &Handler{app: app}

	g := r.Group("/v1/requests")
	g.Use(middleware.RequireRole("admin", "superuser"))
	{
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.POST("", h.Create)
		g.PUT("/:id/status", h.UpdateStatus)
	}
}

// List 申请列表
func (h *Handler) List(c *gin.Context) {
	filter := domain.ListFilter{
		UserID: c.Query("user_id"),
		Status: domain.Status(c.Query("status")),
	}

	requests, err := h.app.List(c.Request.Context(), filter)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": requests, "count": len(requests)})
}

// Get 申请详情
func (h *Handler) Get(c *gin.Context) {
	request, err := h.app.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// Create 创建服务申请
func (h *Handler) Create(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
		Title  string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.app.Create(c.Request.Context(), application.CreateRequestCommand{
		UserID: req.UserID,
		Title:  req.Title,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

// UpdateStatus 更新申请状态
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.app.UpdateStatus(c.Request.Context(), application.UpdateStatusCommand{
		RequestID: c.Param("id"),
		Status:    domain.Status(req.Status),
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
