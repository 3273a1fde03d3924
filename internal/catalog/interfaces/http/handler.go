package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/taxnova/backoffice/internal/catalog/application"
	"github.com/taxnova/backoffice/pkg/middleware"
	"github.com/taxnova/backoffice/pkg/respond"
)

// Handler 服务目录 HTTP 入口
type Handler struct {
	app *application.CatalogService
}

// NewHandler 注册服务目录路由
func NewHandler(r *gin.Engine, app *application.CatalogService) {
	h := &Handler{app: app}

	g := r.Group("/v1/services")
	{
		g.GET("", h.List)
		g.GET("/:id", h.Get)
	}

	admin := r.Group("/v1/services")
	admin.Use(middleware.RequireRole("admin", "superuser"))
	{
		admin.POST("", h.Upsert)
		admin.PUT("/:id", h.Upsert)
		admin.DELETE("/:id", h.Delete)
	}
}

// List 服务目录列表
func (h *Handler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	offerings, err := h.app.List(c.Request.Context(), activeOnly)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": offerings, "count": len(offerings)})
}

// Get 服务目录详情
func (h *Handler) Get(c *gin.Context) {
	offering, err := h.app.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, offering)
}

// Upsert 创建或更新服务条目
func (h *Handler) Upsert(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Price       string `json:"price" binding:"required"`
		Active      *bool  `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	offering, err := h.app.Upsert(c.Request.Context(), application.UpsertOfferingCommand{
		ID:          c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		Price:       price,
		Active:      active,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, offering)
}

// Delete 删除服务条目
func (h *Handler) Delete(c *gin.Context) {
	if err := h.app.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
