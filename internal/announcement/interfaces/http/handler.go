package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taxnova/backoffice/internal/announcement/application"
	"github.com/taxnova/backoffice/internal/announcement/domain"
	"github.com/taxnova/backoffice/pkg/middleware"
	"github.com/taxnova/backoffice/pkg/respond"
)

// 广播的确认口令，调用方必须原样回传
const confirmBroadcast = "BROADCAST"

// Handler 广播 HTTP 入口
type Handler struct {
	app *application.AnnouncementService
}

// NewHandler 注册广播路由
func NewHandler(r *gin.Engine, app *application.AnnouncementService) {
	h := &Handler{app: app}

	g := r.Group("/v1/announcements")
	g.Use(middleware.RequireRole("admin", "superuser"))
	{
		g.POST("/broadcast", h.Broadcast)
	}

	n := r.Group("/v1/notifications")
	{
		n.GET("/:user_id", h.ListByUser)
		n.PUT("/:user_id/:id/read", h.MarkRead)
	}
}

// Broadcast 向受众广播公告。
// 广播不可撤回，因此要求显式确认字段，缺失时直接拒绝。
func (h *Handler) Broadcast(c *gin.Context) {
	var req struct {
		Title    string `json:"title" binding:"required"`
		Body     string `json:"body" binding:"required"`
		Audience string `json:"audience" binding:"required"`
		Confirm  string `json:"confirm"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Confirm != confirmBroadcast {
		c.JSON(http.StatusPreconditionRequired, gin.H{
			"error":   "confirmation required",
			"confirm": confirmBroadcast,
			"scope":   "sends a notification to every profile in the selected audience",
		})
		return
	}

	count, err := h.app.Broadcast(c.Request.Context(), application.BroadcastCommand{
		Title:    req.Title,
		Body:     req.Body,
		Audience: domain.Audience(req.Audience),
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipients": count})
}

// ListByUser 用户通知列表
func (h *Handler) ListByUser(c *gin.Context) {
	notifications, err := h.app.ListByUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": notifications, "count": len(notifications)})
}

// MarkRead 标记通知已读
func (h *Handler) MarkRead(c *gin.Context) {
	if err := h.app.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
