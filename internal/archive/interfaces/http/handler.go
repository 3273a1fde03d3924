package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taxnova/backoffice/internal/archive/application"
	"github.com/taxnova/backoffice/pkg/middleware"
	"github.com/taxnova/backoffice/pkg/respond"
)

// 恢复与清理的确认口令，调用方必须原样回传
const (
	confirmRestore = "RESTORE"
	confirmPurge   = "PURGE"
)

// 上传归档的大小上限，防止恶意超大文件耗尽内存
const maxArchiveBytes = 256 << 20

// Handler 归档 HTTP 入口
type Handler struct {
	app *application.ArchiveService
}

// NewHandler 注册归档路由，仅 superuser 可用
func NewHandler(r *gin.Engine, app *application.ArchiveService) {
	h := &Handler{app: app}

	g := r.Group("/v1/archive")
	g.Use(middleware.RequireRole("superuser"))
	{
		g.POST("/export", h.Export)
		g.POST("/restore", h.Restore)
		g.POST("/purge", h.Purge)
	}
}

// Export 导出全量快照并以附件下载
func (h *Handler) Export(c *gin.Context) {
	result, err := h.app.Export(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	c.Data(http.StatusOK, "application/zip", result.Data)
}

// Restore 从上传的归档恢复数据。
// 恢复会覆盖现有行，因此要求显式确认字段。
func (h *Handler) Restore(c *gin.Context) {
	if c.PostForm("confirm") != confirmRestore {
		c.JSON(http.StatusPreconditionRequired, gin.H{
			"error":   "confirmation required",
			"confirm": confirmRestore,
			"scope":   "overwrites existing rows in every archived table",
		})
		return
	}

	file, _, err := c.Request.FormFile("archive")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "archive file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxArchiveBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read archive"})
		return
	}

	result, err := h.app.Restore(c.Request.Context(), data)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Purge 清空事务数据。身份表与服务目录保留，操作不可逆，要求显式确认。
func (h *Handler) Purge(c *gin.Context) {
	var req struct {
		Confirm string `json:"confirm"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Confirm != confirmPurge {
		c.JSON(http.StatusPreconditionRequired, gin.H{
			"error":   "confirmation required",
			"confirm": confirmPurge,
			"scope":   "deletes all service requests, documents and notifications; profiles and catalog are kept",
		})
		return
	}

	result, err := h.app.Purge(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
