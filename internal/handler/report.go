package handler

import (
	"fmt"
	"io"
	"net/http"

	"report-forge/internal/logger"
	"report-forge/internal/model"
	"report-forge/internal/report"
	"report-forge/internal/service"

	"github.com/gin-gonic/gin"
)

// maxLogoBytes caps brand-color uploads; logos are small raster files.
const maxLogoBytes = 8 << 20

type ReportHandler struct {
	sessions *service.SessionService
	history  *service.HistoryService
	ai       *service.AIService
}

func NewReportHandler(sessions *service.SessionService, history *service.HistoryService, ai *service.AIService) *ReportHandler {
	return &ReportHandler{sessions: sessions, history: history, ai: ai}
}

// GET /api/sessions/:id/pdf
func (h *ReportHandler) DownloadPDF(c *gin.Context) {
	rep, company, err := h.sessions.Artifacts(c.Param("id"), c.GetString("user_name"))
	if err != nil {
		fail(c, err)
		return
	}
	data, filename, err := report.RenderPDF(rep, company)
	if err != nil {
		logger.Error("pdf render failed", "session", c.Param("id"), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "pdf rendering failed"})
		return
	}
	logger.Info("pdf.download", "session", c.Param("id"), "file", filename, "bytes", len(data))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// GET /api/sessions/:id/email
func (h *ReportHandler) EmailDraft(c *gin.Context) {
	rep, _, err := h.sessions.Artifacts(c.Param("id"), c.GetString("user_name"))
	if err != nil {
		fail(c, err)
		return
	}
	draft := report.ComposeEmail(rep)
	c.JSON(http.StatusOK, model.EmailDraftResponse{
		Subject:   draft.Subject,
		Body:      draft.Body,
		Clipboard: draft.Clipboard(),
	})
}

// POST /api/polish
func (h *ReportHandler) Polish(c *gin.Context) {
	var req model.PolishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	text, err := h.ai.Polish(c.Request.Context(), req.Notes)
	if err != nil {
		logger.Error("polish failed", "err", err)
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, model.PolishResponse{Notes: text})
}

// POST /api/brand-color
// Multipart upload of a logo; responds with the sampled dominant color.
func (h *ReportHandler) BrandColor(c *gin.Context) {
	file, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logo file is required"})
		return
	}
	if file.Size > maxLogoBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logo file too large"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read logo"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read logo"})
		return
	}
	c.JSON(http.StatusOK, model.BrandColorResponse{BrandColor: report.DominantColorFromBytes(data)})
}

// GET /api/history
func (h *ReportHandler) History(c *gin.Context) {
	entries, err := h.history.Load(c.Request.Context(), c.GetString("user_name"))
	if err != nil {
		logger.Warn("history load failed", "err", err)
		entries = []model.HistoryEntry{}
	}
	c.JSON(http.StatusOK, entries)
}
