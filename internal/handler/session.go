package handler

import (
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"report-forge/internal/logger"
	"report-forge/internal/model"
	"report-forge/internal/service"
	"report-forge/internal/wizard"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	svc *service.SessionService
}

func NewSessionHandler(svc *service.SessionService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// fail maps the error taxonomy onto HTTP statuses. Upstream and parse
// failures surface as one generic retryable message; the session keeps its
// pre-attempt state either way.
func fail(c *gin.Context, err error) {
	var vErr *wizard.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Msg})
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, service.ErrGenerationInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "generation already in progress"})
	case errors.Is(err, service.ErrUpstream), errors.Is(err, service.ErrParse):
		c.JSON(http.StatusBadGateway, gin.H{"error": "report generation failed, please try again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// POST /api/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	owner := c.GetString("user_name")
	view := h.svc.Create(owner)
	logger.Info("wizard.create", "session", view.ID, "owner", owner)
	c.JSON(http.StatusOK, view)
}

// GET /api/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	view, err := h.svc.Get(c.Param("id"), c.GetString("user_name"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PUT /api/sessions/:id/company
func (h *SessionHandler) SetCompany(c *gin.Context) {
	var req model.CompanyInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.apply(c, wizard.SetCompany{Company: req})
}

// PUT /api/sessions/:id/employee
func (h *SessionHandler) SetEmployee(c *gin.Context) {
	var req model.EmployeeInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.apply(c, wizard.SetEmployee{Employee: req})
}

// PUT /api/sessions/:id/notes
func (h *SessionHandler) SetNotes(c *gin.Context) {
	var req model.NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	var image []byte
	if req.Image != "" {
		var err error
		image, err = base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image is not valid base64"})
			return
		}
	}
	h.apply(c, wizard.SetNotes{Notes: req.Notes, Image: image, ImageMIME: req.ImageMIME})
}

// POST /api/sessions/:id/next
func (h *SessionHandler) Next(c *gin.Context) {
	h.apply(c, wizard.Next{})
}

// POST /api/sessions/:id/back
func (h *SessionHandler) Back(c *gin.Context) {
	h.apply(c, wizard.Back{})
}

// PUT /api/sessions/:id/report
func (h *SessionHandler) EditReport(c *gin.Context) {
	var req model.ReportData
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report payload"})
		return
	}
	h.apply(c, wizard.EditReport{Report: &req})
}

// POST /api/sessions/:id/reset
func (h *SessionHandler) Reset(c *gin.Context) {
	h.apply(c, wizard.Reset{Date: today()})
}

// POST /api/sessions/:id/generate
func (h *SessionHandler) Generate(c *gin.Context) {
	id := c.Param("id")
	owner := c.GetString("user_name")
	logger.Info("wizard.generate", "session", id, "owner", owner)
	view, err := h.svc.Generate(c.Request.Context(), id, owner)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func today() string { return time.Now().Format("2006-01-02") }

func (h *SessionHandler) apply(c *gin.Context, ev wizard.Event) {
	view, err := h.svc.Apply(c.Param("id"), c.GetString("user_name"), ev)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
