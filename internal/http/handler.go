package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/fleet-reports/internal/http/middleware"
	"github.com/nurpe/fleet-reports/internal/model"
	"github.com/nurpe/fleet-reports/internal/service"
)

type Handler struct {
	reports *service.ReportService
	loc     *time.Location
	log     zerolog.Logger
}

func NewHandler(reports *service.ReportService, log zerolog.Logger) *Handler {
	return &Handler{reports: reports, loc: reports.Location(), log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/healthz", h.health)

	protected := router.Group("/reports")
	protected.Use(authMiddleware)
	protected.GET("/summary", h.summary)
	protected.POST("/export", h.exportExcel)
	protected.POST("/export/pdf", h.exportPDF)
}

type reportRequest struct {
	Preset    string `json:"preset" form:"preset"`
	From      string `json:"from" form:"from"`
	To        string `json:"to" form:"to"`
	Interval  string `json:"interval" form:"interval"`
	VehicleID string `json:"vehicle_id" form:"vehicle_id"`
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) summary(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req reportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := h.buildInput(principal, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	result, err := h.reports.Summary(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) exportExcel(c *gin.Context) {
	h.export(c, h.reports.ExportExcel, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

func (h *Handler) exportPDF(c *gin.Context) {
	h.export(c, h.reports.ExportPDF, "application/pdf")
}

type exportFunc func(ctx context.Context, input service.SummaryInput) (*service.ExportResult, error)

func (h *Handler) export(c *gin.Context, run exportFunc, contentType string) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := h.buildInput(principal, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	result, err := run(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}

func (h *Handler) buildInput(principal model.Principal, req reportRequest) (service.SummaryInput, error) {
	input := service.SummaryInput{
		Principal: principal,
		Preset:    strings.TrimSpace(req.Preset),
	}

	if raw := strings.TrimSpace(req.From); raw != "" {
		from, err := parseDate(raw, h.loc, false)
		if err != nil {
			return input, fmt.Errorf("%w: invalid from", service.ErrInvalidInput)
		}
		input.From = &from
	}
	if raw := strings.TrimSpace(req.To); raw != "" {
		to, err := parseDate(raw, h.loc, true)
		if err != nil {
			return input, fmt.Errorf("%w: invalid to", service.ErrInvalidInput)
		}
		input.To = &to
	}

	if raw := strings.TrimSpace(req.Interval); raw != "" {
		interval := model.Interval(strings.ToLower(raw))
		if !interval.Valid() {
			return input, fmt.Errorf("%w: invalid interval", service.ErrInvalidInput)
		}
		input.Interval = interval
	}

	if raw := strings.TrimSpace(req.VehicleID); raw != "" {
		vehicleID, err := uuid.Parse(raw)
		if err != nil {
			return input, fmt.Errorf("%w: invalid vehicle_id", service.ErrInvalidInput)
		}
		input.VehicleID = &vehicleID
	}
	return input, nil
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrScopeResolution):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrConfiguration),
		errors.Is(err, service.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("build report failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// parseDate reads a date bound in loc. A bare date used as an upper bound
// means the end of that day.
func parseDate(raw string, loc *time.Location, endOfDay bool) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed.In(loc), nil
	}
	if parsed, err := time.ParseInLocation("2006-01-02T15:04:05", raw, loc); err == nil {
		return parsed, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		return time.Time{}, service.ErrInvalidInput
	}
	if endOfDay {
		return parsed.AddDate(0, 0, 1).Add(-time.Millisecond), nil
	}
	return parsed, nil
}
