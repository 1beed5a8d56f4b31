package handler

import (
	"errors"
	"go-gin-ticket-scanner/internal/model"
	"go-gin-ticket-scanner/internal/service"
	apperrors "go-gin-ticket-scanner/pkg/app_errors"
	"go-gin-ticket-scanner/pkg/logger"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ScanHandler struct {
	service service.ScanService
}

func NewScanHandler(service service.ScanService) *ScanHandler {
	return &ScanHandler{service: service}
}

func (h *ScanHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("scans", h.Scan)
		router.GET("tickets/:ticketId/qr", h.TicketQR)
	}
}

// Scan 處理掃描器送來的 QR 內容；無效票券仍回 200，由 is_valid 區分
func (h *ScanHandler) Scan(c *gin.Context) {
	var req model.ScanRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	result, err := h.service.Scan(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, "Scan")
		return
	}
	c.JSON(http.StatusOK, result)
}

// TicketQR 重新產生票券 QR 圖片
func (h *ScanHandler) TicketQR(c *gin.Context) {
	ticketID := c.Param("ticketId")
	png, err := h.service.RenderTicketQR(c.Request.Context(), ticketID)
	if err != nil {
		h.handleError(c, err, "TicketQR")
		return
	}
	c.Header("Content-Length", strconv.Itoa(len(png)))
	c.Data(http.StatusOK, "image/png", png)
}

func (h *ScanHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrScanSuppressed):
		log.Debug("Scan suppressed")
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Scan suppressed, result still on display"})
	case errors.Is(err, apperrors.ErrTicketNotFound):
		log.Warn("Ticket not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
