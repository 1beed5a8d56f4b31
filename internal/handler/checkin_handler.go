package handler

import (
	"errors"
	"go-gin-ticket-scanner/internal/service"
	apperrors "go-gin-ticket-scanner/pkg/app_errors"
	"go-gin-ticket-scanner/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckInHandler struct {
	service service.CheckInService
}

func NewCheckInHandler(service service.CheckInService) *CheckInHandler {
	return &CheckInHandler{service: service}
}

func (h *CheckInHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("checkins", h.List)
	}
}

// ListCheckInsQuery 查詢最近的掃描紀錄
type ListCheckInsQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

func (h *CheckInHandler) List(c *gin.Context) {
	var query ListCheckInsQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}
	if query.Limit == 0 {
		query.Limit = 50
	}

	checkIns, err := h.service.List(c.Request.Context(), query.Limit)
	if err != nil {
		log := logger.WithComponent("handler").With(zap.String("operation", "ListCheckIns"), zap.Error(err))
		if errors.Is(err, apperrors.ErrInvalidInput) {
			log.Warn("Invalid input")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, checkIns)
}
