package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-gin-ticket-scanner/internal/handler"
	"go-gin-ticket-scanner/internal/model"
	"go-gin-ticket-scanner/internal/service/mocks"
	apperrors "go-gin-ticket-scanner/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupCheckInTestRouter(mockService *mocks.MockCheckInService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handler.RequestLogger())
	handler.NewCheckInHandler(mockService).RegisterRoutes(router)
	return router
}

func TestListCheckIns(t *testing.T) {
	t.Run("Success - DefaultLimit", func(t *testing.T) {
		mockService := mocks.NewMockCheckInService(t)
		router := setupCheckInTestRouter(mockService)

		mockService.EXPECT().List(mock.Anything, 50).Return([]*model.CheckIn{
			{ID: 1, TicketID: "A1", IsValid: true},
		}, nil).Once()

		req := httptest.NewRequest("GET", "/api/v1/checkins", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Success - CustomLimit", func(t *testing.T) {
		mockService := mocks.NewMockCheckInService(t)
		router := setupCheckInTestRouter(mockService)

		mockService.EXPECT().List(mock.Anything, 5).Return([]*model.CheckIn{}, nil).Once()

		req := httptest.NewRequest("GET", "/api/v1/checkins?limit=5", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("Failed - BadLimit", func(t *testing.T) {
		mockService := mocks.NewMockCheckInService(t)
		router := setupCheckInTestRouter(mockService)

		req := httptest.NewRequest("GET", "/api/v1/checkins?limit=-3", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "List")
	})

	t.Run("Failed - InternalServerError", func(t *testing.T) {
		mockService := mocks.NewMockCheckInService(t)
		router := setupCheckInTestRouter(mockService)

		mockService.EXPECT().List(mock.Anything, 50).Return(nil, apperrors.ErrInternalServerError).Once()

		req := httptest.NewRequest("GET", "/api/v1/checkins", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
