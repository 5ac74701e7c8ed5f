package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prayerly/prayerly-api/internal/model"
	"github.com/prayerly/prayerly-api/internal/service"
	"gorm.io/gorm"
)

// PushHandler handles push device subscription endpoints
type PushHandler struct {
	pushService *service.PushService
}

func NewPushHandler(pushService *service.PushService) *PushHandler {
	return &PushHandler{pushService: pushService}
}

// Subscribe godoc
// @Summary Register this device for push notifications
// @Tags Push
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.PushSubscribeRequest true "Subscribe request"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /push/subscribe [post]
func (h *PushHandler) Subscribe(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	var req model.PushSubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	if err := h.pushService.Subscribe(userID, req); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Device registered for push notifications"})
}

// Unsubscribe godoc
// @Summary Unregister this device from push notifications
// @Tags Push
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.PushUnsubscribeRequest true "Unsubscribe request"
// @Success 200 {object} model.SuccessResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /push/unsubscribe [post]
func (h *PushHandler) Unsubscribe(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	var req model.PushUnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	if err := h.pushService.Unsubscribe(userID, req); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Device not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to unsubscribe device"})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Device unsubscribed"})
}

// Status godoc
// @Summary Check push subscription status
// @Tags Push
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.PushStatusResponse
// @Router /push/status [get]
func (h *PushHandler) Status(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	status, err := h.pushService.Status(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to load push status"})
		return
	}

	c.JSON(http.StatusOK, status)
}
