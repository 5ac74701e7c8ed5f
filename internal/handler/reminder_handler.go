package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prayerly/prayerly-api/internal/model"
	"github.com/prayerly/prayerly-api/internal/service"
	"gorm.io/gorm"
)

// ReminderHandler handles reminder schedule endpoints
type ReminderHandler struct {
	reminderService *service.ReminderService
}

func NewReminderHandler(reminderService *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

// List godoc
// @Summary List the user's reminders
// @Tags Reminders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Reminder
// @Router /reminders [get]
func (h *ReminderHandler) List(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	reminders, err := h.reminderService.List(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to list reminders"})
		return
	}

	c.JSON(http.StatusOK, reminders)
}

// Get godoc
// @Summary Get a single reminder
// @Tags Reminders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reminder ID"
// @Success 200 {object} model.Reminder
// @Failure 404 {object} model.ErrorResponse
// @Router /reminders/{id} [get]
func (h *ReminderHandler) Get(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid reminder ID"})
		return
	}

	reminder, err := h.reminderService.Get(id, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Reminder not found"})
		return
	}

	c.JSON(http.StatusOK, reminder)
}

// Update godoc
// @Summary Update a reminder's schedule, channels, or active state
// @Tags Reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reminder ID"
// @Param body body model.UpdateReminderRequest true "Update reminder request"
// @Success 200 {object} model.Reminder
// @Failure 404 {object} model.ErrorResponse
// @Router /reminders/{id} [put]
func (h *ReminderHandler) Update(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid reminder ID"})
		return
	}

	var req model.UpdateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	reminder, err := h.reminderService.Update(id, userID, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Reminder not found"})
			return
		}
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, reminder)
}

// Delete godoc
// @Summary Delete a reminder
// @Tags Reminders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reminder ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /reminders/{id} [delete]
func (h *ReminderHandler) Delete(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid reminder ID"})
		return
	}

	if err := h.reminderService.Delete(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Reminder not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to delete reminder"})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Reminder deleted"})
}

// Logs godoc
// @Summary Get delivery history for a reminder
// @Tags Reminders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reminder ID"
// @Param limit query int false "Max rows (default 50)"
// @Success 200 {array} model.ReminderLog
// @Failure 404 {object} model.ErrorResponse
// @Router /reminders/{id}/logs [get]
func (h *ReminderHandler) Logs(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid reminder ID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, err := h.reminderService.Logs(id, userID, limit)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Reminder not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to load logs"})
		return
	}

	c.JSON(http.StatusOK, logs)
}
