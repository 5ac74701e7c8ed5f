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

// PrayerHandler handles prayer journal endpoints
type PrayerHandler struct {
	prayerService *service.PrayerService
}

func NewPrayerHandler(prayerService *service.PrayerService) *PrayerHandler {
	return &PrayerHandler{prayerService: prayerService}
}

// Create godoc
// @Summary Submit a new prayer, optionally with a reminder schedule
// @Tags Prayers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.CreatePrayerRequest true "Create prayer request"
// @Success 201 {object} model.CreatePrayerResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /prayers [post]
func (h *PrayerHandler) Create(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	var req model.CreatePrayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	resp, err := h.prayerService.Create(userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary List prayers with optional filters
// @Tags Prayers
// @Produce json
// @Security BearerAuth
// @Param category query string false "Filter by category"
// @Param status query string false "Filter by status" Enums(active, answered, archived)
// @Param search query string false "Search in title and description"
// @Param limit query int false "Page size (max 200)"
// @Param offset query int false "Page offset"
// @Success 200 {array} model.Prayer
// @Router /prayers [get]
func (h *PrayerHandler) List(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	var filter model.PrayerFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid filter", Message: err.Error()})
		return
	}

	prayers, err := h.prayerService.List(userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to list prayers"})
		return
	}

	c.JSON(http.StatusOK, prayers)
}

// Get godoc
// @Summary Get a single prayer
// @Tags Prayers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Prayer ID"
// @Success 200 {object} model.Prayer
// @Failure 404 {object} model.ErrorResponse
// @Router /prayers/{id} [get]
func (h *PrayerHandler) Get(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid prayer ID"})
		return
	}

	prayer, err := h.prayerService.Get(id, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Prayer not found"})
		return
	}

	c.JSON(http.StatusOK, prayer)
}

// Update godoc
// @Summary Update a prayer
// @Tags Prayers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Prayer ID"
// @Param body body model.UpdatePrayerRequest true "Update prayer request"
// @Success 200 {object} model.Prayer
// @Failure 404 {object} model.ErrorResponse
// @Router /prayers/{id} [put]
func (h *PrayerHandler) Update(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid prayer ID"})
		return
	}

	var req model.UpdatePrayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	prayer, err := h.prayerService.Update(id, userID, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Prayer not found"})
			return
		}
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, prayer)
}

// Delete godoc
// @Summary Delete a prayer and its reminders
// @Tags Prayers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Prayer ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /prayers/{id} [delete]
func (h *PrayerHandler) Delete(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid prayer ID"})
		return
	}

	if err := h.prayerService.Delete(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Prayer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to delete prayer"})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Prayer deleted"})
}

// Bulk godoc
// @Summary Archive, unarchive, or delete many prayers at once
// @Tags Prayers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.BulkPrayerRequest true "Bulk action request"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /prayers/bulk [post]
func (h *PrayerHandler) Bulk(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	var req model.BulkPrayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	affected, err := h.prayerService.Bulk(userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{
		Message: "Bulk action applied",
		Data:    gin.H{"affected": affected},
	})
}
