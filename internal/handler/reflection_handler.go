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

// ReflectionHandler handles journal reflection endpoints
type ReflectionHandler struct {
	reflectionService *service.ReflectionService
}

func NewReflectionHandler(reflectionService *service.ReflectionService) *ReflectionHandler {
	return &ReflectionHandler{reflectionService: reflectionService}
}

// Create godoc
// @Summary Add a reflection to a prayer
// @Tags Reflections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.CreateReflectionRequest true "Create reflection request"
// @Success 201 {object} model.Reflection
// @Failure 400 {object} model.ErrorResponse
// @Router /reflections [post]
func (h *ReflectionHandler) Create(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	var req model.CreateReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	reflection, err := h.reflectionService.Create(userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, reflection)
}

// List godoc
// @Summary List reflections, optionally for one prayer
// @Tags Reflections
// @Produce json
// @Security BearerAuth
// @Param prayer_id query string false "Filter by prayer ID"
// @Success 200 {array} model.Reflection
// @Router /reflections [get]
func (h *ReflectionHandler) List(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var prayerID *uuid.UUID
	if raw := c.Query("prayer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid prayer ID"})
			return
		}
		prayerID = &id
	}

	reflections, err := h.reflectionService.List(userID, prayerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to list reflections"})
		return
	}

	c.JSON(http.StatusOK, reflections)
}

// Update godoc
// @Summary Rewrite a reflection
// @Tags Reflections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reflection ID"
// @Param body body model.UpdateReflectionRequest true "Update reflection request"
// @Success 200 {object} model.Reflection
// @Failure 404 {object} model.ErrorResponse
// @Router /reflections/{id} [put]
func (h *ReflectionHandler) Update(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid reflection ID"})
		return
	}

	var req model.UpdateReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	reflection, err := h.reflectionService.Update(id, userID, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Reflection not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to update reflection"})
		return
	}

	c.JSON(http.StatusOK, reflection)
}

// Delete godoc
// @Summary Delete a reflection
// @Tags Reflections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reflection ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /reflections/{id} [delete]
func (h *ReflectionHandler) Delete(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid reflection ID"})
		return
	}

	if err := h.reflectionService.Delete(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Reflection not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to delete reflection"})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Reflection deleted"})
}
