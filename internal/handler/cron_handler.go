package handler

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prayerly/prayerly-api/internal/model"
)

// Dispatcher runs one reminder dispatch tick
type Dispatcher interface {
	Run(ctx context.Context, now time.Time) (*model.DispatchSummary, error)
}

// CronHandler exposes the dispatch tick to an external scheduler. The
// endpoint is guarded by a shared secret instead of a user JWT.
type CronHandler struct {
	dispatcher Dispatcher
	secret     string
}

func NewCronHandler(dispatcher Dispatcher, secret string) *CronHandler {
	return &CronHandler{
		dispatcher: dispatcher,
		secret:     secret,
	}
}

// SendReminders godoc
// @Summary Dispatch all due reminders (scheduler only)
// @Description Claims every due reminder, sends batched email and push notifications, and advances schedules. Authenticated with the cron shared secret, not a user token.
// @Tags Cron
// @Produce json
// @Param Authorization header string true "Bearer <cron secret>"
// @Success 200 {object} model.DispatchSummary
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /cron/send-reminders [get]
func (h *CronHandler) SendReminders(c *gin.Context) {
	if !h.authorized(c.GetHeader("Authorization")) {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Unauthorized"})
		return
	}

	summary, err := h.dispatcher.Run(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Dispatch failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// authorized checks the bearer secret in constant time. A server with no
// secret configured rejects everything rather than running open.
func (h *CronHandler) authorized(header string) bool {
	if h.secret == "" {
		return false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(parts[1]), []byte(h.secret)) == 1
}
