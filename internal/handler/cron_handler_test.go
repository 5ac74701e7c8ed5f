package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/prayerly/prayerly-api/internal/model"
)

type fakeDispatcher struct {
	runs    int
	summary *model.DispatchSummary
	err     error
}

func (f *fakeDispatcher) Run(ctx context.Context, now time.Time) (*model.DispatchSummary, error) {
	f.runs++
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func cronRequest(t *testing.T, h *CronHandler, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/cron/send-reminders", h.SendReminders)

	req := httptest.NewRequest(http.MethodGet, "/cron/send-reminders", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCronSendRemindersRunsDispatch(t *testing.T) {
	dispatcher := &fakeDispatcher{summary: &model.DispatchSummary{Sent: 2, TotalReminders: 3}}
	h := NewCronHandler(dispatcher, "topsecret")

	w := cronRequest(t, h, "Bearer topsecret")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, dispatcher.runs)
	require.Contains(t, w.Body.String(), `"sent":2`)
}

func TestCronSendRemindersRejectsWrongSecret(t *testing.T) {
	dispatcher := &fakeDispatcher{summary: &model.DispatchSummary{}}
	h := NewCronHandler(dispatcher, "topsecret")

	for _, header := range []string{
		"",
		"Bearer wrong",
		"Basic topsecret",
		"topsecret",
	} {
		w := cronRequest(t, h, header)
		require.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}

	// a rejected request never touches the dispatcher
	require.Equal(t, 0, dispatcher.runs)
}

func TestCronSendRemindersRejectsWhenUnconfigured(t *testing.T) {
	dispatcher := &fakeDispatcher{summary: &model.DispatchSummary{}}
	h := NewCronHandler(dispatcher, "")

	w := cronRequest(t, h, "Bearer ")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, 0, dispatcher.runs)
}

func TestCronSendRemindersReportsDispatchError(t *testing.T) {
	dispatcher := &fakeDispatcher{err: errors.New("database unreachable")}
	h := NewCronHandler(dispatcher, "topsecret")

	w := cronRequest(t, h, "Bearer topsecret")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "Dispatch failed")
}
