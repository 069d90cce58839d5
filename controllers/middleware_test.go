package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := restful.NewContainer()
	c.Filter(RequestLogger(zap.New(core)))

	ws := new(restful.WebService)
	ws.Route(ws.GET("/ping").To(func(_ *restful.Request, resp *restful.Response) {
		resp.WriteHeader(http.StatusTeapot)
	}))
	c.Add(ws)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	c.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "/ping", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status_code"])

	w = httptest.NewRecorder()
	c.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRecoverHandler(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	c := restful.NewContainer()
	c.DoNotRecover(false)
	c.RecoverHandler(RecoverHandler(zap.New(core)))

	ws := new(restful.WebService)
	ws.Route(ws.GET("/boom").To(func(*restful.Request, *restful.Response) {
		panic("boom")
	}))
	c.Add(ws)

	w := httptest.NewRecorder()
	c.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, []string{"An error occurred while processing the request"}, env.Errors)
	assert.Equal(t, 1, logs.FilterMessage("Recovered from panic").Len())
}

func TestHealthController(t *testing.T) {
	var pingErr error
	c := restful.NewContainer()
	ws := new(restful.WebService)
	NewHealthController(func() error { return pingErr }, zap.NewNop()).RegisterRoutes(ws)
	c.Add(ws)

	w := httptest.NewRecorder()
	c.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	pingErr = errors.New("connection refused")
	w = httptest.NewRecorder()
	c.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
