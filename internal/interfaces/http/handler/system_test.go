package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docvault/backend/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPoolStatser struct {
	stats persistence.ConnectionStats
	err   error
}

func (s *stubPoolStatser) Stats() (persistence.ConnectionStats, error) {
	return s.stats, s.err
}

func TestSystemHandler_Ping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewSystemHandler(nil)
	r.GET("/api/v1/system/ping", h.Ping)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/ping", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data PingResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pong", resp.Data.Message)
	assert.NotEmpty(t, resp.Data.Timestamp)
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewSystemHandler(nil)
	r.GET("/api/v1/system/info", h.GetSystemInfo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/info", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data SystemInfoResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "DocVault Backend API", resp.Data.Name)
	assert.NotEmpty(t, resp.Data.GoVersion)
	assert.NotEmpty(t, resp.Data.Uptime)
}

func TestSystemHandler_GetDBStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewSystemHandler(&stubPoolStatser{stats: persistence.ConnectionStats{
		MaxOpenConnections: 25,
		OpenConnections:    4,
		InUse:              1,
		Idle:               3,
	}})
	r.GET("/api/v1/system/db-stats", h.GetDBStats)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/db-stats", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data DBStatsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 25, resp.Data.MaxOpenConnections)
	assert.Equal(t, 4, resp.Data.OpenConnections)
	assert.Equal(t, 1, resp.Data.InUse)
	assert.Equal(t, 3, resp.Data.Idle)
}

func TestSystemHandler_GetDBStats_Unavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := map[string]*SystemHandler{
		"nil pool":    NewSystemHandler(nil),
		"stats error": NewSystemHandler(&stubPoolStatser{err: errors.New("connection lost")}),
	}

	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			r := gin.New()
			r.GET("/api/v1/system/db-stats", h.GetDBStats)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/db-stats", nil))

			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		})
	}
}
