package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/docvault/backend/internal/infrastructure/persistence"
	"github.com/docvault/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// PoolStatser reports database connection pool statistics.
type PoolStatser interface {
	Stats() (persistence.ConnectionStats, error)
}

// SystemHandler serves service metadata and operational endpoints.
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	pool      PoolStatser
}

// NewSystemHandler creates a SystemHandler. pool may be nil, in which
// case the stats endpoint reports the pool as unavailable.
func NewSystemHandler(pool PoolStatser) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		pool:      pool,
	}
}

// SystemInfoResponse represents the system information response
// @name HandlerSystemInfoResponse
type SystemInfoResponse struct {
	Name      string `json:"name" example:"DocVault Backend API"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// GetSystemInfo godoc
// @ID           getSystemSystemInfo
// @Summary      Get system information
// @Description  Returns basic system information including version and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Failure      500 {object} ErrorResponse
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "DocVault Backend API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// PingResponse represents the ping response
// @name HandlerPingResponse
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Ping godoc
// @ID           pingSystem
// @Summary      Ping the API
// @Description  Simple ping endpoint to check if the API is responsive
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[PingResponse]
// @Router       /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	response := PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// DBStatsResponse represents connection pool statistics
// @name HandlerDBStatsResponse
type DBStatsResponse struct {
	MaxOpenConnections int   `json:"max_open_connections" example:"25"`
	OpenConnections    int   `json:"open_connections" example:"4"`
	InUse              int   `json:"in_use" example:"1"`
	Idle               int   `json:"idle" example:"3"`
	WaitCount          int64 `json:"wait_count" example:"0"`
	WaitDurationMs     int64 `json:"wait_duration_ms" example:"0"`
}

// GetDBStats godoc
// @ID           getSystemDBStats
// @Summary      Get database pool statistics
// @Description  Returns connection pool statistics for the primary database
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[DBStatsResponse]
// @Failure      503 {object} ErrorResponse
// @Router       /system/db-stats [get]
func (h *SystemHandler) GetDBStats(c *gin.Context) {
	if h.pool == nil {
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeSystemFailure, "Database pool is not available", c.GetString("request_id")))
		return
	}

	stats, err := h.pool.Stats()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeSystemFailure, "Database pool is not available", c.GetString("request_id")))
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(DBStatsResponse{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDurationMs:     stats.WaitDuration.Milliseconds(),
	}))
}
