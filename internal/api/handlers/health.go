package handlers

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/aqall/publisher/internal/api/models"
)

const healthMessage = "Aqall Backend API is running"

// Health godoc
// @Summary Health check
// @Description Liveness only; does not touch the registrar or the database
// @Tags system
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Success:   true,
		Message:   healthMessage,
		Timestamp: h.now().UTC(),
	})
}

// Stats godoc
// @Summary Server statistics
// @Description Returns runtime and process statistics, database state and the registrar configuration state
// @Tags system
// @Produce json
// @Success 200 {object} models.ServerStatsResponse
// @Security ApiKeyAuth
// @Router /api/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.startTime)

	resp := models.ServerStatsResponse{
		Success:       true,
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: int64(uptime.Seconds()),
		StartTime:     h.startTime,
		GoRoutines:    runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		MemoryAllocMB: float64(m.Alloc) / 1024 / 1024,
	}

	ctx := c.Request.Context()
	if p, err := process.NewProcessWithContext(ctx, int32(os.Getpid())); err == nil {
		if info, err := p.MemoryInfoWithContext(ctx); err == nil {
			resp.ProcessRSSMB = float64(info.RSS) / 1024 / 1024
		}
		if pct, err := p.CPUPercentWithContext(ctx); err == nil {
			resp.ProcessCPUPercent = pct
		}
	} else {
		h.logger.Debug("process stats unavailable", "err", err)
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		resp.SystemMemoryUsed = vm.UsedPercent
	}

	if h.registrar != nil {
		resp.Registrar = models.RegistrarStatus{
			Provider:   h.registrar.Provider(),
			Zone:       h.registrar.Zone(),
			Configured: h.registrar.Configured(),
		}
	}

	if h.db != nil {
		resp.Database = h.databaseStatus()
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) databaseStatus() models.DatabaseStatus {
	var status models.DatabaseStatus
	if h.cfg != nil {
		status.Path = h.cfg.Database.Path
	}
	if err := h.db.Health(); err != nil {
		status.Error = err.Error()
		return status
	}
	version, err := h.db.SchemaVersion()
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Healthy = true
	status.SchemaVersion = version
	return status
}
