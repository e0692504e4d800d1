package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/tabby/internal/scheduler"
)

// RefreshScheduler is the periodic recommendations refresh.
type RefreshScheduler interface {
	RunNow()
	IsRunning() bool
	IsRefreshing() bool
	LastRun() *scheduler.LastRun
	GetNextRunTime() *time.Time
}

type RefreshController struct {
	scheduler RefreshScheduler
	schedule  string
}

func NewRefreshController(s RefreshScheduler, schedule string) *RefreshController {
	return &RefreshController{scheduler: s, schedule: schedule}
}

type RefreshStatusResponse struct {
	Scheduled   bool               `json:"scheduled"`
	Schedule    string             `json:"schedule"`
	Description string             `json:"description"`
	Refreshing  bool               `json:"refreshing"`
	NextRun     *time.Time         `json:"next_run,omitempty"`
	LastRun     *scheduler.LastRun `json:"last_run,omitempty"`
}

// Status handles GET /api/recommendations/refresh
func (rc *RefreshController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, RefreshStatusResponse{
		Scheduled:   rc.scheduler.IsRunning(),
		Schedule:    rc.schedule,
		Description: scheduler.CronDescription(rc.schedule),
		Refreshing:  rc.scheduler.IsRefreshing(),
		NextRun:     rc.scheduler.GetNextRunTime(),
		LastRun:     rc.scheduler.LastRun(),
	})
}

// RunNow handles POST /api/recommendations/refresh
func (rc *RefreshController) RunNow(c *gin.Context) {
	if rc.scheduler.IsRefreshing() {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "a refresh is already running", Code: "refreshing"})
		return
	}
	rc.scheduler.RunNow()
	respondAccepted(c, "refresh started", nil)
}
