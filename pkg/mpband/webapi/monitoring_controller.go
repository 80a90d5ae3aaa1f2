package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/orcrobert/mpp/pkg/mpband/monitor"
	"github.com/orcrobert/mpp/pkg/mpdb/stor"
)

type MonitoringController struct {
	monitoredUserStor stor.MonitoredUserStor
	activityMonitor   *monitor.ActivityMonitor
}

func NewMonitoringController(monitoredUserStor stor.MonitoredUserStor, activityMonitor *monitor.ActivityMonitor) *MonitoringController {
	return &MonitoringController{
		monitoredUserStor: monitoredUserStor,
		activityMonitor:   activityMonitor,
	}
}

func (c *MonitoringController) ListMonitoredUsers(ctx echo.Context) error {
	monitored, err := c.monitoredUserStor.ListMonitoredUsers()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch monitored users")
	}

	return ctx.JSON(http.StatusOK, monitored)
}

// StartMonitoring runs an immediate activity check across all users. The
// periodic monitor runs regardless; this lets an admin force a pass.
func (c *MonitoringController) StartMonitoring(ctx echo.Context) error {
	c.activityMonitor.CheckAllUsers()
	return ctx.JSON(http.StatusOK, map[string]string{"status": "check complete"})
}
