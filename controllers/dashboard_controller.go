package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tna-tracker-api/models"
)

const recentActivityLimit = 10

// DashboardStats are the headline numbers of the dashboard
type DashboardStats struct {
	TotalUsers     int64 `json:"totalUsers"`
	ActiveTNAs     int64 `json:"activeTNAs"`
	OverdueTasks   int   `json:"overdueTasks"`
	OnTimeDelivery int   `json:"onTimeDelivery"`
}

// GetDashboardStats handles GET /api/v1/dashboard/stats. TNA numbers follow
// the caller's visibility; overdue and on-time use the summary card buckets.
func (ctl *Controller) GetDashboardStats(c *gin.Context) {
	var stats DashboardStats
	scope := callerScope(c)

	if err := ctl.conn(c).Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		ctl.respondError(c, err)
		return
	}

	q := scope.Apply(ctl.conn(c).Model(&models.TNA{}), "created_by_id")
	if err := q.Where("status = ?", models.TNAStatusActive).Count(&stats.ActiveTNAs).Error; err != nil {
		ctl.respondError(c, err)
		return
	}

	counts, err := ctl.summary.Card(c.Request.Context(), scope)
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	stats.OverdueTasks = counts.Overdue
	if counts.Total > 0 {
		stats.OnTimeDelivery = (counts.Completed*100 + counts.Total/2) / counts.Total
	}

	c.JSON(http.StatusOK, stats)
}

// GetRecentActivities handles GET /api/v1/dashboard/recent-activities
func (ctl *Controller) GetRecentActivities(c *gin.Context) {
	logs, err := ctl.audit.Recent(c.Request.Context(), recentActivityLimit)
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": logs})
}
