package middleware

import (
	"strconv"
	"time"

	"levelup/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Local API metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "levelup_http_requests_total",
			Help: "Total number of local API requests",
		},
		[]string{"method", "path", "status", "client"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "levelup_http_request_duration_seconds",
			Help:    "Duration of local API requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "levelup_http_active_requests",
			Help: "Current number of active local API requests",
		},
	)

	// Progression service metrics
	RemoteCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "levelup_remote_call_duration_seconds",
			Help:    "Duration of calls to the progression service",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	RemoteCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "levelup_remote_calls_total",
			Help: "Total number of calls to the progression service",
		},
		[]string{"route", "status"}, // status is the HTTP code or "transport"
	)

	// Authentication Metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "levelup_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status", "type"}, // success/failure/invalid, login/register/check
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "levelup_session_active",
			Help: "1 while the engine holds an authenticated session",
		},
	)

	DashboardRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "levelup_dashboard_refreshes_total",
			Help: "Dashboard refreshes by trigger and outcome",
		},
		[]string{"trigger", "outcome"},
	)

	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "levelup_actions_total",
			Help: "User actions by outcome",
		},
		[]string{"action", "outcome"}, // applied, rejected, invalid
	)

	LevelUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "levelup_level_ups_total",
			Help: "Level-ups reported by the progression service",
		},
	)

	NotificationsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "levelup_notifications_active",
			Help: "Notifications currently displayed",
		},
	)

	NotificationsPushed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "levelup_notifications_pushed_total",
			Help: "Notifications pushed by kind",
		},
		[]string{"kind"},
	)

	_ = promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "levelup_host_cpu_percent",
			Help: "Host CPU usage since the previous scrape",
		},
		utils.GetCPUUsage,
	)
)

// MetricsMiddleware handles basic HTTP metrics
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		ActiveRequests.Inc()
		defer ActiveRequests.Dec()

		c.Next()

		HTTPRequestsTotal.WithLabelValues(
			method,
			path,
			strconv.Itoa(c.Writer.Status()),
			c.GetString(ClientDeviceKey),
		).Inc()

		HTTPRequestDuration.WithLabelValues(
			method,
			path,
		).Observe(time.Since(start).Seconds())
	}
}

// Helper functions for tracking specific metrics

// TrackRemoteCall times a progression service call.
func TrackRemoteCall(method, route string) *prometheus.Timer {
	return prometheus.NewTimer(RemoteCallDuration.WithLabelValues(method, route))
}

func CountRemoteCall(route, status string) {
	RemoteCallsTotal.WithLabelValues(route, status).Inc()
}

// TrackAuthAttempt records authentication attempts
func TrackAuthAttempt(status, authType string) {
	AuthAttempts.WithLabelValues(status, authType).Inc()
}

func SetSessionActive(active bool) {
	if active {
		ActiveSessions.Set(1)
		return
	}
	ActiveSessions.Set(0)
}

func TrackRefresh(trigger, outcome string) {
	DashboardRefreshes.WithLabelValues(trigger, outcome).Inc()
}

func TrackAction(action, outcome string) {
	ActionsTotal.WithLabelValues(action, outcome).Inc()
}

func TrackLevelUp() {
	LevelUpsTotal.Inc()
}

func TrackNotificationPushed(kind string) {
	NotificationsPushed.WithLabelValues(kind).Inc()
}

func SetActiveNotifications(count int) {
	NotificationsActive.Set(float64(count))
}
