package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipebox_redis_errors_total",
		Help: "Total number of Redis command errors",
	}, []string{"command"})

	// IntegrityRejections counts requests rejected by the domain integrity rules.
	IntegrityRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipebox_integrity_rejections_total",
		Help: "Requests rejected by ownership, reference or state checks",
	}, []string{"code", "reason"})

	// ActiveWebSockets tracks open activity sockets.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "recipebox_websocket_connections",
		Help: "Number of open activity WebSocket connections",
	})

	// WebSocketBackpressureDrops counts outbound messages dropped per hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipebox_websocket_backpressure_drops_total",
		Help: "Outbound WebSocket messages dropped because the client could not keep up",
	}, []string{"hub", "reason"})
)

var (
	promOnce sync.Once
	promInst *fiberprometheus.FiberPrometheus
)

// InitMetrics builds the HTTP metrics collector. Collectors register on the
// default registry, so every call after the first returns the same instance.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInst = fiberprometheus.New(serviceName)
	})
	return promInst
}

// MetricsMiddleware records per-route HTTP metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
