package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	appointmentsCreated *prometheus.CounterVec
	appointmentStatus   *prometheus.CounterVec
	cashMovements       *prometheus.CounterVec
	whatsappMessages    *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		appointmentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_created_total",
			Help:      "Appointments created by origin.",
		}, []string{"origin"}),
		appointmentStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_status_changes_total",
			Help:      "Kanban status transitions by target status.",
		}, []string{"status"}),
		cashMovements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cash_movements_total",
			Help:      "Cash register movements by type.",
		}, []string{"type"}),
		whatsappMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "whatsapp_messages_total",
			Help:      "WhatsApp messages by direction.",
		}, []string{"direction"}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.appointmentsCreated,
		m.appointmentStatus,
		m.cashMovements,
		m.whatsappMessages,
	)

	return m
}

// Os métodos aceitam receiver nil para que os casos de uso funcionem com
// métricas desligadas.

func (m *Metrics) AppointmentCreated(origin string) {
	if m == nil {
		return
	}
	m.appointmentsCreated.WithLabelValues(origin).Inc()
}

func (m *Metrics) AppointmentStatusChanged(status string) {
	if m == nil {
		return
	}
	m.appointmentStatus.WithLabelValues(status).Inc()
}

func (m *Metrics) CashMovement(kind string) {
	if m == nil {
		return
	}
	m.cashMovements.WithLabelValues(kind).Inc()
}

func (m *Metrics) WhatsAppMessage(direction string) {
	if m == nil {
		return
	}
	m.whatsappMessages.WithLabelValues(direction).Inc()
}

// Middleware usa a rota registrada (c.FullPath) como label para não explodir
// a cardinalidade com ids.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
