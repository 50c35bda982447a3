package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("barberia")

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/me/appointments/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/api/me/appointments/1", "/api/me/appointments/2", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/me/appointments/:id", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestDomainCountersAndNilReceiver(t *testing.T) {
	m := New("barberia")
	m.AppointmentCreated("public")
	m.CashMovement("income")
	m.CashMovement("income")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.appointmentsCreated.WithLabelValues("public")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cashMovements.WithLabelValues("income")))

	var off *Metrics
	assert.NotPanics(t, func() {
		off.AppointmentCreated("private")
		off.WhatsAppMessage("in")
	})
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New("barberia")
	m.WhatsAppMessage("out")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `barberia_whatsapp_messages_total{direction="out"} 1`)
}
