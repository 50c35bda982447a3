package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberia/internal/config"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/usecase"
	"github.com/BruksfildServices01/barberia/internal/usecase/payment"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httperr.HTTPError {
	t.Helper()
	var out httperr.HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func newWebhookRouter() *gin.Engine {
	h := NewWebhookHandler(
		config.WhatsAppConfig{AppSecret: "app-secret", VerifyToken: "verify-me"},
		nil,
		payment.NewHandleNotification(nil, nil, usecase.Hooks{}, zap.NewNop()),
		zap.NewNop(),
	)

	r := gin.New()
	r.GET("/webhooks/whatsapp", h.VerifyWhatsApp)
	r.POST("/webhooks/whatsapp", h.WhatsApp)
	r.POST("/webhooks/mercadopago", h.MercadoPago)
	return r
}

// ======================================================
// WEBHOOKS
// ======================================================

func TestVerifyWhatsApp(t *testing.T) {
	r := newWebhookRouter()

	cases := []struct {
		name   string
		query  string
		status int
		body   string
	}{
		{"ok", "hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=12345", http.StatusOK, "12345"},
		{"wrong token", "hub.mode=subscribe&hub.verify_token=nope&hub.challenge=12345", http.StatusForbidden, ""},
		{"wrong mode", "hub.mode=unsubscribe&hub.verify_token=verify-me&hub.challenge=1", http.StatusForbidden, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/webhooks/whatsapp?"+tc.query, nil))

			assert.Equal(t, tc.status, w.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, w.Body.String())
			}
		})
	}
}

func TestWhatsAppWebhookRejectsBadSignature(t *testing.T) {
	r := newWebhookRouter()
	body := `{"entry":[]}`

	req := httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", strings.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", sign("other-secret", []byte(body)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_signature", decodeError(t, w).Code)
}

func TestWhatsAppWebhookRejectsBrokenPayload(t *testing.T) {
	r := newWebhookRouter()
	body := `{"entry":`

	req := httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", strings.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", sign("app-secret", []byte(body)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_payload", decodeError(t, w).Code)
}

func TestMercadoPagoWebhook(t *testing.T) {
	r := newWebhookRouter()

	t.Run("ignores other topics", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhooks/mercadopago?type=merchant_order&data.id=9", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("acks when payments are off", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhooks/mercadopago",
			strings.NewReader(`{"type":"payment","data":{"id":"123"}}`))
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

// ======================================================
// HELPERS
// ======================================================

func TestOptionalUint(t *testing.T) {
	cases := []struct {
		query string
		ok    bool
		want  *uint
	}{
		{"", true, nil},
		{"branch_id=4", true, uintPtr(4)},
		{"branch_id=0", false, nil},
		{"branch_id=abc", false, nil},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)

		got, ok := optionalUint(c, "branch_id")
		assert.Equal(t, tc.ok, ok, tc.query)
		assert.Equal(t, tc.want, got, tc.query)
		if !ok {
			assert.Equal(t, "invalid_branch_id", decodeError(t, w).Code)
		}
	}
}

func TestParamID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "x1"}}

	_, ok := paramID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, ok := paramID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
}

func TestUpdateBarbershopRequestValidate(t *testing.T) {
	intp := func(v int) *int { return &v }
	strp := func(v string) *string { return &v }

	cases := []struct {
		name string
		req  UpdateBarbershopRequest
		code string
	}{
		{"empty patch", UpdateBarbershopRequest{}, ""},
		{"blank name", UpdateBarbershopRequest{Name: strp("  ")}, "invalid_name"},
		{"bad timezone", UpdateBarbershopRequest{Timezone: strp("Mars/Base")}, "invalid_timezone"},
		{"negative advance", UpdateBarbershopRequest{MinAdvanceMinutes: intp(-1)}, "invalid_min_advance"},
		{"interval off", UpdateBarbershopRequest{SlotIntervalMinutes: intp(0)}, ""},
		{"interval too small", UpdateBarbershopRequest{SlotIntervalMinutes: intp(3)}, "invalid_slot_interval"},
		{"interval too big", UpdateBarbershopRequest{SlotIntervalMinutes: intp(300)}, "invalid_slot_interval"},
		{"valid", UpdateBarbershopRequest{
			Name:                strp("Barbería Centro"),
			Timezone:            strp("America/Argentina/Buenos_Aires"),
			SlotIntervalMinutes: intp(15),
		}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := tc.req.validate()
			assert.Equal(t, tc.code, code)
		})
	}
}
