package whatsapp

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"object":"whatsapp_business_account"}`)

	assert.True(t, VerifySignature("s3cret", body, sign("s3cret", body)))
	assert.False(t, VerifySignature("s3cret", body, sign("other", body)))
	assert.False(t, VerifySignature("s3cret", body, "md5=abc"))
	assert.False(t, VerifySignature("s3cret", body, "sha256=zz"))
	assert.False(t, VerifySignature("", body, sign("", body)))
}

const samplePayload = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "WABA",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "metadata": {"display_phone_number": "5491100000000", "phone_number_id": "PN1"},
        "contacts": [{"wa_id": "5491155551234", "profile": {"name": "Juan"}}],
        "messages": [
          {"from": "5491155551234", "id": "wamid.1", "timestamp": "1760000000", "type": "text", "text": {"body": "Hola, turno mañana?"}},
          {"from": "5491155551234", "id": "wamid.2", "timestamp": "1760000010", "type": "sticker"}
        ],
        "statuses": [{"id": "wamid.out", "status": "read", "recipient_id": "5491155551234"}]
      }
    }]
  }]
}`

func TestParse(t *testing.T) {
	msgs, statuses, err := Parse([]byte(samplePayload))
	require.NoError(t, err)

	require.Len(t, msgs, 2)
	assert.Equal(t, "PN1", msgs[0].PhoneNumberID)
	assert.Equal(t, "Juan", msgs[0].ProfileName)
	assert.Equal(t, "Hola, turno mañana?", msgs[0].Body)
	assert.Equal(t, time.Unix(1760000000, 0), msgs[0].SentAt)
	assert.Equal(t, "[sticker]", msgs[1].Body)

	require.Len(t, statuses, 1)
	assert.Equal(t, StatusUpdate{PhoneNumberID: "PN1", WaMessageID: "wamid.out", Status: "read"}, statuses[0])

	_, _, err = Parse([]byte("{"))
	assert.Error(t, err)
}

func TestSendText(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/PN1/messages", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		_, _ = w.Write([]byte(`{"messaging_product":"whatsapp","messages":[{"id":"wamid.OUT"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", time.Second, zap.NewNop())
	id, err := c.SendText(context.Background(), "PN1", "5491155551234", "Te esperamos!")
	require.NoError(t, err)

	assert.Equal(t, "wamid.OUT", id)
	assert.Equal(t, "whatsapp", got.MessagingProduct)
	assert.Equal(t, "Te esperamos!", got.Text.Body)
}

func TestSendTextErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid parameter","code":100}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", time.Second, zap.NewNop())
	_, err := c.SendText(context.Background(), "PN1", "1", "x")
	assert.ErrorIs(t, err, ErrSendFailed)
	assert.Contains(t, err.Error(), "Invalid parameter")

	unconfigured := NewClient(srv.URL, "", time.Second, zap.NewNop())
	_, err = unconfigured.SendText(context.Background(), "PN1", "1", "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
