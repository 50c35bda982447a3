package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberia/internal/config"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/usecase/chat"
	"github.com/BruksfildServices01/barberia/internal/usecase/payment"
	"github.com/BruksfildServices01/barberia/internal/whatsapp"
)

const maxWebhookBody = 1 << 20

// WebhookHandler recebe as chamadas da Meta (WhatsApp Cloud API) e do
// MercadoPago. Não há sessão: o tenant sai do próprio payload.
type WebhookHandler struct {
	cfg      config.WhatsAppConfig
	chat     *chat.HandleWebhook
	payments *payment.HandleNotification
	log      *zap.Logger
}

func NewWebhookHandler(
	cfg config.WhatsAppConfig,
	chatUC *chat.HandleWebhook,
	paymentsUC *payment.HandleNotification,
	log *zap.Logger,
) *WebhookHandler {
	return &WebhookHandler{cfg: cfg, chat: chatUC, payments: paymentsUC, log: log}
}

// ======================================================
// WHATSAPP
// ======================================================

// VerifyWhatsApp responde ao handshake de assinatura do webhook.
func (h *WebhookHandler) VerifyWhatsApp(c *gin.Context) {
	if c.Query("hub.mode") != "subscribe" ||
		h.cfg.VerifyToken == "" ||
		c.Query("hub.verify_token") != h.cfg.VerifyToken {
		httperr.Forbidden(c, "invalid_verify_token", "Token de verificación inválido.")
		return
	}

	c.String(http.StatusOK, c.Query("hub.challenge"))
}

func (h *WebhookHandler) WhatsApp(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Cuerpo inválido.")
		return
	}

	if !whatsapp.VerifySignature(h.cfg.AppSecret, body, c.GetHeader("X-Hub-Signature-256")) {
		httperr.Unauthorized(c, "invalid_signature", "Firma inválida.")
		return
	}

	msgs, statuses, err := whatsapp.Parse(body)
	if err != nil {
		httperr.BadRequest(c, "invalid_payload", "Payload inválido.")
		return
	}

	if err := h.chat.Execute(c.Request.Context(), msgs, statuses); err != nil {
		// 5xx faz a Meta reenviar; a inserção é idempotente por wa_message_id
		h.log.Error("whatsapp webhook failed", zap.Error(err))
		httperr.Internal(c, "webhook_failed", "Error interno.")
		return
	}

	c.Status(http.StatusOK)
}

// ======================================================
// MERCADOPAGO
// ======================================================

type mpNotification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// MercadoPago aceita tanto ?type=payment&data.id= quanto o corpo JSON.
func (h *WebhookHandler) MercadoPago(c *gin.Context) {
	kind := c.Query("type")
	if kind == "" {
		kind = c.Query("topic")
	}
	paymentID := c.Query("data.id")
	if paymentID == "" {
		paymentID = c.Query("id")
	}

	if paymentID == "" {
		var n mpNotification
		body, _ := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if len(body) > 0 && json.Unmarshal(body, &n) == nil {
			if kind == "" {
				kind = n.Type
			}
			paymentID = n.Data.ID
		}
	}

	if kind != "payment" || paymentID == "" {
		c.Status(http.StatusOK)
		return
	}

	if err := h.payments.Execute(c.Request.Context(), paymentID); err != nil {
		if httperr.IsBusiness(err, "payments_not_configured") {
			c.Status(http.StatusOK)
			return
		}
		h.log.Error("mercadopago webhook failed", zap.String("payment_id", paymentID), zap.Error(err))
		httperr.Internal(c, "webhook_failed", "Error interno.")
		return
	}

	c.Status(http.StatusOK)
}
