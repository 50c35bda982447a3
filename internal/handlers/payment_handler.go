package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/usecase/payment"
)

type PaymentHandler struct {
	createLink *payment.CreatePaymentLink
}

func NewPaymentHandler(createLink *payment.CreatePaymentLink) *PaymentHandler {
	return &PaymentHandler{createLink: createLink}
}

// CreateLink gera o link de pagamento MercadoPago de um turno pendente.
func (h *PaymentHandler) CreateLink(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	actor := actorFrom(c)
	p, err := h.createLink.Execute(c.Request.Context(), actor.BarbershopID, actor.UserID, id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_create_payment_link")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"payment_id":    p.ID,
		"preference_id": p.PreferenceID,
		"init_point":    p.InitPoint,
		"amount_cents":  p.AmountCents,
		"status":        p.Status,
	})
}
