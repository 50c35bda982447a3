package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberia/internal/audit"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/middleware"
	"github.com/BruksfildServices01/barberia/internal/models"
	"github.com/BruksfildServices01/barberia/internal/timezone"
)

type BarbershopHandler struct {
	db    *gorm.DB
	audit audit.Recorder
}

func NewBarbershopHandler(db *gorm.DB, rec audit.Recorder) *BarbershopHandler {
	return &BarbershopHandler{db: db, audit: rec}
}

type UpdateBarbershopRequest struct {
	Name                  *string `json:"name"`
	Phone                 *string `json:"phone"`
	Address               *string `json:"address"`
	Timezone              *string `json:"timezone"`
	MinAdvanceMinutes     *int    `json:"min_advance_minutes"`
	SlotIntervalMinutes   *int    `json:"slot_interval_minutes"`
	WhatsAppPhoneNumberID *string `json:"whatsapp_phone_number_id"`
}

// validate devolve o primeiro código de erro encontrado.
func (r UpdateBarbershopRequest) validate() (code, message string) {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return "invalid_name", "El nombre no puede estar vacío."
	}
	if r.Timezone != nil && !timezone.IsValid(*r.Timezone) {
		return "invalid_timezone", "Zona horaria inválida."
	}
	if r.MinAdvanceMinutes != nil && *r.MinAdvanceMinutes < 0 {
		return "invalid_min_advance", "La anticipación mínima debe ser cero o positiva (en minutos)."
	}
	if r.SlotIntervalMinutes != nil {
		v := *r.SlotIntervalMinutes
		if v != 0 && (v < 5 || v > 240) {
			return "invalid_slot_interval", "El intervalo debe ser 0 o estar entre 5 y 240 minutos."
		}
	}
	return "", ""
}

func (r UpdateBarbershopRequest) apply(shop *models.Barbershop) {
	if r.Name != nil {
		shop.Name = strings.TrimSpace(*r.Name)
	}
	if r.Phone != nil {
		shop.Phone = *r.Phone
	}
	if r.Address != nil {
		shop.Address = *r.Address
	}
	if r.Timezone != nil {
		shop.Timezone = *r.Timezone
	}
	if r.MinAdvanceMinutes != nil {
		shop.MinAdvanceMinutes = *r.MinAdvanceMinutes
	}
	if r.SlotIntervalMinutes != nil {
		shop.SlotIntervalMinutes = *r.SlotIntervalMinutes
	}
	if r.WhatsAppPhoneNumberID != nil {
		shop.WhatsAppPhoneNumberID = strings.TrimSpace(*r.WhatsAppPhoneNumberID)
	}
}

func (h *BarbershopHandler) load(c *gin.Context) (*models.Barbershop, bool) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var shop models.Barbershop
	if err := h.db.WithContext(c.Request.Context()).First(&shop, barbershopID).Error; err != nil {
		if isNotFound(err) {
			httperr.NotFound(c, "barbershop_not_found", "Barbería no encontrada.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_barbershop", "Error al buscar la barbería.")
		return nil, false
	}
	return &shop, true
}

func (h *BarbershopHandler) GetMeBarbershop(c *gin.Context) {
	shop, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, shop)
}

func (h *BarbershopHandler) UpdateMeBarbershop(c *gin.Context) {
	shop, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateBarbershopRequest
	if !bindJSON(c, &req) {
		return
	}

	if code, msg := req.validate(); code != "" {
		httperr.BadRequest(c, code, msg)
		return
	}

	req.apply(shop)

	if err := h.db.WithContext(c.Request.Context()).Save(shop).Error; err != nil {
		httperr.Internal(c, "failed_to_update_barbershop", "Error al guardar la configuración.")
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uint)
	recordAudit(h.audit, shop.ID, &userID, "barbershop_updated", "barbershop", &shop.ID, req)

	c.JSON(http.StatusOK, shop)
}
