package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberia/internal/audit"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/middleware"
	"github.com/BruksfildServices01/barberia/internal/models"
	apuc "github.com/BruksfildServices01/barberia/internal/usecase/appointment"
)

// --------------------------------------------------
// Contexto autenticado
// --------------------------------------------------

func actorFrom(c *gin.Context) apuc.Actor {
	return apuc.Actor{
		BarbershopID: c.MustGet(middleware.ContextBarbershopID).(uint),
		UserID:       c.MustGet(middleware.ContextUserID).(uint),
		Role:         c.GetString(middleware.ContextUserRole),
	}
}

func isManager(c *gin.Context) bool {
	role := c.GetString(middleware.ContextUserRole)
	return role == models.RoleOwner || role == models.RoleAdmin
}

// --------------------------------------------------
// Parâmetros
// --------------------------------------------------

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}

// optionalUint lê um id opcional da query; vazio devolve nil.
func optionalUint(c *gin.Context, key string) (*uint, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+key, "Parámetro inválido: "+key+".")
		return nil, false
	}
	id := uint(v)
	return &id, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.HTTPError{
			Code:    "invalid_request",
			Message: "Datos inválidos.",
			Details: err.Error(),
		})
		return false
	}
	return true
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// --------------------------------------------------
// Auditoria de operações feitas direto no handler
// --------------------------------------------------

func recordAudit(
	rec audit.Recorder,
	barbershopID uint,
	userID *uint,
	action string,
	entity string,
	entityID *uint,
	meta any,
) {
	if rec == nil {
		return
	}
	rec.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		UserID:       userID,
		Action:       action,
		Entity:       entity,
		EntityID:     entityID,
		Metadata:     meta,
	})
}

func uintPtr(v uint) *uint {
	return &v
}
