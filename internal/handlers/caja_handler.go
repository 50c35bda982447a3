package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barberia/internal/domain/caja"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/httpresp"
	"github.com/BruksfildServices01/barberia/internal/usecase/caja"
)

// ======================================================
// HANDLER
// ======================================================

type CajaHandler struct {
	register *caja.RegisterMovement
	void     *caja.VoidMovement
	list     *caja.ListMovements
	summary  *caja.GetSummary
	close    *caja.CloseCaja
	closings *caja.ListClosings
}

type CajaUseCases struct {
	Register *caja.RegisterMovement
	Void     *caja.VoidMovement
	List     *caja.ListMovements
	Summary  *caja.GetSummary
	Close    *caja.CloseCaja
	Closings *caja.ListClosings
}

func NewCajaHandler(uc CajaUseCases) *CajaHandler {
	return &CajaHandler{
		register: uc.Register,
		void:     uc.Void,
		list:     uc.List,
		summary:  uc.Summary,
		close:    uc.Close,
		closings: uc.Closings,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type RegisterMovementRequest struct {
	Type          string     `json:"type" binding:"required"`
	Category      string     `json:"category"`
	Method        string     `json:"method"`
	AmountCents   int64      `json:"amount_cents" binding:"required"`
	Description   string     `json:"description"`
	BranchID      *uint      `json:"branch_id"`
	BarberID      *uint      `json:"barber_id"`
	AppointmentID *uint      `json:"appointment_id"`
	OccurredAt    *time.Time `json:"occurred_at"`
}

type VoidMovementRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type CloseCajaRequest struct {
	BranchID         uint   `json:"branch_id" binding:"required"`
	Date             string `json:"date" binding:"required"`
	OpeningCents     int64  `json:"opening_cents"`
	CountedCashCents int64  `json:"counted_cash_cents"`
	Notes            string `json:"notes"`
}

func cajaQuery(c *gin.Context) (caja.Query, bool) {
	branchID, ok := optionalUint(c, "branch_id")
	if !ok {
		return caja.Query{}, false
	}
	includeVoided, _ := strconv.ParseBool(c.Query("include_voided"))

	return caja.Query{
		BarbershopID:  actorFrom(c).BarbershopID,
		BranchID:      branchID,
		From:          c.Query("from"),
		To:            c.Query("to"),
		Type:          c.Query("type"),
		Method:        c.Query("method"),
		IncludeVoided: includeVoided,
	}, true
}

// ======================================================
// MOVEMENTS
// ======================================================

func (h *CajaHandler) RegisterMovement(c *gin.Context) {
	var req RegisterMovementRequest
	if !bindJSON(c, &req) {
		return
	}

	actor := actorFrom(c)
	m, err := h.register.Execute(c.Request.Context(), caja.RegisterInput{
		BarbershopID:  actor.BarbershopID,
		UserID:        actor.UserID,
		BranchID:      req.BranchID,
		BarberID:      req.BarberID,
		AppointmentID: req.AppointmentID,
		Type:          req.Type,
		Category:      req.Category,
		Method:        req.Method,
		AmountCents:   req.AmountCents,
		Description:   req.Description,
		OccurredAt:    req.OccurredAt,
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_register_movement")
		return
	}

	c.JSON(http.StatusCreated, m)
}

func (h *CajaHandler) ListMovements(c *gin.Context) {
	q, ok := cajaQuery(c)
	if !ok {
		return
	}

	out, err := h.list.Execute(c.Request.Context(), q)
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_movements")
		return
	}

	httpresp.List(c, out)
}

func (h *CajaHandler) VoidMovement(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req VoidMovementRequest
	if !bindJSON(c, &req) {
		return
	}

	actor := actorFrom(c)
	m, err := h.void.Execute(c.Request.Context(), actor.BarbershopID, actor.UserID, id, req.Reason)
	if err != nil {
		httperr.Respond(c, err, "failed_to_void_movement")
		return
	}

	c.JSON(http.StatusOK, m)
}

func (h *CajaHandler) Summary(c *gin.Context) {
	q, ok := cajaQuery(c)
	if !ok {
		return
	}

	out, err := h.summary.Execute(c.Request.Context(), q)
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_summary")
		return
	}

	c.JSON(http.StatusOK, out)
}

// ======================================================
// CIERRE
// ======================================================

func (h *CajaHandler) Close(c *gin.Context) {
	var req CloseCajaRequest
	if !bindJSON(c, &req) {
		return
	}

	actor := actorFrom(c)
	closing, err := h.close.Execute(c.Request.Context(), caja.CloseInput{
		BarbershopID:     actor.BarbershopID,
		UserID:           actor.UserID,
		BranchID:         req.BranchID,
		Date:             req.Date,
		OpeningCents:     req.OpeningCents,
		CountedCashCents: req.CountedCashCents,
		Notes:            req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_close_caja")
		return
	}

	c.JSON(http.StatusCreated, closing)
}

func (h *CajaHandler) ListClosings(c *gin.Context) {
	branchID, ok := optionalUint(c, "branch_id")
	if !ok {
		return
	}

	out, err := h.closings.Execute(c.Request.Context(), domain.ClosingFilter{
		BarbershopID: actorFrom(c).BarbershopID,
		BranchID:     branchID,
		FromDay:      c.Query("from"),
		ToDay:        c.Query("to"),
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_closings")
		return
	}

	httpresp.List(c, out)
}
