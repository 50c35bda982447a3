package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barberia/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia/internal/dto"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/httpresp"
	"github.com/BruksfildServices01/barberia/internal/timezone"
	"github.com/BruksfildServices01/barberia/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	repo domain.Repository

	create       *appointment.CreatePrivateAppointment
	changeStatus *appointment.ChangeStatus
	complete     *appointment.CompleteAppointment
	cancel       *appointment.CancelAppointment
	reschedule   *appointment.RescheduleAppointment
	listByDate   *appointment.ListAppointmentsByDate
	listByMonth  *appointment.ListAppointmentsByMonth
	calendar     *appointment.GetCalendar
	kanban       *appointment.GetKanban
	availability *appointment.GetAvailability
}

type AppointmentUseCases struct {
	Create       *appointment.CreatePrivateAppointment
	ChangeStatus *appointment.ChangeStatus
	Complete     *appointment.CompleteAppointment
	Cancel       *appointment.CancelAppointment
	Reschedule   *appointment.RescheduleAppointment
	ListByDate   *appointment.ListAppointmentsByDate
	ListByMonth  *appointment.ListAppointmentsByMonth
	Calendar     *appointment.GetCalendar
	Kanban       *appointment.GetKanban
	Availability *appointment.GetAvailability
}

func NewAppointmentHandler(repo domain.Repository, uc AppointmentUseCases) *AppointmentHandler {
	return &AppointmentHandler{
		repo:         repo,
		create:       uc.Create,
		changeStatus: uc.ChangeStatus,
		complete:     uc.Complete,
		cancel:       uc.Cancel,
		reschedule:   uc.Reschedule,
		listByDate:   uc.ListByDate,
		listByMonth:  uc.ListByMonth,
		calendar:     uc.Calendar,
		kanban:       uc.Kanban,
		availability: uc.Availability,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	BarberID    *uint  `json:"barber_id"`
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Notes       string `json:"notes"`
}

type ChangeStatusRequest struct {
	Status        string `json:"status" binding:"required"`
	PaymentMethod string `json:"payment_method"`
	AmountCents   *int64 `json:"amount_cents"`
	Reason        string `json:"reason"`
}

type CompleteRequest struct {
	PaymentMethod string `json:"payment_method"`
	AmountCents   *int64 `json:"amount_cents"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type RescheduleRequest struct {
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	BarberID *uint  `json:"barber_id"`
}

// bindOptionalJSON aceita corpo vazio (atalhos /cancel e /complete).
func bindOptionalJSON(c *gin.Context, req any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return bindJSON(c, req)
}

func listQuery(c *gin.Context) (appointment.ListQuery, bool) {
	barberID, ok := optionalUint(c, "barber_id")
	if !ok {
		return appointment.ListQuery{}, false
	}
	branchID, ok := optionalUint(c, "branch_id")
	if !ok {
		return appointment.ListQuery{}, false
	}
	return appointment.ListQuery{
		Actor:    actorFrom(c),
		BarberID: barberID,
		BranchID: branchID,
	}, true
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreatePrivateAppointmentInput{
		Actor:    actorFrom(c),
		BarberID: req.BarberID,
		Client: appointment.ClientInput{
			Name:  req.ClientName,
			Phone: req.ClientPhone,
			Email: req.ClientEmail,
		},
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Time:      req.Time,
		Notes:     req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_create_appointment")
		return
	}

	c.JSON(http.StatusCreated, dto.NewAppointmentList(*ap))
}

// ======================================================
// LIST / CALENDAR / KANBAN
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "La fecha es obligatoria.")
		return
	}

	out, err := h.listByDate.Execute(c.Request.Context(), q, dateStr)
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_appointments")
		return
	}

	httpresp.List(c, out)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}

	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil {
		httperr.Respond(c, httperr.ErrBusiness("invalid_month"), "invalid_month")
		return
	}

	out, err := h.listByMonth.Execute(c.Request.Context(), q, year, month)
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_appointments")
		return
	}

	httpresp.List(c, out)
}

func (h *AppointmentHandler) Calendar(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}

	out, err := h.calendar.Execute(c.Request.Context(), q, c.Query("from"), c.Query("to"))
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_calendar")
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *AppointmentHandler) Kanban(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}

	out, err := h.kanban.Execute(c.Request.Context(), q, c.Query("date"))
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_kanban")
		return
	}

	c.JSON(http.StatusOK, out)
}

// ======================================================
// STATUS (kanban) + atalhos
// ======================================================

func (h *AppointmentHandler) ChangeStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.changeStatus.Execute(c.Request.Context(), appointment.ChangeStatusInput{
		Actor:         actorFrom(c),
		AppointmentID: id,
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
		AmountCents:   req.AmountCents,
		Reason:        req.Reason,
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_change_status")
		return
	}

	c.JSON(http.StatusOK, dto.NewAppointmentList(*ap))
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CompleteRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), actorFrom(c), id, req.PaymentMethod, req.AmountCents)
	if err != nil {
		httperr.Respond(c, err, "failed_to_complete_appointment")
		return
	}

	c.JSON(http.StatusOK, dto.NewAppointmentList(*ap))
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CancelRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), actorFrom(c), id, req.Reason)
	if err != nil {
		httperr.Respond(c, err, "failed_to_cancel_appointment")
		return
	}

	c.JSON(http.StatusOK, dto.NewAppointmentList(*ap))
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req RescheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), appointment.RescheduleInput{
		Actor:         actorFrom(c),
		AppointmentID: id,
		Date:          req.Date,
		Time:          req.Time,
		BarberID:      req.BarberID,
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_reschedule_appointment")
		return
	}

	c.JSON(http.StatusOK, dto.NewAppointmentList(*ap))
}

// ======================================================
// AVAILABILITY (agenda interna, sem antecedência mínima)
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	actor := actorFrom(c)

	barberID, ok := optionalUint(c, "barber_id")
	if !ok {
		return
	}
	serviceID, ok := optionalUint(c, "service_id")
	if !ok {
		return
	}
	if serviceID == nil {
		httperr.BadRequest(c, "missing_params", "Fecha y servicio son obligatorios.")
		return
	}

	shop, err := h.repo.GetBarbershopByID(c.Request.Context(), actor.BarbershopID)
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_barbershop")
		return
	}

	day, err := timezone.ParseDate(shop.Timezone, c.Query("date"))
	if err != nil {
		httperr.Respond(c, httperr.ErrBusiness("invalid_date"), "invalid_date")
		return
	}

	in := domain.AvailabilityInput{ServiceID: *serviceID, Date: day}
	if scoped := actor.ScopeBarber(barberID); scoped != nil {
		in.BarberID = *scoped
	}

	slots, err := h.availability.Execute(c.Request.Context(), shop, in, false)
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_availability")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  c.Query("date"),
		"slots": slots,
	})
}
