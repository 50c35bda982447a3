package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barberia/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia/internal/dto"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/models"
	"github.com/BruksfildServices01/barberia/internal/timezone"
	"github.com/BruksfildServices01/barberia/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler atende o link de reservas da barbearia (sem login).
type PublicHandler struct {
	db           *gorm.DB
	repo         domain.Repository
	availability *appointment.GetAvailability
	create       *appointment.CreatePublicAppointment
}

func NewPublicHandler(
	db *gorm.DB,
	repo domain.Repository,
	availability *appointment.GetAvailability,
	create *appointment.CreatePublicAppointment,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		repo:         repo,
		availability: availability,
		create:       create,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	BarberID    uint   `json:"barber_id"`
	BranchID    *uint  `json:"branch_id"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:MM
	Notes       string `json:"notes"`
}

func (h *PublicHandler) shop(c *gin.Context) (*models.Barbershop, bool) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))

	shop, err := h.repo.GetBarbershopBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httperr.NotFound(c, "barbershop_not_found", "Barbería no encontrada.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_barbershop", "Error interno.")
		return nil, false
	}
	return shop, true
}

////////////////////////////////////////////////////////
// CATÁLOGO
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	shop, ok := h.shop(c)
	if !ok {
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))

	q := h.db.WithContext(c.Request.Context()).
		Where("barbershop_id = ? AND active = ?", shop.ID, true)
	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Error al listar servicios.")
		return
	}

	out := make([]dto.PublicServiceDTO, 0, len(services))
	for _, s := range services {
		out = append(out, dto.PublicServiceDTO{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			DurationMin: s.DurationMin,
			PriceCents:  s.PriceCents,
			Category:    s.Category,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"barbershop": gin.H{
			"name":     shop.Name,
			"slug":     shop.Slug,
			"phone":    shop.Phone,
			"address":  shop.Address,
			"currency": shop.Currency,
		},
		"services": out,
	})
}

func (h *PublicHandler) ListBranches(c *gin.Context) {
	shop, ok := h.shop(c)
	if !ok {
		return
	}

	var branches []models.Branch
	if err := h.db.WithContext(c.Request.Context()).
		Where("barbershop_id = ? AND active = ?", shop.ID, true).
		Order("id ASC").
		Find(&branches).Error; err != nil {
		httperr.Internal(c, "failed_to_list_branches", "Error al listar sucursales.")
		return
	}

	c.JSON(http.StatusOK, branches)
}

func (h *PublicHandler) ListBarbers(c *gin.Context) {
	shop, ok := h.shop(c)
	if !ok {
		return
	}
	branchID, ok := optionalUint(c, "branch_id")
	if !ok {
		return
	}

	barbers, err := h.repo.ListActiveBarbers(c.Request.Context(), shop.ID, branchID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Error al listar barberos.")
		return
	}

	out := make([]dto.PublicBarberDTO, 0, len(barbers))
	for _, b := range barbers {
		out = append(out, dto.PublicBarberDTO{
			ID:        b.ID,
			Name:      b.Name,
			AvatarURL: b.AvatarURL,
			BranchID:  b.BranchID,
		})
	}

	c.JSON(http.StatusOK, out)
}

////////////////////////////////////////////////////////
// AVAILABILITY (mesmo caso de uso da agenda interna)
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	shop, ok := h.shop(c)
	if !ok {
		return
	}

	serviceID, ok := optionalUint(c, "service_id")
	if !ok {
		return
	}
	barberID, ok := optionalUint(c, "barber_id")
	if !ok {
		return
	}
	if serviceID == nil || c.Query("date") == "" {
		httperr.BadRequest(c, "missing_params", "Fecha y servicio son obligatorios.")
		return
	}

	day, err := timezone.ParseDate(shop.Timezone, c.Query("date"))
	if err != nil {
		httperr.Respond(c, httperr.ErrBusiness("invalid_date"), "invalid_date")
		return
	}

	in := domain.AvailabilityInput{ServiceID: *serviceID, Date: day}
	if barberID != nil {
		in.BarberID = *barberID
	}

	slots, err := h.availability.Execute(c.Request.Context(), shop, in, true)
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_availability")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  c.Query("date"),
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// CREATE
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req PublicCreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreatePublicAppointmentInput{
		Slug:     c.Param("slug"),
		BarberID: req.BarberID,
		BranchID: req.BranchID,
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

	c.JSON(http.StatusCreated, appointment.PublicView(ap))
}
