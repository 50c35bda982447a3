package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberia/internal/audit"
	"github.com/BruksfildServices01/barberia/internal/dto"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/httpresp"
	"github.com/BruksfildServices01/barberia/internal/models"
	"github.com/BruksfildServices01/barberia/internal/validators"
)

type ClientHandler struct {
	db    *gorm.DB
	audit audit.Recorder
}

func NewClientHandler(db *gorm.DB, rec audit.Recorder) *ClientHandler {
	return &ClientHandler{db: db, audit: rec}
}

// --------- Requests ---------

type ClientRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Notes    *string `json:"notes"`
	Birthday *string `json:"birthday"`
	Tags     *string `json:"tags"`
}

type ClientStats struct {
	VisitsCompleted int64      `json:"visits_completed"`
	TotalSpentCents int64      `json:"total_spent_cents"`
	LastVisit       *time.Time `json:"last_visit"`
	CancelledCount  int64      `json:"cancelled_count"`
}

// ======================================================
// LIST / SEARCH
// ======================================================

func (h *ClientHandler) List(c *gin.Context) {
	actor := actorFrom(c)
	page, limit, offset := httpresp.Pagination(c)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.Client{}).
		Where("barbershop_id = ?", actor.BarbershopID)

	if query != "" {
		like := "%" + query + "%"
		if digits := validators.NormalizePhone(query); digits != "" {
			q = q.Where(
				"(LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?)",
				like, "%"+digits+"%", like,
			)
		} else {
			q = q.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)", like, like)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_clients", "Error al listar clientes.")
		return
	}

	var clients []models.Client
	if err := q.
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&clients).Error; err != nil {

		httperr.Internal(c, "failed_to_list_clients", "Error al listar clientes.")
		return
	}

	httpresp.Page(c, clients, page, limit, total)
}

// ======================================================
// DETAIL (ficha + estatísticas + últimos turnos)
// ======================================================

func (h *ClientHandler) Get(c *gin.Context) {
	actor := actorFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	client, ok := h.find(c, actor.BarbershopID, id)
	if !ok {
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var stats ClientStats
	if err := db.Model(&models.Appointment{}).
		Select(`
            COUNT(*) FILTER (WHERE status = 'completed') AS visits_completed,
            COALESCE(SUM(price_cents) FILTER (WHERE status = 'completed'), 0) AS total_spent_cents,
            MAX(start_time) FILTER (WHERE status = 'completed') AS last_visit,
            COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled_count
        `).
		Where("barbershop_id = ? AND client_id = ?", actor.BarbershopID, client.ID).
		Scan(&stats).Error; err != nil {
		httperr.Internal(c, "failed_to_get_client", "Error interno.")
		return
	}

	var recent []models.Appointment
	if err := db.
		Preload("Client").
		Preload("Service").
		Preload("Barber").
		Where("barbershop_id = ? AND client_id = ?", actor.BarbershopID, client.ID).
		Order("start_time DESC").
		Limit(10).
		Find(&recent).Error; err != nil {
		httperr.Internal(c, "failed_to_get_client", "Error interno.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"client":       client,
		"stats":        stats,
		"appointments": dto.NewAppointmentListSlice(recent),
	})
}

// ======================================================
// CREATE / UPDATE / DELETE
// ======================================================

func (h *ClientHandler) Create(c *gin.Context) {
	actor := actorFrom(c)

	var req ClientRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		httperr.Respond(c, httperr.ErrBusiness("client_name_required"), "invalid_client")
		return
	}
	if req.Phone == nil {
		httperr.Respond(c, httperr.ErrBusiness("invalid_phone"), "invalid_client")
		return
	}

	client := models.Client{BarbershopID: actor.BarbershopID}
	if err := applyClient(&client, req); err != nil {
		httperr.Respond(c, err, "invalid_client")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&client).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Respond(c, httperr.ErrBusiness("client_phone_exists"), "failed_to_create_client")
			return
		}
		httperr.Internal(c, "failed_to_create_client", "Error al crear el cliente.")
		return
	}

	recordAudit(h.audit, actor.BarbershopID, &actor.UserID, "client_created", "client", &client.ID, nil)
	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	actor := actorFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	client, ok := h.find(c, actor.BarbershopID, id)
	if !ok {
		return
	}

	var req ClientRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := applyClient(client, req); err != nil {
		httperr.Respond(c, err, "invalid_client")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(client).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Respond(c, httperr.ErrBusiness("client_phone_exists"), "failed_to_update_client")
			return
		}
		httperr.Internal(c, "failed_to_update_client", "Error al guardar el cliente.")
		return
	}

	recordAudit(h.audit, actor.BarbershopID, &actor.UserID, "client_updated", "client", &client.ID, nil)
	c.JSON(http.StatusOK, client)
}

// Delete só apaga clientes sem histórico de turnos.
func (h *ClientHandler) Delete(c *gin.Context) {
	actor := actorFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	client, ok := h.find(c, actor.BarbershopID, id)
	if !ok {
		return
	}

	var count int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.Appointment{}).
		Where("barbershop_id = ? AND client_id = ?", actor.BarbershopID, client.ID).
		Count(&count).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_client", "Error al eliminar el cliente.")
		return
	}
	if count > 0 {
		httperr.Respond(c, httperr.ErrBusiness("client_has_appointments"), "failed_to_delete_client")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(client).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_client", "Error al eliminar el cliente.")
		return
	}

	recordAudit(h.audit, actor.BarbershopID, &actor.UserID, "client_deleted", "client", &client.ID, nil)
	c.Status(http.StatusNoContent)
}

func (h *ClientHandler) find(c *gin.Context, barbershopID, id uint) (*models.Client, bool) {
	var client models.Client
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		First(&client).Error; err != nil {
		if isNotFound(err) {
			httperr.NotFound(c, "client_not_found", "Cliente no encontrado.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_client", "Error interno.")
		return nil, false
	}
	return &client, true
}

// applyClient valida e copia os campos enviados. Telefone é guardado só
// com dígitos para casar com o WhatsApp.
func applyClient(client *models.Client, req ClientRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return httperr.ErrBusiness("client_name_required")
		}
		client.Name = name
	}
	if req.Phone != nil {
		if !validators.IsPhoneValid(*req.Phone) {
			return httperr.ErrBusiness("invalid_phone")
		}
		client.Phone = validators.NormalizePhone(*req.Phone)
	}
	if req.Email != nil {
		client.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}
	if req.Tags != nil {
		client.Tags = strings.TrimSpace(*req.Tags)
	}
	if req.Birthday != nil {
		if *req.Birthday == "" {
			client.Birthday = nil
		} else {
			d, err := time.Parse("2006-01-02", *req.Birthday)
			if err != nil {
				return httperr.ErrBusiness("invalid_date")
			}
			client.Birthday = &d
		}
	}
	return nil
}
