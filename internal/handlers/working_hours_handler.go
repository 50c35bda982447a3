package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberia/internal/audit"
	domain "github.com/BruksfildServices01/barberia/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/models"
)

type WorkingHoursHandler struct {
	db    *gorm.DB
	audit audit.Recorder
}

func NewWorkingHoursHandler(db *gorm.DB, rec audit.Recorder) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, audit: rec}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

// targetBarber resolve de quem é a grade: rota sem :id = o próprio usuário;
// com :id, só owner/admin podem mexer na de outro barbeiro.
func (h *WorkingHoursHandler) targetBarber(c *gin.Context) (uint, bool) {
	actor := actorFrom(c)
	if c.Param("id") == "" {
		return actor.UserID, true
	}

	id, ok := paramID(c, "id")
	if !ok {
		return 0, false
	}
	if id != actor.UserID && !actor.IsManager() {
		httperr.Forbidden(c, "forbidden", "No tiene permiso para esta operación.")
		return 0, false
	}

	var count int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("id = ? AND barbershop_id = ?", id, actor.BarbershopID).
		Count(&count).Error; err != nil {
		httperr.Internal(c, "failed_to_get_barber", "Error interno.")
		return 0, false
	}
	if count == 0 {
		httperr.NotFound(c, "barber_not_found", "Barbero no encontrado.")
		return 0, false
	}
	return id, true
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	barberID, ok := h.targetBarber(c)
	if !ok {
		return
	}

	var hours []models.WorkingHours
	if err := h.db.WithContext(c.Request.Context()).
		Where("barber_id = ?", barberID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		httperr.Internal(c, "failed_to_get_working_hours", "Error al buscar el horario.")
		return
	}

	c.JSON(http.StatusOK, hours)
}

// Update substitui a semana inteira numa transação.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	barberID, ok := h.targetBarber(c)
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	seen := map[int]bool{}
	toCreate := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		if seen[d.Weekday] {
			httperr.BadRequest(c, "duplicate_weekday", "Hay días repetidos en el horario.")
			return
		}
		seen[d.Weekday] = true

		wh := models.WorkingHours{
			BarberID:   barberID,
			Weekday:    d.Weekday,
			Active:     d.Active,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			LunchStart: d.LunchStart,
			LunchEnd:   d.LunchEnd,
		}
		if err := domain.ValidateWorkingDay(wh); err != nil {
			httperr.Respond(c, err, "invalid_working_hours")
			return
		}
		toCreate = append(toCreate, wh)
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("barber_id = ?", barberID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_working_hours", "Error al guardar el horario.")
		return
	}

	actor := actorFrom(c)
	recordAudit(h.audit, actor.BarbershopID, &actor.UserID, "working_hours_updated", "user", &barberID, map[string]any{
		"days": len(toCreate),
	})

	c.JSON(http.StatusOK, toCreate)
}
