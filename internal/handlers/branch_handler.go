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

// BranchHandler administra as sucursais.
type BranchHandler struct {
	db    *gorm.DB
	audit audit.Recorder
}

func NewBranchHandler(db *gorm.DB, rec audit.Recorder) *BranchHandler {
	return &BranchHandler{db: db, audit: rec}
}

type BranchRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Active  *bool   `json:"active"`
}

func (h *BranchHandler) List(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	q := h.db.WithContext(c.Request.Context()).Where("barbershop_id = ?", barbershopID)
	switch c.Query("active") {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	var branches []models.Branch
	if err := q.Order("id ASC").Find(&branches).Error; err != nil {
		httperr.Internal(c, "failed_to_list_branches", "Error al listar sucursales.")
		return
	}

	c.JSON(http.StatusOK, branches)
}

func (h *BranchHandler) Create(c *gin.Context) {
	actor := actorFrom(c)

	var req BranchRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		httperr.BadRequest(c, "invalid_name", "El nombre es obligatorio.")
		return
	}

	branch := models.Branch{
		BarbershopID: actor.BarbershopID,
		Name:         strings.TrimSpace(*req.Name),
		Active:       true,
	}
	applyBranch(&branch, req)

	if err := h.db.WithContext(c.Request.Context()).Create(&branch).Error; err != nil {
		httperr.Internal(c, "failed_to_create_branch", "Error al crear la sucursal.")
		return
	}

	recordAudit(h.audit, actor.BarbershopID, &actor.UserID, "branch_created", "branch", &branch.ID, nil)
	c.JSON(http.StatusCreated, branch)
}

func (h *BranchHandler) Update(c *gin.Context) {
	actor := actorFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	branch, ok := h.find(c, actor.BarbershopID, id)
	if !ok {
		return
	}

	var req BranchRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		httperr.BadRequest(c, "invalid_name", "El nombre es obligatorio.")
		return
	}
	applyBranch(branch, req)

	if err := h.db.WithContext(c.Request.Context()).Save(branch).Error; err != nil {
		httperr.Internal(c, "failed_to_update_branch", "Error al guardar la sucursal.")
		return
	}

	recordAudit(h.audit, actor.BarbershopID, &actor.UserID, "branch_updated", "branch", &branch.ID, req)
	c.JSON(http.StatusOK, branch)
}

// Delete só remove sucursais sem turnos pendentes futuros.
func (h *BranchHandler) Delete(c *gin.Context) {
	actor := actorFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	branch, ok := h.find(c, actor.BarbershopID, id)
	if !ok {
		return
	}

	var pending int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.Appointment{}).
		Where("barbershop_id = ? AND branch_id = ? AND status = ? AND start_time >= ?",
			actor.BarbershopID, branch.ID, "pending", timezone.Now()).
		Count(&pending).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_branch", "Error al eliminar la sucursal.")
		return
	}
	if pending > 0 {
		httperr.Conflict(c, "branch_has_appointments", "La sucursal tiene turnos pendientes.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(branch).Error; err != nil {
		if httperr.IsForeignKeyViolation(err) {
			httperr.Conflict(c, "branch_in_use", "La sucursal tiene registros asociados; desactívela.")
			return
		}
		httperr.Internal(c, "failed_to_delete_branch", "Error al eliminar la sucursal.")
		return
	}

	recordAudit(h.audit, actor.BarbershopID, &actor.UserID, "branch_deleted", "branch", &branch.ID, nil)
	c.Status(http.StatusNoContent)
}

func (h *BranchHandler) find(c *gin.Context, barbershopID, id uint) (*models.Branch, bool) {
	var branch models.Branch
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		First(&branch).Error; err != nil {
		if isNotFound(err) {
			httperr.NotFound(c, "branch_not_found", "Sucursal no encontrada.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_branch", "Error interno.")
		return nil, false
	}
	return &branch, true
}

func applyBranch(b *models.Branch, req BranchRequest) {
	if req.Name != nil {
		b.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		b.Address = *req.Address
	}
	if req.Phone != nil {
		b.Phone = *req.Phone
	}
	if req.Active != nil {
		b.Active = *req.Active
	}
}
