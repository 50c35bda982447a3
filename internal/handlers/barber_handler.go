package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberia/internal/audit"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/media"
	"github.com/BruksfildServices01/barberia/internal/models"
)

// BarberHandler administra a equipe (barberos e admins).
type BarberHandler struct {
	db       *gorm.DB
	uploader media.Uploader
	audit    audit.Recorder
	log      *zap.Logger
}

func NewBarberHandler(db *gorm.DB, uploader media.Uploader, rec audit.Recorder, log *zap.Logger) *BarberHandler {
	return &BarberHandler{db: db, uploader: uploader, audit: rec, log: log}
}

// --------- Requests ---------

type CreateBarberRequest struct {
	Name              string  `json:"name" binding:"required"`
	Email             string  `json:"email" binding:"required,email"`
	Phone             string  `json:"phone"`
	Role              string  `json:"role"`
	BranchID          *uint   `json:"branch_id"`
	Password          string  `json:"password"`
	CommissionPercent float64 `json:"commission_percent"`
}

type UpdateBarberRequest struct {
	Name              *string  `json:"name"`
	Phone             *string  `json:"phone"`
	Role              *string  `json:"role"`
	BranchID          *uint    `json:"branch_id"`
	Active            *bool    `json:"active"`
	CommissionPercent *float64 `json:"commission_percent"`
}

func validStaffRole(role string) bool {
	return role == models.RoleBarber || role == models.RoleAdmin
}

func validCommission(p float64) bool {
	return p >= 0 && p <= 100
}

// --------- Handlers ---------

func (h *BarberHandler) List(c *gin.Context) {
	actor := actorFrom(c)

	branchID, ok := optionalUint(c, "branch_id")
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).Where("barbershop_id = ?", actor.BarbershopID)
	if branchID != nil {
		q = q.Where("branch_id = ?", *branchID)
	}
	switch c.Query("active") {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	var users []models.User
	if err := q.Order("name ASC").Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Error al listar barberos.")
		return
	}

	out := make([]gin.H, 0, len(users))
	for i := range users {
		p := userPayload(&users[i])
		p["active"] = users[i].Active
		p["commission_percent"] = users[i].CommissionPercent
		out = append(out, p)
	}
	c.JSON(http.StatusOK, out)
}

func (h *BarberHandler) Create(c *gin.Context) {
	actor := actorFrom(c)

	var req CreateBarberRequest
	if !bindJSON(c, &req) {
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleBarber
	}
	if !validStaffRole(role) {
		httperr.BadRequest(c, "invalid_role", "Rol inválido.")
		return
	}
	if !validCommission(req.CommissionPercent) {
		httperr.BadRequest(c, "invalid_commission", "La comisión debe estar entre 0 y 100.")
		return
	}
	if req.BranchID != nil && !h.branchExists(c, actor.BarbershopID, *req.BranchID) {
		return
	}

	// senha temporária devolvida uma única vez na resposta
	password := req.Password
	temporary := password == ""
	if temporary {
		password = strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	}
	if len(password) < 6 {
		httperr.BadRequest(c, "invalid_password", "La contraseña debe tener al menos 6 caracteres.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Error interno.")
		return
	}

	user := models.User{
		BarbershopID:      actor.BarbershopID,
		BranchID:          req.BranchID,
		Name:              strings.TrimSpace(req.Name),
		Email:             strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:      string(hashed),
		Phone:             req.Phone,
		Role:              role,
		Active:            true,
		CommissionPercent: req.CommissionPercent,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "email_already_used", "El email ya está en uso.")
			return
		}
		httperr.Internal(c, "failed_to_create_barber", "Error al crear el barbero.")
		return
	}

	recordAudit(h.audit, actor.BarbershopID, &actor.UserID, "barber_created", "user", &user.ID, map[string]any{
		"role": role,
	})

	resp := gin.H{"user": userPayload(&user)}
	if temporary {
		resp["temporary_password"] = password
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BarberHandler) Update(c *gin.Context) {
	actor := actorFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, ok := h.find(c, actor.BarbershopID, id)
	if !ok {
		return
	}

	var req UpdateBarberRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Role != nil {
		// o dono não é rebaixado por aqui
		if user.Role == models.RoleOwner || !validStaffRole(*req.Role) {
			httperr.BadRequest(c, "invalid_role", "Rol inválido.")
			return
		}
		user.Role = *req.Role
	}
	if req.CommissionPercent != nil {
		if !validCommission(*req.CommissionPercent) {
			httperr.BadRequest(c, "invalid_commission", "La comisión debe estar entre 0 y 100.")
			return
		}
		user.CommissionPercent = *req.CommissionPercent
	}
	if req.BranchID != nil {
		if !h.branchExists(c, actor.BarbershopID, *req.BranchID) {
			return
		}
		user.BranchID = req.BranchID
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Active != nil {
		if user.ID == actor.UserID && !*req.Active {
			httperr.BadRequest(c, "cannot_deactivate_self", "No puede desactivar su propio usuario.")
			return
		}
		user.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Omit("Barbershop").Save(user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_barber", "Error al guardar el barbero.")
		return
	}

	recordAudit(h.audit, actor.BarbershopID, &actor.UserID, "barber_updated", "user", &user.ID, req)
	c.JSON(http.StatusOK, userPayload(user))
}

// UploadAvatar recebe multipart "file", normaliza para webp 512x512 e sobe no S3.
func (h *BarberHandler) UploadAvatar(c *gin.Context) {
	actor := actorFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if !actor.IsManager() && id != actor.UserID {
		httperr.Forbidden(c, "forbidden", "No tiene permiso para esta operación.")
		return
	}
	if h.uploader == nil {
		httperr.Conflict(c, "storage_not_configured", "El almacenamiento de imágenes no está configurado.")
		return
	}

	user, ok := h.find(c, actor.BarbershopID, id)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "file_required", "Debe enviar la imagen en el campo file.")
		return
	}
	if fh.Size > media.MaxUploadBytes {
		httperr.BadRequest(c, "file_too_large", "La imagen supera 5 MB.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "file_required", "Debe enviar la imagen en el campo file.")
		return
	}
	defer f.Close()

	body, err := media.NormalizeToWebP(f, media.AvatarMaxSide)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrTooLarge):
			httperr.BadRequest(c, "file_too_large", "La imagen supera 5 MB.")
		case errors.Is(err, media.ErrUnsupportedImg):
			httperr.BadRequest(c, "unsupported_image", "Formato no soportado (jpeg, png o webp).")
		default:
			httperr.Internal(c, "failed_to_process_image", "Error al procesar la imagen.")
		}
		return
	}

	url, err := h.uploader.Upload(c.Request.Context(), media.AvatarKey(actor.BarbershopID), body, "image/webp")
	if err != nil {
		h.log.Error("avatar upload failed", zap.Uint("user_id", user.ID), zap.Error(err))
		httperr.Write(c, http.StatusBadGateway, "upload_failed", "No se pudo subir la imagen.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(user).
		Update("avatar_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_update_barber", "Error al guardar el barbero.")
		return
	}

	recordAudit(h.audit, actor.BarbershopID, &actor.UserID, "barber_avatar_updated", "user", &user.ID, nil)
	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}

func (h *BarberHandler) find(c *gin.Context, barbershopID, id uint) (*models.User, bool) {
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		First(&user).Error; err != nil {
		if isNotFound(err) {
			httperr.NotFound(c, "barber_not_found", "Barbero no encontrado.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_barber", "Error interno.")
		return nil, false
	}
	return &user, true
}

func (h *BarberHandler) branchExists(c *gin.Context, barbershopID, branchID uint) bool {
	var count int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.Branch{}).
		Where("id = ? AND barbershop_id = ?", branchID, barbershopID).
		Count(&count).Error; err != nil {
		httperr.Internal(c, "failed_to_get_branch", "Error interno.")
		return false
	}
	if count == 0 {
		httperr.NotFound(c, "branch_not_found", "Sucursal no encontrada.")
		return false
	}
	return true
}
