package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberia/internal/audit"
	"github.com/BruksfildServices01/barberia/internal/config"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/middleware"
	"github.com/BruksfildServices01/barberia/internal/models"
	"github.com/BruksfildServices01/barberia/internal/session"
	"github.com/BruksfildServices01/barberia/internal/timezone"
	"github.com/BruksfildServices01/barberia/internal/validators"
)

type AuthHandler struct {
	db       *gorm.DB
	config   *config.Config
	sessions session.Store
	audit    audit.Recorder
	log      *zap.Logger

	emailValid func(string) bool
	now        func() time.Time
}

func NewAuthHandler(
	db *gorm.DB,
	cfg *config.Config,
	sessions session.Store,
	rec audit.Recorder,
	log *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		db:         db,
		config:     cfg,
		sessions:   sessions,
		audit:      rec,
		log:        log,
		emailValid: validators.IsEmailDomainValid,
		now:        time.Now,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	BarbershopName    string `json:"barbershop_name" binding:"required"`
	BarbershopSlug    string `json:"barbershop_slug" binding:"required"`
	BarbershopPhone   string `json:"barbershop_phone"`
	BarbershopAddress string `json:"barbershop_address"`
	Timezone          string `json:"timezone"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.BarbershopSlug))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !h.emailValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "El dominio del email no parece válido.")
		return
	}
	if req.Timezone != "" && !timezone.IsValid(req.Timezone) {
		httperr.BadRequest(c, "invalid_timezone", "Zona horaria inválida.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Error interno.")
		return
	}

	var (
		shop models.Barbershop
		user models.User
	)

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Barbershop{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness("slug_already_used")
		}

		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness("email_already_used")
		}

		shop = models.Barbershop{
			Name:     req.BarbershopName,
			Slug:     slug,
			Phone:    req.BarbershopPhone,
			Address:  req.BarbershopAddress,
			Timezone: req.Timezone,
		}
		if shop.Timezone == "" {
			shop.Timezone = timezone.DefaultTimezone
		}
		if err := tx.Create(&shop).Error; err != nil {
			return err
		}

		// toda barbearia nasce com uma sucursal para a caja funcionar
		branch := models.Branch{
			BarbershopID: shop.ID,
			Name:         "Principal",
			Address:      req.BarbershopAddress,
			Phone:        req.BarbershopPhone,
			Active:       true,
		}
		if err := tx.Create(&branch).Error; err != nil {
			return err
		}

		user = models.User{
			BarbershopID: shop.ID,
			BranchID:     &branch.ID,
			Name:         req.Name,
			Email:        email,
			PasswordHash: string(hashed),
			Phone:        req.Phone,
			Role:         models.RoleOwner,
			Active:       true,
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "slug_already_used", "El slug o el email ya están en uso.")
			return
		}
		httperr.Respond(c, err, "failed_to_register")
		return
	}

	token, err := h.startSession(c, &user)
	if err != nil {
		h.log.Error("start session failed", zap.Uint("user_id", user.ID), zap.Error(err))
		httperr.Internal(c, "failed_to_start_session", "Error interno.")
		return
	}

	recordAudit(h.audit, shop.ID, &user.ID, "barbershop_registered", "barbershop", &shop.ID, nil)

	c.JSON(http.StatusCreated, gin.H{
		"user":       userPayload(&user),
		"barbershop": shopPayload(&shop),
		"token":      token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Barbershop").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if isNotFound(err) {
			httperr.Unauthorized(c, "invalid_credentials", "Email o contraseña incorrectos.")
			return
		}
		httperr.Internal(c, "internal_error", "Error interno.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Email o contraseña incorrectos.")
		return
	}

	if !user.Active {
		httperr.Forbidden(c, "user_inactive", "El usuario está desactivado.")
		return
	}

	token, err := h.startSession(c, &user)
	if err != nil {
		h.log.Error("start session failed", zap.Uint("user_id", user.ID), zap.Error(err))
		httperr.Internal(c, "failed_to_start_session", "Error interno.")
		return
	}

	recordAudit(h.audit, user.BarbershopID, &user.ID, "login", "user", &user.ID, map[string]any{
		"ip": c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{
		"user":       userPayload(&user),
		"barbershop": shopPayload(&user.Barbershop),
		"token":      token,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sid := c.GetString(middleware.ContextSessionID)
	if sid != "" {
		if err := h.sessions.Revoke(c.Request.Context(), sid); err != nil {
			httperr.Internal(c, "failed_to_logout", "Error interno.")
			return
		}
	}

	h.setCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

// --------- Sessão ---------

func (h *AuthHandler) ttl() time.Duration {
	hours := h.config.Session.TTLHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// startSession grava a sessão no store, assina o JWT com o sid e devolve o
// token (também enviado no cookie HttpOnly).
func (h *AuthHandler) startSession(c *gin.Context, user *models.User) (string, error) {
	now := h.now()
	sess := session.Session{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		BarbershopID: user.BarbershopID,
		Role:         user.Role,
		CreatedAt:    now,
		UserAgent:    c.Request.UserAgent(),
	}
	if err := h.sessions.Save(c.Request.Context(), sess, h.ttl()); err != nil {
		return "", err
	}

	token, err := h.generateToken(user, sess.ID, now)
	if err != nil {
		return "", err
	}

	h.setCookie(c, token, int(h.ttl().Seconds()))
	return token, nil
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		h.config.Session.CookieName,
		value,
		maxAge,
		"/",
		h.config.Session.CookieDomain,
		h.config.Session.CookieSecure,
		true,
	)
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User, sid string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":          user.ID,
		"barbershopId": user.BarbershopID,
		"role":         user.Role,
		"sid":          sid,
		"exp":          now.Add(h.ttl()).Unix(),
		"iat":          now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

// --------- Payloads ---------

func userPayload(u *models.User) gin.H {
	return gin.H{
		"id":            u.ID,
		"name":          u.Name,
		"email":         u.Email,
		"phone":         u.Phone,
		"role":          u.Role,
		"branch_id":     u.BranchID,
		"avatar_url":    u.AvatarURL,
		"barbershop_id": u.BarbershopID,
	}
}

func shopPayload(s *models.Barbershop) gin.H {
	return gin.H{
		"id":       s.ID,
		"name":     s.Name,
		"slug":     s.Slug,
		"phone":    s.Phone,
		"address":  s.Address,
		"timezone": s.Timezone,
		"currency": s.Currency,
	}
}
