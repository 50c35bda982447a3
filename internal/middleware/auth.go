package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/barberia/internal/config"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/session"
)

const (
	ContextUserID       = "userID"
	ContextBarbershopID = "barbershopID"
	ContextUserRole     = "userRole"
	ContextSessionID    = "sessionID"
)

// tokenFromRequest lê o cookie de sessão e, na falta dele, o header Bearer.
func tokenFromRequest(c *gin.Context, cookieName string) (string, error) {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v, nil
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errors.New("missing_authorization")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid_authorization_header")
	}
	return parts[1], nil
}

func AuthMiddleware(cfg *config.Config, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := tokenFromRequest(c, cfg.Session.CookieName)
		if err != nil {
			httperr.Abort(c, http.StatusUnauthorized, err.Error(), "Sesión requerida.")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token", "Sesión inválida o expirada.")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token_claims", "Sesión inválida.")
			return
		}

		userID, ok1 := claims["sub"].(float64)
		barbershopID, ok2 := claims["barbershopId"].(float64)
		sid, ok3 := claims["sid"].(string)
		role, _ := claims["role"].(string)
		if !ok1 || !ok2 || !ok3 || sid == "" {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token_payload", "Sesión inválida.")
			return
		}

		// 🔑 logout / revogação: o token só vale enquanto a sessão existir
		sess, err := sessions.Get(c.Request.Context(), sid)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				httperr.Abort(c, http.StatusUnauthorized, "session_revoked", "La sesión fue cerrada.")
				return
			}
			httperr.Abort(c, http.StatusInternalServerError, "session_lookup_failed", "Error interno.")
			return
		}
		if sess.UserID != uint(userID) || sess.BarbershopID != uint(barbershopID) {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token_payload", "Sesión inválida.")
			return
		}
		if sess.Role != "" {
			role = sess.Role
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextBarbershopID, uint(barbershopID))
		c.Set(ContextUserRole, role)
		c.Set(ContextSessionID, sid)

		c.Next()
	}
}

// RequireRole deixa passar apenas os papéis informados.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		if _, ok := allowed[role]; !ok {
			httperr.Abort(c, http.StatusForbidden, "forbidden", "No tiene permiso para esta operación.")
			return
		}
		c.Next()
	}
}
