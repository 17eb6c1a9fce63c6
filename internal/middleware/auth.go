package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"jobhunt_backend/internal/auth"
	"jobhunt_backend/internal/logger"
	"jobhunt_backend/pkg/apperrors"
	"jobhunt_backend/pkg/contextkeys"
)

// AuthMiddleware - middleware проверки JWT
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("No token provided"))
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		claims, err := tokens.ParseToken(tokenStr)
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "token rejected", "error", err.Error(), "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		// Сохраняем claims в контекст
		c.Set(contextkeys.UserIDKey, claims.UserID())
		c.Set(contextkeys.RoleKey, claims.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID()))
		c.Next()
	}
}

// RequireAction - доступ к операции решает auth.Authorize по роли из токена
func RequireAction(action auth.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.Authorize(GetRole(c), action); err != nil {
			logger.CtxWarn(c.Request.Context(), "access denied",
				"action", string(action), "path", c.Request.URL.Path)
			apperrors.HandleError(c, err)
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(contextkeys.UserIDKey)
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}

	return id
}

// GetRole - роль из токена; пустая строка, если AuthMiddleware не отработал
func GetRole(c *gin.Context) auth.Role {
	val, exists := c.Get(contextkeys.RoleKey)
	if !exists {
		return ""
	}

	switch r := val.(type) {
	case auth.Role:
		return r
	case string:
		return auth.Role(r)
	}
	return ""
}
