package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"eventsdiscovery/internal/domain/users"
	"eventsdiscovery/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUser   = "user"
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRole   = "role"
)

// UserEnsurer loads the caller's record, creating a free one on first sight.
type UserEnsurer interface {
	Ensure(ctx context.Context, u users.User) (users.User, error)
}

func AuthMiddleware(secret string, store UserEnsurer) gin.HandlerFunc {
	jwtKey := []byte(secret)

	return func(c *gin.Context) {
		if len(jwtKey) == 0 {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "JWT secret not configured"})
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Bearer token malformed"})
			return
		}

		token, err := jwt.Parse(strings.TrimSpace(tokenString), func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return jwtKey, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}
		sub, _ := claims.GetSubject()
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}
		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)

		user, err := store.Ensure(c.Request.Context(), users.User{ID: sub, Email: email})
		if err != nil {
			logging.Ctx(c.Request.Context()).Error().Err(err).Str("user_id", sub).Msg("load caller")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}
		// the token decides the role for this request
		if role != "" {
			user.Role = role
		}

		c.Set(CtxUser, user)
		c.Set(CtxUserID, sub)
		c.Set(CtxEmail, email)
		c.Set(CtxRole, user.Role)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (users.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return users.User{}, false
	}
	u, ok := v.(users.User)
	return u, ok
}

func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(CtxRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Role not found in token"})
			return
		}

		if value != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}

		c.Next()
	}
}
