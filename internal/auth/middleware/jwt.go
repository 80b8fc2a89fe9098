package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/studyshare/studyshare-backend/internal/auth"
	"github.com/studyshare/studyshare-backend/internal/pkg/logger"
	"github.com/studyshare/studyshare-backend/internal/pkg/response"
	"go.uber.org/zap"
)

const (
	ctxKeyUserID   = "user_id"
	ctxKeyUserName = "user_name"
	ctxKeyEmail    = "email"
)

// RequireAuth rejects requests that do not carry a valid bearer token and
// injects the verified identity into the request context.
func RequireAuth(verifier *auth.Verifier, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization")
			c.Abort()
			return
		}

		token, err := auth.ExtractTokenFromHeader(authHeader)
		if err != nil {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		identity, err := verifier.Verify(token)
		if err != nil {
			log.Warn("invalid access token",
				zap.Error(err),
				zap.String("ip", c.ClientIP()))
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ctxKeyUserID, identity.ID)
		c.Set(ctxKeyUserName, identity.Name)
		c.Set(ctxKeyEmail, identity.Email)

		c.Next()
	}
}

// GetUserID returns the authenticated user id from the context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(ctxKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}

// CurrentIdentity returns the authenticated identity from the context.
// It is only meaningful behind RequireAuth.
func CurrentIdentity(c *gin.Context) (auth.Identity, bool) {
	id, ok := GetUserID(c)
	if !ok {
		return auth.Identity{}, false
	}
	return auth.Identity{
		ID:    id,
		Name:  c.GetString(ctxKeyUserName),
		Email: c.GetString(ctxKeyEmail),
	}, true
}
