package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sandunsrimal/university-course-management/pkg/jwt"
	"github.com/sandunsrimal/university-course-management/pkg/redis"
	"github.com/sandunsrimal/university-course-management/pkg/response"
)

// Context keys set by JWTAuth.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxEmail  = "email"
	CtxClaims = "claims"
)

// JWTAuth verifies the bearer token, rejects revoked tokens and injects
// the caller's identity into the request context.
func JWTAuth(jwtManager *jwt.Manager, redisClient *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, 40101, "missing bearer token")
			c.Abort()
			return
		}

		claims, err := jwtManager.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Unauthorized(c, 40102, "invalid or expired token")
			c.Abort()
			return
		}
		if claims.TokenType != "access" {
			response.Unauthorized(c, 40102, "invalid or expired token")
			c.Abort()
			return
		}

		// Without Redis the revocation list cannot be consulted; the
		// signature check alone decides.
		if redisClient != nil {
			revoked, err := redisClient.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Error("token blacklist check failed", zap.Error(err))
				response.InternalError(c)
				c.Abort()
				return
			}
			if revoked {
				response.Unauthorized(c, 40103, "token has been revoked")
				c.Abort()
				return
			}
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxClaims, claims)
		c.Next()
	}
}

// RoleAuth allows only the listed roles past. Must run after JWTAuth.
func RoleAuth(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if _, ok := allowed[role]; !ok {
			response.Forbidden(c, 40301, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}
