package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sandunsrimal/university-course-management/internal/api/middleware"
	"github.com/sandunsrimal/university-course-management/pkg/jwt"
)

// Identity getters for values injected by the auth middleware. They run
// behind JWTAuth, so the values are always present.

func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserID)
}

func currentEmail(c *gin.Context) string {
	return c.GetString(middleware.CtxEmail)
}

func currentClaims(c *gin.Context) *jwt.Claims {
	v, _ := c.Get(middleware.CtxClaims)
	claims, _ := v.(*jwt.Claims)
	return claims
}
