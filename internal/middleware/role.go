package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"msme-logistics/pkg/utils"
)

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			utils.ErrorResponse(c, http.StatusForbidden, "Role not found in context")
			c.Abort()
			return
		}

		userRole := role.(string)

		for _, allowedRole := range allowedRoles {
			if userRole == allowedRole {
				c.Next()
				return
			}
		}

		utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")
		c.Abort()
	}
}

func MSMEOnly() gin.HandlerFunc {
	return RoleMiddleware("msme")
}

func DriverOnly() gin.HandlerFunc {
	return RoleMiddleware("driver")
}

func WarehouseOnly() gin.HandlerFunc {
	return RoleMiddleware("warehouse")
}
