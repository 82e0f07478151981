package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domUser "msme-logistics/internal/domain/user"
	appErrors "msme-logistics/pkg/errors"
	"msme-logistics/pkg/utils"
)

// principal reads the authenticated caller out of the gin context. The auth
// middleware guarantees the keys exist on protected routes.
func principal(c *gin.Context) (domUser.Principal, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User ID not found in context")
		return domUser.Principal{}, false
	}
	id, ok := userID.(uuid.UUID)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid user ID format")
		return domUser.Principal{}, false
	}
	role, _ := c.Get("role")
	roleStr, _ := role.(string)

	return domUser.Principal{ID: id, Role: domUser.Role(roleStr)}, true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

// statusFor maps service failure codes to HTTP statuses.
func statusFor(err error) int {
	switch appErrors.CodeOf(err) {
	case appErrors.CodeNotFound:
		return http.StatusNotFound
	case appErrors.CodeUnauthorized:
		return http.StatusForbidden
	case appErrors.CodeInvalidTransition, appErrors.CodeInvalidDriver,
		appErrors.CodeInsufficientQuantity, appErrors.CodeItemReserved,
		appErrors.CodeInvalidInput, appErrors.CodeValidationError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error with its mapped status. AppError messages are safe
// for clients; anything else gets a generic message.
func fail(c *gin.Context, err error) {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		utils.ErrorResponse(c, statusFor(err), appErr.Message)
		return
	}
	utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
}
