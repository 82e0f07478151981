package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"msme-logistics/internal/middleware"
	"msme-logistics/internal/usecase/user"
	appErrors "msme-logistics/pkg/errors"
	"msme-logistics/pkg/utils"
)

type UserHandler struct {
	service *user.Service
}

func NewUserHandler(service *user.Service) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterAuthRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/profile", h.Profile)
	router.PUT("/profile", h.UpdateProfile)

	users := router.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/drivers/available", middleware.RoleMiddleware("warehouse", "msme"), h.AvailableDrivers)
		users.GET("/:id", h.GetUser)
		users.PATCH("/:id/deactivate", h.Deactivate)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "User registered successfully", result)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		// credential failures are 401 here, not the usual 403 mapping
		if appErrors.CodeOf(err) == appErrors.CodeUnauthorized {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Login successful", result)
}

func (h *UserHandler) Profile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	result, err := h.service.Profile(c.Request.Context(), p.ID)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Profile fetched successfully", result)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.UpdateProfile(c.Request.Context(), p.ID, &req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Profile updated successfully", result)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req user.ListFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	result, err := h.service.List(c.Request.Context(), p, &req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Users fetched successfully", result)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "User fetched successfully", result)
}

func (h *UserHandler) AvailableDrivers(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	result, err := h.service.AvailableDrivers(c.Request.Context(), p, c.Query("vehicleType"))
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Available drivers fetched successfully", result)
}

func (h *UserHandler) Deactivate(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), p, id); err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Account deactivated successfully", nil)
}
