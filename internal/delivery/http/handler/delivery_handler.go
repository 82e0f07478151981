package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"msme-logistics/internal/middleware"
	"msme-logistics/internal/usecase/delivery"
	"msme-logistics/pkg/utils"
)

type DeliveryHandler struct {
	service *delivery.Service
}

func NewDeliveryHandler(service *delivery.Service) *DeliveryHandler {
	return &DeliveryHandler{service: service}
}

func (h *DeliveryHandler) RegisterRoutes(router *gin.RouterGroup) {
	deliveries := router.Group("/deliveries")
	{
		deliveries.POST("", middleware.MSMEOnly(), h.Create)
		deliveries.GET("", h.List)
		deliveries.GET("/analytics/summary", h.Summary)
		deliveries.GET("/:id", h.Get)
		deliveries.PATCH("/:id/status", h.UpdateStatus)
		deliveries.PATCH("/:id/assign-driver", middleware.WarehouseOnly(), h.AssignDriver)
		deliveries.PATCH("/:id/location", middleware.DriverOnly(), h.UpdateLocation)
		deliveries.POST("/:id/rating", h.AddRating)
	}
}

func (h *DeliveryHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req delivery.CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	result, err := h.service.Create(c.Request.Context(), p, &req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "Delivery request created successfully", result)
}

func (h *DeliveryHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req delivery.ListFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	result, err := h.service.List(c.Request.Context(), p, &req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Deliveries fetched successfully", result)
}

func (h *DeliveryHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.service.Get(c.Request.Context(), p, id)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Delivery fetched successfully", result)
}

func (h *DeliveryHandler) UpdateStatus(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req delivery.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.UpdateStatus(c.Request.Context(), p, id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Delivery status updated successfully", result)
}

func (h *DeliveryHandler) AssignDriver(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req delivery.AssignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.AssignDriver(c.Request.Context(), p, id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Driver assigned successfully", result)
}

func (h *DeliveryHandler) UpdateLocation(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req delivery.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.UpdateLocation(c.Request.Context(), p, id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Location updated successfully", result)
}

func (h *DeliveryHandler) AddRating(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req delivery.AddRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	result, err := h.service.AddRating(c.Request.Context(), p, id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Rating added successfully", result)
}

func (h *DeliveryHandler) Summary(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	period, _ := strconv.Atoi(c.DefaultQuery("period", "30"))
	result, err := h.service.Summary(c.Request.Context(), p, period)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Analytics fetched successfully", gin.H{
		"analytics": result,
		"period":    period,
	})
}
