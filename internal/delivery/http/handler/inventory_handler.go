package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"msme-logistics/internal/middleware"
	"msme-logistics/internal/usecase/inventory"
	"msme-logistics/pkg/utils"
)

type InventoryHandler struct {
	service *inventory.Service
}

func NewInventoryHandler(service *inventory.Service) *InventoryHandler {
	return &InventoryHandler{service: service}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/inventory")
	{
		items.POST("", middleware.WarehouseOnly(), h.Create)
		items.GET("", h.List)
		items.GET("/alerts/active", middleware.WarehouseOnly(), h.ActiveAlerts)
		items.GET("/analytics/summary", middleware.WarehouseOnly(), h.Summary)
		items.GET("/:id", h.Get)
		items.PUT("/:id", middleware.WarehouseOnly(), h.Update)
		items.PATCH("/:id/quantity", middleware.WarehouseOnly(), h.UpdateQuantity)
		items.PATCH("/:id/reserve", h.Reserve)
		items.PATCH("/:id/release", h.Release)
		items.DELETE("/:id", middleware.WarehouseOnly(), h.Delete)
	}
}

func (h *InventoryHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req inventory.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	result, err := h.service.CreateItem(c.Request.Context(), p, &req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "Inventory item created successfully", result)
}

func (h *InventoryHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req inventory.ListFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	result, err := h.service.List(c.Request.Context(), p, &req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Inventory fetched successfully", result)
}

func (h *InventoryHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Inventory item fetched successfully", result)
}

func (h *InventoryHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req inventory.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	result, err := h.service.UpdateItem(c.Request.Context(), p, id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Inventory item updated successfully", result)
}

func (h *InventoryHandler) UpdateQuantity(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req inventory.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.UpdateQuantity(c.Request.Context(), p, id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Quantity updated successfully", result)
}

func (h *InventoryHandler) Reserve(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req inventory.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Reserve(c.Request.Context(), p, id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Quantity reserved successfully", result)
}

func (h *InventoryHandler) Release(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req inventory.ReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Release(c.Request.Context(), p, id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Reserved quantity released successfully", result)
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), p, id); err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Inventory item deleted successfully", nil)
}

func (h *InventoryHandler) ActiveAlerts(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	alerts, err := h.service.ActiveAlerts(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Alerts fetched successfully", gin.H{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

func (h *InventoryHandler) Summary(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	result, err := h.service.Summary(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Analytics fetched successfully", result)
}
