package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"msme-logistics/internal/usecase/routeplan"
	"msme-logistics/pkg/utils"
)

type RouteHandler struct {
	service *routeplan.Service
}

func NewRouteHandler(service *routeplan.Service) *RouteHandler {
	return &RouteHandler{service: service}
}

func (h *RouteHandler) RegisterRoutes(router *gin.RouterGroup) {
	routes := router.Group("/routes")
	{
		routes.POST("/optimize", h.Optimize)
		routes.POST("/alternatives", h.Alternatives)
		routes.GET("/traffic", h.Traffic)
		routes.GET("/avoidance-zones", h.AvoidanceZones)
		routes.POST("/cost-estimate", h.CostEstimate)
		routes.POST("/eta", h.ETA)
	}
}

func (h *RouteHandler) Optimize(c *gin.Context) {
	var req routeplan.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Source == "" || req.Destination == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Source and destination are required")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Route optimized successfully", h.service.Optimize(&req))
}

func (h *RouteHandler) Alternatives(c *gin.Context) {
	var req routeplan.AlternativesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Source == "" || req.Destination == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Source and destination are required")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Alternative routes generated successfully", h.service.Alternatives(&req))
}

func (h *RouteHandler) Traffic(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Latitude and longitude are required")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Traffic data fetched successfully", h.service.Traffic(lat, lng))
}

func (h *RouteHandler) AvoidanceZones(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Latitude and longitude are required")
		return
	}

	var types []string
	if raw := c.Query("types"); raw != "" {
		types = strings.Split(raw, ",")
	}

	utils.SuccessResponse(c, http.StatusOK, "Avoidance zones fetched successfully", h.service.AvoidanceZones(lat, lng, types))
}

func (h *RouteHandler) CostEstimate(c *gin.Context) {
	var req routeplan.CostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Distance and vehicle type are required")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Cost estimated successfully", h.service.Cost(&req))
}

func (h *RouteHandler) ETA(c *gin.Context) {
	var req routeplan.ETARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Source == "" || req.Destination == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Source and destination are required")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "ETA calculated successfully", h.service.ETA(&req))
}
