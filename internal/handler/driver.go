package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cargotma/internal/domain"
	"cargotma/internal/service"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	driverService   *service.DriverService
	matchingService *service.MatchingService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService, matchingService *service.MatchingService) *DriverHandler {
	return &DriverHandler{
		driverService:   driverService,
		matchingService: matchingService,
	}
}

// DriverProfileRequest is the editable part of a driver profile.
type DriverProfileRequest struct {
	PriorityDirections []DirectionDTO  `json:"priority_directions"`
	ExcludedDirections []DirectionDTO  `json:"excluded_directions"`
	CargoVolumes       []DimensionsDTO `json:"cargo_volumes"`
	Unit               string          `json:"unit,omitempty"` // cm (default) or m
}

func (r DriverProfileRequest) toService() service.DriverProfile {
	volumes := make([]domain.Dimensions, 0, len(r.CargoVolumes))
	for _, v := range r.CargoVolumes {
		volumes = append(volumes, v.toDomain())
	}
	return service.DriverProfile{
		PriorityDirections: directionsToDomain(r.PriorityDirections),
		ExcludedDirections: directionsToDomain(r.ExcludedDirections),
		CargoVolumes:       volumes,
		Unit:               r.Unit,
	}
}

// RegisterDriverRequest is the HTTP request body for driver registration.
type RegisterDriverRequest struct {
	UserID string `json:"user_id"`
	DriverProfileRequest
}

// Register handles POST /v1/drivers
func (h *DriverHandler) Register(c *gin.Context) {
	var req RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.Register(c.Request.Context(), service.RegisterDriverRequest{
		UserID:        req.UserID,
		DriverProfile: req.toService(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, newDriverResponse(driver))
}

// UpdateDriver handles PUT /v1/drivers/:id
func (h *DriverHandler) UpdateDriver(c *gin.Context) {
	var req DriverProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.UpdateProfile(c.Request.Context(), service.UpdateDriverRequest{
		DriverID:      c.Param("id"),
		DriverProfile: req.toService(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newDriverResponse(driver))
}

// GetDriver handles GET /v1/drivers/:id
func (h *DriverHandler) GetDriver(c *gin.Context) {
	driver, err := h.driverService.GetDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newDriverResponse(driver))
}

// GetAll handles GET /v1/drivers
func (h *DriverHandler) GetAll(c *gin.Context) {
	drivers, err := h.driverService.ListDrivers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		response = append(response, newDriverResponse(d))
	}
	respondJSON(c, http.StatusOK, response)
}

// EligibleOrders handles GET /v1/drivers/:id/orders
func (h *DriverHandler) EligibleOrders(c *gin.Context) {
	orders, err := h.matchingService.EligibleOrdersForDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newOrderResponses(orders))
}
