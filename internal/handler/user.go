package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cargotma/internal/service"
)

// UserHandler serves the per-user views of the mini app.
type UserHandler struct {
	driverService   *service.DriverService
	matchingService *service.MatchingService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(driverService *service.DriverService, matchingService *service.MatchingService) *UserHandler {
	return &UserHandler{
		driverService:   driverService,
		matchingService: matchingService,
	}
}

// GetDriver handles GET /v1/users/:userId/driver
func (h *UserHandler) GetDriver(c *gin.Context) {
	driver, err := h.driverService.GetDriverByUserID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newDriverResponse(driver))
}

// EligibleOrders handles GET /v1/users/:userId/orders. Users without a
// driver profile get an empty list.
func (h *UserHandler) EligibleOrders(c *gin.Context) {
	orders, err := h.matchingService.EligibleOrdersForUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newOrderResponses(orders))
}
