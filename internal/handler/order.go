package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cargotma/internal/domain"
	"cargotma/internal/repository"
	"cargotma/internal/service"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orderService    *service.OrderService
	matchingService *service.MatchingService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *service.OrderService, matchingService *service.MatchingService) *OrderHandler {
	return &OrderHandler{
		orderService:    orderService,
		matchingService: matchingService,
	}
}

// CreateOrderRequest is the HTTP request body for creating an order.
type CreateOrderRequest struct {
	CustomerID    string        `json:"customer_id"`
	From          string        `json:"from"`
	To            string        `json:"to"`
	Dimensions    DimensionsDTO `json:"dimensions"`
	Unit          string        `json:"unit,omitempty"` // cm (default) or m
	PaymentAmount float64       `json:"payment_amount"`
}

// DriverActionRequest is the HTTP request body for accept and advance.
type DriverActionRequest struct {
	DriverID string `json:"driver_id"`
}

// AttachChatRequest is the HTTP request body for linking a chat.
type AttachChatRequest struct {
	ChatID string `json:"chat_id"`
}

// AcceptOrderResponse is the HTTP response for accepting an order.
type AcceptOrderResponse struct {
	Order           OrderResponse `json:"order"`
	CustomerContact string        `json:"customer_contact"`
}

// CreateOrder handles POST /v1/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), service.CreateOrderRequest{
		CustomerID:    req.CustomerID,
		From:          req.From,
		To:            req.To,
		Dimensions:    req.Dimensions.toDomain(),
		Unit:          req.Unit,
		PaymentAmount: req.PaymentAmount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, newOrderResponse(order))
}

// GetOrder handles GET /v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newOrderResponse(order))
}

// ListOrders handles GET /v1/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	filter := repository.OrderFilter{
		Status:         domain.OrderStatus(c.Query("status")),
		CreatedBy:      c.Query("created_by"),
		AssignedDriver: c.Query("assigned_driver"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		filter.Limit = limit
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newOrderResponses(orders))
}

// AcceptOrder handles POST /v1/orders/:id/accept
func (h *OrderHandler) AcceptOrder(c *gin.Context) {
	var req DriverActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.matchingService.AcceptOrder(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, AcceptOrderResponse{
		Order:           newOrderResponse(result.Order),
		CustomerContact: result.CustomerContact,
	})
}

// AdvanceStatus handles POST /v1/orders/:id/advance
func (h *OrderHandler) AdvanceStatus(c *gin.Context) {
	var req DriverActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.orderService.AdvanceStatus(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newOrderResponse(order))
}

// AttachChat handles PUT /v1/orders/:id/chat
func (h *OrderHandler) AttachChat(c *gin.Context) {
	var req AttachChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.orderService.AttachChat(c.Request.Context(), c.Param("id"), req.ChatID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newOrderResponse(order))
}

// PendingOrders handles GET /v1/debug/orders/pending. The route is only
// registered when the preview feed is enabled.
func (h *OrderHandler) PendingOrders(c *gin.Context) {
	orders, err := h.matchingService.AllPendingOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newOrderResponses(orders))
}
