package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cargotma/internal/domain"
	"cargotma/internal/repository"
	"cargotma/internal/service"
)

// BidHandler handles HTTP requests for bids.
type BidHandler struct {
	bidService *service.BidService
}

// NewBidHandler creates a new BidHandler.
func NewBidHandler(bidService *service.BidService) *BidHandler {
	return &BidHandler{bidService: bidService}
}

// PlaceBidRequest is the HTTP request body for placing a bid.
type PlaceBidRequest struct {
	OrderID  string  `json:"order_id"`
	DriverID string  `json:"driver_id"`
	Amount   float64 `json:"amount"`
}

// BidResponse is the HTTP response for bid data.
type BidResponse struct {
	ID        string  `json:"id"`
	OrderID   string  `json:"order_id"`
	DriverID  string  `json:"driver_id"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"created_at"`
}

func newBidResponse(b *domain.Bid) BidResponse {
	return BidResponse{
		ID:        b.ID,
		OrderID:   b.OrderID,
		DriverID:  b.DriverID,
		Amount:    b.Amount,
		CreatedAt: b.CreatedAt.Format(time.RFC3339Nano),
	}
}

// PlaceBid handles POST /v1/bids
func (h *BidHandler) PlaceBid(c *gin.Context) {
	var req PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	bid, err := h.bidService.PlaceBid(c.Request.Context(), service.PlaceBidRequest{
		OrderID:  req.OrderID,
		DriverID: req.DriverID,
		Amount:   req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, newBidResponse(bid))
}

// ListBids handles GET /v1/bids
func (h *BidHandler) ListBids(c *gin.Context) {
	bids, err := h.bidService.ListBids(c.Request.Context(), repository.BidFilter{
		OrderID:  c.Query("order_id"),
		DriverID: c.Query("driver_id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		response = append(response, newBidResponse(b))
	}
	respondJSON(c, http.StatusOK, response)
}
