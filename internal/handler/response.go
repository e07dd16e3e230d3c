package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cargotma/internal/domain"
	"cargotma/internal/repository"
	"cargotma/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(code, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrDriverNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidOrderID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidRoute),
		errors.Is(err, service.ErrInvalidDimensions),
		errors.Is(err, service.ErrInvalidPaymentAmount),
		errors.Is(err, service.ErrInvalidCargoVolume),
		errors.Is(err, service.ErrInvalidDirection),
		errors.Is(err, service.ErrInvalidUnit),
		errors.Is(err, service.ErrInvalidBidAmount),
		errors.Is(err, service.ErrInvalidStatus):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrAlreadyAssigned),
		errors.Is(err, service.ErrInvalidStatusTransition),
		errors.Is(err, service.ErrOrderNotPending),
		errors.Is(err, service.ErrDriverAlreadyRegistered),
		errors.Is(err, service.ErrBidAlreadyPlaced),
		errors.Is(err, repository.ErrConflict):
		return http.StatusConflict

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrNotEligible),
		errors.Is(err, service.ErrDriverNotAssigned):
		return http.StatusForbidden

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// DimensionsDTO is a cargo box on the wire.
type DimensionsDTO struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (d DimensionsDTO) toDomain() domain.Dimensions {
	return domain.Dimensions{Length: d.Length, Width: d.Width, Height: d.Height}
}

func newDimensionsDTO(d domain.Dimensions) DimensionsDTO {
	return DimensionsDTO{Length: d.Length, Width: d.Width, Height: d.Height}
}

// DirectionDTO is a route on the wire.
type DirectionDTO struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func directionsToDomain(dirs []DirectionDTO) []domain.Direction {
	out := make([]domain.Direction, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, domain.Direction{From: d.From, To: d.To})
	}
	return out
}

func newDirectionDTOs(dirs []domain.Direction) []DirectionDTO {
	out := make([]DirectionDTO, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, DirectionDTO{From: d.From, To: d.To})
	}
	return out
}

// OrderResponse is the HTTP response for order data. Dimensions are in centimetres.
type OrderResponse struct {
	ID             string        `json:"id"`
	From           string        `json:"from"`
	To             string        `json:"to"`
	Dimensions     DimensionsDTO `json:"dimensions"`
	Unit           string        `json:"unit"`
	PaymentAmount  float64       `json:"payment_amount"`
	Status         string        `json:"status"`
	CreatedBy      string        `json:"created_by"`
	AssignedDriver string        `json:"assigned_driver,omitempty"`
	ChatID         string        `json:"chat_id,omitempty"`
	CreatedAt      string        `json:"created_at"`
	UpdatedAt      string        `json:"updated_at"`
}

func newOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:             o.ID,
		From:           o.From,
		To:             o.To,
		Dimensions:     newDimensionsDTO(o.Dimensions),
		Unit:           string(domain.UnitCentimetre),
		PaymentAmount:  o.PaymentAmount,
		Status:         o.Status.String(),
		CreatedBy:      o.CreatedBy,
		AssignedDriver: o.AssignedDriver,
		ChatID:         o.ChatID,
		CreatedAt:      o.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:      o.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func newOrderResponses(orders []*domain.Order) []OrderResponse {
	response := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, newOrderResponse(o))
	}
	return response
}

// DriverResponse is the HTTP response for driver data. Volumes are in centimetres.
type DriverResponse struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	PriorityDirections []DirectionDTO  `json:"priority_directions"`
	ExcludedDirections []DirectionDTO  `json:"excluded_directions"`
	CargoVolumes       []DimensionsDTO `json:"cargo_volumes"`
	Unit               string          `json:"unit"`
	CreatedAt          string          `json:"created_at"`
	UpdatedAt          string          `json:"updated_at"`
}

func newDriverResponse(d *domain.Driver) DriverResponse {
	volumes := make([]DimensionsDTO, 0, len(d.CargoVolumes))
	for _, v := range d.CargoVolumes {
		volumes = append(volumes, newDimensionsDTO(v))
	}
	return DriverResponse{
		ID:                 d.ID,
		UserID:             d.UserID,
		PriorityDirections: newDirectionDTOs(d.PriorityDirections),
		ExcludedDirections: newDirectionDTOs(d.ExcludedDirections),
		CargoVolumes:       volumes,
		Unit:               string(domain.UnitCentimetre),
		CreatedAt:          d.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:          d.UpdatedAt.Format(time.RFC3339Nano),
	}
}
