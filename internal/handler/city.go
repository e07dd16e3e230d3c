package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cargotma/internal/catalog"
)

// CityHandler serves the city catalogue.
type CityHandler struct {
	catalog *catalog.Catalog
}

// NewCityHandler creates a new CityHandler.
func NewCityHandler(c *catalog.Catalog) *CityHandler {
	return &CityHandler{catalog: c}
}

// CitiesResponse is the HTTP response for a city search.
type CitiesResponse struct {
	Cities    []catalog.City `json:"cities"`
	Countries []string       `json:"countries"`
}

// Search handles GET /v1/cities?q=&country=
func (h *CityHandler) Search(c *gin.Context) {
	source := h.catalog
	if country := c.Query("country"); country != "" {
		source = catalog.New(h.catalog.ByCountry(country))
	}

	respondJSON(c, http.StatusOK, CitiesResponse{
		Cities:    source.Search(c.Query("q")),
		Countries: h.catalog.Countries(),
	})
}
