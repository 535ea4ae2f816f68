package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"globetrotter/internal/catalog"
	"globetrotter/pkg/utils"
)

type CatalogController struct {
	catalog *catalog.Catalog
}

func NewCatalogController(cat *catalog.Catalog) *CatalogController {
	return &CatalogController{catalog: cat}
}

// ListPlaces godoc
// @Summary List catalog places with their activities
// @Tags Catalog
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /catalog/places [get]
func (p *CatalogController) ListPlaces(c *gin.Context) {
	utils.RespondSuccess(c, p.catalog.Places(), "Places retrieved successfully")
}

// GetPlace godoc
// @Summary Get one catalog place
// @Tags Catalog
// @Produce json
// @Param placeId path string true "Place ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /catalog/places/{placeId} [get]
func (p *CatalogController) GetPlace(c *gin.Context) {
	place, ok := p.catalog.Place(c.Param("placeId"))
	if !ok {
		utils.RespondError(c, http.StatusNotFound, "Place not found")
		return
	}
	utils.RespondSuccess(c, place, "Place retrieved successfully")
}
