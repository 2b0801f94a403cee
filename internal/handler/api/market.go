package api

import (
	"net/http"

	"fio-market/internal/handler/middleware"
	"fio-market/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type MarketHandler struct {
	marketQueries queries.MarketQueries
}

func NewMarketHandler(marketQueries queries.MarketQueries) *MarketHandler {
	return &MarketHandler{
		marketQueries: marketQueries,
	}
}

func listingFilters(c *gin.Context) queries.Filters {
	return queries.Filters{
		Commodity:   c.Query("commodity"),
		Location:    c.Query("location"),
		Destination: c.Query("destination"),
	}
}

// @Summary List sell listings
// @Description Assembled sell-side market view for the authenticated viewer
// @Tags market
// @Produce json
// @Security BearerAuth
// @Param commodity query string false "Commodity ticker filter"
// @Param location query string false "Location filter"
// @Param destination query string false "Destination for jump-count annotation and sorting"
// @Success 200 {array} queries.SellListing
// @Failure 401 {object} map[string]string
// @Router /market/sell [get]
func (h *MarketHandler) ListSellListings(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		abortMissingIdentity(c)
		return
	}

	listings, err := h.marketQueries.ListSellListings(c.Request.Context(), identity, listingFilters(c))
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, listings)
}

// @Summary List buy listings
// @Description Assembled buy-side market view for the authenticated viewer
// @Tags market
// @Produce json
// @Security BearerAuth
// @Param commodity query string false "Commodity ticker filter"
// @Param location query string false "Location filter"
// @Param destination query string false "Destination for jump-count annotation and sorting"
// @Success 200 {array} queries.BuyListing
// @Failure 401 {object} map[string]string
// @Router /market/buy [get]
func (h *MarketHandler) ListBuyListings(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		abortMissingIdentity(c)
		return
	}

	listings, err := h.marketQueries.ListBuyListings(c.Request.Context(), identity, listingFilters(c))
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, listings)
}
