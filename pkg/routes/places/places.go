package places

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/bahaa0627-dev/wanderlog-sub000/internal/repositories/place"
)

// Register registers place routes
func Register(g *echo.Group) {
	g.GET("", ListPlaces)
	g.GET("/:id", GetPlace)
}

// GetPlace gets a merged place by id
func GetPlace(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")
	if id == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "id is required")
	}

	ctx, repo, err := ectoinject.GetContext[*place.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	record, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}

// ListPlaces lists merged places with optional filters
func ListPlaces(c echo.Context) error {
	ctx := c.Request().Context()

	city := c.QueryParam("city")
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	ctx, repo, err := ectoinject.GetContext[*place.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	records, err := repo.SearchByCity(ctx, city, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, records)
}
