package recommendation

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/models"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/recommend"
)

var validate = validator.New()

// Register registers recommendation routes
func Register(g *echo.Group) {
	g.POST("", CreateRecommendation)
}

// CreateRecommendation resolves a query to verified place recommendations
func CreateRecommendation(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.RecommendRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, service, err := ectoinject.GetContext[*recommend.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	response, err := service.Recommend(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, response)
}
