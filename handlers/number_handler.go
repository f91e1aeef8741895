package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/hagateway/twilio-dispatch/internal/service"
	"github.com/hagateway/twilio-dispatch/pkg/response"
)

type NumberHandler struct {
	service *service.DispatchService
}

func NewNumberHandler(service *service.DispatchService) *NumberHandler {
	return &NumberHandler{service: service}
}

// GetNumbers godoc
// @Summary List provider phone numbers
// @Description Returns the phone numbers registered on the provider account, usable as from_number
// @Tags numbers
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key for messages"
// @Success 200 {object} response.SuccessResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /api/v1/numbers [get]
func (h *NumberHandler) GetNumbers(c echo.Context) error {
	numbers, err := h.service.ListProviderNumbers(c.Request().Context())
	if err != nil {
		return response.BadGatewayWithData(c, err.Error(), nil)
	}

	return response.Ok(c, numbers)
}
