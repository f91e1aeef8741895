package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hagateway/twilio-dispatch/internal/dispatch"
	"github.com/hagateway/twilio-dispatch/internal/domain"
	"github.com/hagateway/twilio-dispatch/internal/service"
	"github.com/hagateway/twilio-dispatch/pkg/response"
	"github.com/hagateway/twilio-dispatch/pkg/validator"
)

type DispatchHandler struct {
	service *service.DispatchService
}

func NewDispatchHandler(service *service.DispatchService) *DispatchHandler {
	return &DispatchHandler{service: service}
}

// SendMessageRequest is the dispatch payload. Target and media_url accept
// either a single string or a list; the host platform renders any templates
// before the payload reaches us.
type SendMessageRequest struct {
	Target     domain.StringList `json:"target" validate:"required,min=1"`
	Message    string            `json:"message" validate:"required,max=1600"`
	FromNumber string            `json:"from_number" validate:"required"`
	MediaURL   domain.StringList `json:"media_url,omitempty"`
}

// SendMessage godoc
// @Summary Send a message now
// @Description Dispatches an SMS/MMS to one or more recipients synchronously and returns the per-recipient outcomes
// @Tags messages
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key for messages"
// @Param request body SendMessageRequest true "Message to dispatch"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.DispatchErrorResponse
// @Failure 422 {object} validator.ValidationErrorResponse
// @Failure 502 {object} response.SuccessResponse
// @Failure 503 {object} response.DispatchErrorResponse
// @Router /api/v1/messages/send [post]
func (h *DispatchHandler) SendMessage(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	dispatchRecord, err := h.service.SendNow(c.Request().Context(), req.FromNumber, req.Target, req.MediaURL, req.Message)
	if err != nil {
		return dispatchError(c, err)
	}

	// Pre-flight passed, so every planned send was attempted. Any recipient
	// failure is a provider-side problem and maps to 502 with the full
	// per-recipient breakdown.
	if dispatchRecord.Status != domain.StatusSent {
		return response.BadGatewayWithData(c, "One or more recipients failed", dispatchRecord)
	}

	return response.Ok(c, dispatchRecord)
}

// CreateDispatch godoc
// @Summary Queue a message
// @Description Validates and stores a dispatch for the scheduler to send on its next run
// @Tags messages
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key for messages"
// @Param request body SendMessageRequest true "Message to queue"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.DispatchErrorResponse
// @Failure 422 {object} validator.ValidationErrorResponse
// @Failure 503 {object} response.DispatchErrorResponse
// @Router /api/v1/messages [post]
func (h *DispatchHandler) CreateDispatch(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	dispatchRecord, err := h.service.Enqueue(c.Request().Context(), req.FromNumber, req.Target, req.MediaURL, req.Message)
	if err != nil {
		return dispatchError(c, err)
	}

	return response.Created(c, "Dispatch queued successfully", dispatchRecord)
}

// GetDispatch godoc
// @Summary Get a dispatch
// @Description Retrieves a single dispatch with its per-recipient outcomes
// @Tags messages
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key for messages"
// @Param id path string true "Dispatch ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/messages/{id} [get]
func (h *DispatchHandler) GetDispatch(c echo.Context) error {
	id := c.Param("id")

	dispatchRecord, err := h.service.GetDispatch(c.Request().Context(), id)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	if dispatchRecord == nil {
		return response.NotFound(c, fmt.Sprintf("no dispatch found with id %s", id))
	}

	return response.Ok(c, dispatchRecord)
}

// GetAllDispatches godoc
// @Summary Get all dispatches
// @Description Retrieves a paginated list of dispatches with optional status filter
// @Tags messages
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key for messages"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 100)"
// @Param status query string false "Filter by status (pending, sent, partial, failed)"
// @Success 200 {object} response.PaginatedResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/messages [get]
func (h *DispatchHandler) GetAllDispatches(c echo.Context) error {
	page, pageSize, err := parsePaginationParams(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	statusStr := c.QueryParam("status")

	// Convert status string to pointer (optional filter).
	var status *domain.DispatchStatus
	if statusStr != "" {
		parsedStatus := domain.DispatchStatus(statusStr)
		status = &parsedStatus
	}

	dispatches, totalCount, err := h.service.GetAllDispatches(c.Request().Context(), status, page, pageSize)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Paginated(c, dispatches, page, pageSize, totalCount)
}

// GetStats godoc
// @Summary Get dispatch statistics
// @Description Returns count of dispatches by status
// @Tags messages
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key for messages"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/messages/stats [get]
func (h *DispatchHandler) GetStats(c echo.Context) error {
	pending, sent, partial, failed, err := h.service.GetStats(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, map[string]any{
		"pending": pending,
		"sent":    sent,
		"partial": partial,
		"failed":  failed,
		"total":   pending + sent + partial + failed,
	})
}

// GetCachedDispatches godoc
// @Summary Get cached dispatch summaries from Redis
// @Description Returns the summaries of recently completed dispatches
// @Tags messages
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key for messages"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/messages/cached [get]
func (h *DispatchHandler) GetCachedDispatches(c echo.Context) error {
	cached, err := h.service.GetCachedSummaries(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, cached)
}

// ReplayAllFailedDispatches godoc
// @Summary Replay all failed dispatches
// @Description Re-queues every failed or partial dispatch so the scheduler can resend it
// @Tags messages
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key for messages"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/messages/replay [post]
func (h *DispatchHandler) ReplayAllFailedDispatches(c echo.Context) error {
	count, err := h.service.ReplayAllFailedDispatches(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, map[string]any{
		"replayed": count,
	})
}

// ReplayFailedDispatch godoc
// @Summary Replay a single failed dispatch
// @Description Re-queues a specific failed or partial dispatch so the scheduler can resend it
// @Tags messages
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key for messages"
// @Param id path string true "Dispatch ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/messages/{id}/replay [post]
func (h *DispatchHandler) ReplayFailedDispatch(c echo.Context) error {
	id := c.Param("id")

	if err := h.service.ReplayFailedDispatch(c.Request().Context(), id); err != nil {
		// We treat "no failed dispatch found" as a 400 here to avoid adding a new NotFound path.
		return response.BadRequest(c, err)
	}

	return response.Ok(c, map[string]any{
		"replayed": 1,
	})
}

// dispatchError maps the engine's typed pre-flight errors onto HTTP codes.
// Both cases mean nothing was sent, which is why they are distinct from the
// 502 a partial provider failure produces.
func dispatchError(c echo.Context, err error) error {
	var validationErr *dispatch.ValidationError
	var configErr *dispatch.ConfigurationError

	switch {
	case errors.As(err, &validationErr):
		return response.ValidationFailure(c, string(validationErr.Kind), validationErr.Value, err)
	case errors.As(err, &configErr):
		return response.ServiceUnavailable(c, string(configErr.Kind), err)
	default:
		return response.BadRequest(c, err)
	}
}

func parsePaginationParams(c echo.Context) (int, int, error) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)

	pageStr := c.QueryParam("page")
	pageSizeStr := c.QueryParam("pageSize")

	// Page
	page := defaultPage
	if pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p <= 0 {
			return 0, 0, fmt.Errorf("page must be a positive integer")
		}
		page = p
	}

	// Page size
	pageSize := defaultPageSize
	if pageSizeStr != "" {
		ps, err := strconv.Atoi(pageSizeStr)
		if err != nil || ps <= 0 || ps > maxPageSize {
			return 0, 0, fmt.Errorf("pageSize must be between 1 and %d", maxPageSize)
		}

		pageSize = ps
	}

	return page, pageSize, nil
}
