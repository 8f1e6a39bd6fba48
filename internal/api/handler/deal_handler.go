package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moderncrm/crm-api/internal/core/ports"
)

type DealHandler struct {
	service ports.DealService
}

func NewDealHandler(service ports.DealService) *DealHandler {
	return &DealHandler{service: service}
}

// List handles GET /api/deals.
//
// @Summary      List deals
// @Tags         deals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Deal
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /deals [get]
func (h *DealHandler) List(c echo.Context) error {
	deals, err := h.service.ListDeals(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deals)
}

// Create handles POST /api/deals.
//
// @Summary      Create a deal
// @Tags         deals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDealRequest  true  "Deal details"
// @Success      201   {object}  domain.Deal
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /deals [post]
func (h *DealHandler) Create(c echo.Context) error {
	var req createDealRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	expected, err := parseOptionalDate("expectedCloseDate", req.ExpectedCloseDate)
	if err != nil {
		return err
	}
	closeDate, err := parseOptionalDate("closeDate", req.CloseDate)
	if err != nil {
		return err
	}

	deal, err := h.service.CreateDeal(c.Request().Context(), ports.CreateDealInput{
		Title:             req.Title,
		Description:       req.Description,
		CustomerID:        req.CustomerID,
		CustomerName:      req.CustomerName,
		Value:             req.Value,
		Stage:             req.Stage,
		Probability:       req.Probability,
		ExpectedCloseDate: expected,
		CloseDate:         closeDate,
		Notes:             req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, deal)
}
