package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finance-tracker/finance-api/internal/core/domain"
	"github.com/finance-tracker/finance-api/internal/core/ports"
)

// ProfileHandler serves the authenticated user's financial targets.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Get handles GET /profile.
//
// @Summary      Get the current user's profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	profile, err := h.service.Get(c.Request().Context(), p.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// Update handles PUT /profile. Omitted amounts are stored as unset.
//
// @Summary      Create or replace the current user's profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileRequest  true  "Monthly targets"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	profile, err := h.service.Save(c.Request().Context(), p.Username, ports.ProfileInput{
		MonthlyIncome:        req.MonthlyIncome,
		MonthlySavingsTarget: req.MonthlySavingsTarget,
		MonthlyExpenseTarget: req.MonthlyExpenseTarget,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "amounts must not be negative"})
		case errors.Is(err, domain.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

func toProfileResponse(p *domain.Profile) profileResponse {
	resp := profileResponse{
		MonthlyIncome:        p.MonthlyIncome,
		MonthlySavingsTarget: p.MonthlySavingsTarget,
		MonthlyExpenseTarget: p.MonthlyExpenseTarget,
	}
	if !p.UpdatedAt.IsZero() {
		updated := p.UpdatedAt.UTC()
		resp.UpdatedAt = &updated
	}
	return resp
}
