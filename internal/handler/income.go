package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/miarma/api/internal/model"
	"github.com/miarma/api/internal/server"
	"github.com/miarma/api/internal/service"
	"github.com/shopspring/decimal"
)

type IncomeHandler struct {
	Handler
	incomes *service.IncomeService
}

func NewIncomeHandler(s *server.Server, incomes *service.IncomeService) *IncomeHandler {
	return &IncomeHandler{Handler: NewHandler(s), incomes: incomes}
}

func (h *IncomeHandler) List(c echo.Context, _ *ListRequest) ([]*model.Income, error) {
	return h.incomes.Find(c.Request().Context(), c.QueryParams())
}

// MemberIncomes is a member's payments and their sum.
type MemberIncomes struct {
	Incomes []*model.Income `json:"incomes"`
	Total   decimal.Decimal `json:"total"`
}

func (h *IncomeHandler) ByMember(c echo.Context, req *MemberNumberRequest) (*MemberIncomes, error) {
	ctx := c.Request().Context()
	incomes, err := h.incomes.GetByMemberNumber(ctx, req.Number)
	if err != nil {
		return nil, err
	}
	return &MemberIncomes{Incomes: incomes, Total: service.SumAmounts(incomes)}, nil
}

func (h *IncomeHandler) Create(c echo.Context, req *service.IncomeInput) (*model.Income, error) {
	return h.incomes.Create(c.Request().Context(), req)
}

func (h *IncomeHandler) Delete(c echo.Context, req *IDRequest) error {
	_, err := h.incomes.Delete(c.Request().Context(), req.ID)
	return err
}
