package service

import (
	"context"
	"net/url"
	"slices"

	"github.com/miarma/api/internal/model"
	"github.com/miarma/api/internal/repository"
	"github.com/miarma/api/internal/validation"
	"github.com/shopspring/decimal"
)

type IncomeInput struct {
	MemberNumber int                   `json:"member_number" validate:"required,min=1"`
	Concept      string                `json:"concept" validate:"required,max=255"`
	Amount       decimal.Decimal       `json:"amount"`
	Type         int                   `json:"type" validate:"min=0"`
	Frequency    model.IncomeFrequency `json:"frequency" validate:"min=0,max=2"`
}

func (in *IncomeInput) Validate() error {
	if !in.Amount.IsPositive() {
		return validation.CustomValidationErrors{{Field: "amount", Message: "must be greater than 0"}}
	}
	return validation.Validate.Struct(in)
}

type IncomeService struct {
	incomes repository.DAO[model.Income]
}

func NewIncomeService(repos *repository.Repositories) *IncomeService {
	return &IncomeService{incomes: repos.Incomes}
}

func (s *IncomeService) GetAll(ctx context.Context) ([]*model.Income, error) {
	return s.incomes.GetAll(ctx)
}

func (s *IncomeService) Find(ctx context.Context, params url.Values) ([]*model.Income, error) {
	return s.incomes.FindParams(ctx, params)
}

func (s *IncomeService) GetByMemberNumber(ctx context.Context, n int) ([]*model.Income, error) {
	incomes, err := s.incomes.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(incomes, func(i *model.Income) bool { return i.MemberNumber != n }), nil
}

// Total sums every income paid by a member.
func (s *IncomeService) Total(ctx context.Context, memberNumber int) (decimal.Decimal, error) {
	incomes, err := s.GetByMemberNumber(ctx, memberNumber)
	if err != nil {
		return decimal.Zero, err
	}
	return SumAmounts(incomes), nil
}

// SumAmounts adds up the amounts of incomes.
func SumAmounts(incomes []*model.Income) decimal.Decimal {
	total := decimal.Zero
	for _, i := range incomes {
		total = total.Add(i.Amount)
	}
	return total
}

func (s *IncomeService) Create(ctx context.Context, in *IncomeInput) (*model.Income, error) {
	return s.incomes.Insert(ctx, &model.Income{
		MemberNumber: in.MemberNumber,
		Concept:      in.Concept,
		Amount:       in.Amount,
		Type:         in.Type,
		Frequency:    in.Frequency,
	})
}

func (s *IncomeService) Delete(ctx context.Context, id int64) (*model.Income, error) {
	income, err := s.incomes.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if income == nil {
		return nil, notFound("Income")
	}
	return income, nil
}
