package service

import (
	"context"
	"net/url"

	"github.com/miarma/api/internal/model"
	"github.com/miarma/api/internal/repository"
	"github.com/miarma/api/internal/validation"
)

type AnnounceInput struct {
	Body        string `json:"body" validate:"required,max=2000"`
	Priority    int    `json:"priority" validate:"min=0,max=2"`
	PublishedBy *int64 `json:"published_by"`
}

func (in *AnnounceInput) Validate() error {
	return validation.Validate.Struct(in)
}

type AnnounceService struct {
	announces repository.DAO[model.Announce]
}

func NewAnnounceService(repos *repository.Repositories) *AnnounceService {
	return &AnnounceService{announces: repos.Announces}
}

func (s *AnnounceService) GetAll(ctx context.Context) ([]*model.Announce, error) {
	return s.announces.GetAll(ctx)
}

func (s *AnnounceService) Find(ctx context.Context, params url.Values) ([]*model.Announce, error) {
	return s.announces.FindParams(ctx, params)
}

func (s *AnnounceService) GetByID(ctx context.Context, id int64) (*model.Announce, error) {
	a, err := s.announces.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, notFound("Announce")
	}
	return a, nil
}

func (s *AnnounceService) Create(ctx context.Context, in *AnnounceInput) (*model.Announce, error) {
	return s.announces.Insert(ctx, &model.Announce{
		Body:        in.Body,
		Priority:    in.Priority,
		PublishedBy: in.PublishedBy,
	})
}

func (s *AnnounceService) Update(ctx context.Context, id int64, in *AnnounceInput) (*model.Announce, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	a, err := s.announces.Update(ctx, &model.Announce{
		ID:          id,
		Body:        in.Body,
		Priority:    in.Priority,
		PublishedBy: in.PublishedBy,
	})
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, notFound("Announce")
	}
	return a, nil
}

func (s *AnnounceService) Delete(ctx context.Context, id int64) (*model.Announce, error) {
	a, err := s.announces.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, notFound("Announce")
	}
	return a, nil
}
