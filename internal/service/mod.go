package service

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/miarma/api/internal/model"
	"github.com/miarma/api/internal/repository"
	"github.com/miarma/api/internal/validation"
	"github.com/rs/zerolog"
)

type ModInput struct {
	Name     string          `json:"name" validate:"required,max=100"`
	Filename string          `json:"filename" validate:"required,max=255"`
	Size     int64           `json:"size" validate:"min=0"`
	Status   model.ModStatus `json:"status" validate:"min=0,max=1"`
}

func (in *ModInput) Validate() error {
	return validation.Validate.Struct(in)
}

// ModService manages the game server's mod list and announces additions
// and removals to the community.
type ModService struct {
	mods     repository.DAO[model.Mod]
	notifier Notifier
	logger   *zerolog.Logger
}

func NewModService(repos *repository.Repositories, notifier Notifier, logger *zerolog.Logger) *ModService {
	return &ModService{mods: repos.Mods, notifier: notifier, logger: nopLogger(logger)}
}

func (s *ModService) GetAll(ctx context.Context) ([]*model.Mod, error) {
	return s.mods.GetAll(ctx)
}

func (s *ModService) Find(ctx context.Context, params url.Values) ([]*model.Mod, error) {
	return s.mods.FindParams(ctx, params)
}

func (s *ModService) GetByID(ctx context.Context, id int64) (*model.Mod, error) {
	mods, err := s.mods.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(mods, func(m *model.Mod) bool { return m.ID == id })
	if i < 0 {
		return nil, notFound("Mod")
	}
	return mods[i], nil
}

func (s *ModService) Create(ctx context.Context, in *ModInput) (*model.Mod, error) {
	mod, err := s.mods.Insert(ctx, &model.Mod{
		Name:     in.Name,
		Filename: in.Filename,
		Size:     in.Size,
		Status:   in.Status,
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, fmt.Sprintf("Se ha añadido el mod **%s** a la lista @everyone", mod.Name))
	return mod, nil
}

func (s *ModService) Update(ctx context.Context, id int64, in *ModInput) (*model.Mod, error) {
	existing, err := s.mods.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, notFound("Mod")
	}

	existing.Name = in.Name
	existing.Filename = in.Filename
	existing.Size = in.Size
	existing.Status = in.Status
	now := time.Now().UTC()
	existing.UpdatedAt = &now

	mod, err := s.mods.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	if mod == nil {
		return nil, notFound("Mod")
	}
	return mod, nil
}

func (s *ModService) Delete(ctx context.Context, id int64) (*model.Mod, error) {
	mod, err := s.mods.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if mod == nil {
		return nil, notFound("Mod")
	}

	s.notify(ctx, fmt.Sprintf("Se ha eliminado el mod **%s** de la lista @everyone", mod.Name))
	return mod, nil
}

// notify never fails the calling operation; the change is already stored.
func (s *ModService) notify(ctx context.Context, content string) {
	if err := s.notifier.Notify(ctx, content); err != nil {
		s.logger.Error().Err(err).Msg("failed to queue mod notice")
	}
}
