package service

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/miarma/api/internal/async"
	"github.com/miarma/api/internal/filter"
	"github.com/miarma/api/internal/model"
	"github.com/miarma/api/internal/repository"
	"github.com/miarma/api/internal/validation"
)

type MovieInput struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description *string    `json:"description"`
	Cover       *string    `json:"cover" validate:"omitempty,url"`
	ReleaseDate *time.Time `json:"release_date"`
}

func (in *MovieInput) Validate() error {
	return validation.Validate.Struct(in)
}

type VoteInput struct {
	UserID int64 `json:"user_id" validate:"required,min=1"`
	Vote   int   `json:"vote" validate:"required,min=1,max=5"`
}

func (in *VoteInput) Validate() error {
	return validation.Validate.Struct(in)
}

// MovieDetail is a movie with its votes and their mean.
type MovieDetail struct {
	*model.Movie
	Votes   []*model.Vote `json:"votes"`
	Average float64       `json:"average"`
}

type MovieService struct {
	movies repository.DAO[model.Movie]
	votes  repository.DAO[model.Vote]
}

func NewMovieService(repos *repository.Repositories) *MovieService {
	return &MovieService{movies: repos.Movies, votes: repos.Votes}
}

func (s *MovieService) GetAll(ctx context.Context) ([]*model.Movie, error) {
	return s.movies.GetAll(ctx)
}

func (s *MovieService) Find(ctx context.Context, params url.Values) ([]*model.Movie, error) {
	return s.movies.FindParams(ctx, params)
}

func (s *MovieService) GetByID(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	m, err := s.movies.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, notFound("Movie")
	}
	return m, nil
}

// Detail loads a movie and its votes concurrently.
func (s *MovieService) Detail(ctx context.Context, id uuid.UUID) (*MovieDetail, error) {
	movie := async.Go(ctx, func(ctx context.Context) (*model.Movie, error) {
		return s.GetByID(ctx, id)
	})
	votes := async.Go(ctx, func(ctx context.Context) ([]*model.Vote, error) {
		return s.votes.Find(ctx, filter.Where(filter.Eq("movie_id", id)))
	})

	m, err := movie.Await(ctx)
	if err != nil {
		return nil, err
	}
	vs, err := votes.Await(ctx)
	if err != nil {
		return nil, err
	}

	detail := &MovieDetail{Movie: m, Votes: vs}
	if len(vs) > 0 {
		sum := 0
		for _, v := range vs {
			sum += v.Vote
		}
		detail.Average = float64(sum) / float64(len(vs))
	}
	return detail, nil
}

func (s *MovieService) Create(ctx context.Context, in *MovieInput) (*model.Movie, error) {
	return s.movies.Insert(ctx, &model.Movie{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		Cover:       in.Cover,
		ReleaseDate: in.ReleaseDate,
	})
}

// Vote records a user's score for a movie, replacing an earlier one.
func (s *MovieService) Vote(ctx context.Context, movieID uuid.UUID, in *VoteInput) (*model.Vote, error) {
	if _, err := s.GetByID(ctx, movieID); err != nil {
		return nil, err
	}

	existing, err := s.votes.Get(ctx, movieID, in.UserID)
	if err != nil {
		return nil, err
	}

	vote := &model.Vote{MovieID: movieID, UserID: in.UserID, Vote: in.Vote}
	if existing == nil {
		return s.votes.Insert(ctx, vote)
	}
	return s.votes.Update(ctx, vote)
}
