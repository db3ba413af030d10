package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/miarma/api/internal/entity"
)

type Movie struct {
	ID          uuid.UUID  `json:"movie_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Cover       *string    `json:"cover,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

func (Movie) Schema() entity.Schema[Movie] {
	return entity.Schema[Movie]{
		Table: "cine_movies",
		Columns: []entity.Column[Movie]{
			entity.Col("movie_id", func(m *Movie) *uuid.UUID { return &m.ID }).Key(),
			entity.Col("title", func(m *Movie) *string { return &m.Title }),
			entity.NullCol("description", func(m *Movie) **string { return &m.Description }),
			entity.NullCol("cover", func(m *Movie) **string { return &m.Cover }),
			entity.NullCol("release_date", func(m *Movie) **time.Time { return &m.ReleaseDate }),
			entity.NullCol("created_at", func(m *Movie) **time.Time { return &m.CreatedAt }),
		},
	}
}

// Vote is one user's score for one movie.
type Vote struct {
	MovieID uuid.UUID  `json:"movie_id"`
	UserID  int64      `json:"user_id"`
	Vote    int        `json:"vote"`
	VotedAt *time.Time `json:"voted_at,omitempty"`
}

func (Vote) Schema() entity.Schema[Vote] {
	return entity.Schema[Vote]{
		Table: "cine_votes",
		Columns: []entity.Column[Vote]{
			entity.Col("movie_id", func(v *Vote) *uuid.UUID { return &v.MovieID }).Key(),
			entity.Col("user_id", func(v *Vote) *int64 { return &v.UserID }).Key(),
			entity.Col("vote", func(v *Vote) *int { return &v.Vote }),
			entity.NullCol("voted_at", func(v *Vote) **time.Time { return &v.VotedAt }),
		},
	}
}
