package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/miarma/api/internal/model"
	"github.com/miarma/api/internal/server"
	"github.com/miarma/api/internal/service"
)

type MovieHandler struct {
	Handler
	movies *service.MovieService
}

func NewMovieHandler(s *server.Server, movies *service.MovieService) *MovieHandler {
	return &MovieHandler{Handler: NewHandler(s), movies: movies}
}

func (h *MovieHandler) List(c echo.Context, _ *ListRequest) ([]*model.Movie, error) {
	return h.movies.Find(c.Request().Context(), c.QueryParams())
}

// Get answers with the movie, its votes and their average.
func (h *MovieHandler) Get(c echo.Context, req *MovieIDRequest) (*service.MovieDetail, error) {
	return h.movies.Detail(c.Request().Context(), req.UUID())
}

func (h *MovieHandler) Create(c echo.Context, req *service.MovieInput) (*model.Movie, error) {
	return h.movies.Create(c.Request().Context(), req)
}

func (h *MovieHandler) Vote(c echo.Context, req *VoteRequest) (*model.Vote, error) {
	return h.movies.Vote(c.Request().Context(), uuid.MustParse(req.MovieID), &req.VoteInput)
}
