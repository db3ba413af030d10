package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/miarma/api/internal/model"
	"github.com/miarma/api/internal/server"
	"github.com/miarma/api/internal/service"
)

type AnnounceHandler struct {
	Handler
	announces *service.AnnounceService
}

func NewAnnounceHandler(s *server.Server, announces *service.AnnounceService) *AnnounceHandler {
	return &AnnounceHandler{Handler: NewHandler(s), announces: announces}
}

func (h *AnnounceHandler) List(c echo.Context, _ *ListRequest) ([]*model.Announce, error) {
	return h.announces.Find(c.Request().Context(), c.QueryParams())
}

func (h *AnnounceHandler) Get(c echo.Context, req *IDRequest) (*model.Announce, error) {
	return h.announces.GetByID(c.Request().Context(), req.ID)
}

func (h *AnnounceHandler) Create(c echo.Context, req *service.AnnounceInput) (*model.Announce, error) {
	return h.announces.Create(c.Request().Context(), req)
}

func (h *AnnounceHandler) Update(c echo.Context, req *UpdateAnnounceRequest) (*model.Announce, error) {
	return h.announces.Update(c.Request().Context(), req.ID, &req.AnnounceInput)
}

func (h *AnnounceHandler) Delete(c echo.Context, req *IDRequest) error {
	_, err := h.announces.Delete(c.Request().Context(), req.ID)
	return err
}
