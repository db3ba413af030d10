package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/miarma/api/internal/model"
	"github.com/miarma/api/internal/server"
	"github.com/miarma/api/internal/service"
)

type ModHandler struct {
	Handler
	mods *service.ModService
}

func NewModHandler(s *server.Server, mods *service.ModService) *ModHandler {
	return &ModHandler{Handler: NewHandler(s), mods: mods}
}

func (h *ModHandler) List(c echo.Context, _ *ListRequest) ([]*model.Mod, error) {
	return h.mods.Find(c.Request().Context(), c.QueryParams())
}

func (h *ModHandler) Get(c echo.Context, req *IDRequest) (*model.Mod, error) {
	return h.mods.GetByID(c.Request().Context(), req.ID)
}

func (h *ModHandler) Create(c echo.Context, req *service.ModInput) (*model.Mod, error) {
	return h.mods.Create(c.Request().Context(), req)
}

func (h *ModHandler) Update(c echo.Context, req *UpdateModRequest) (*model.Mod, error) {
	return h.mods.Update(c.Request().Context(), req.ID, &req.ModInput)
}

func (h *ModHandler) Delete(c echo.Context, req *IDRequest) error {
	_, err := h.mods.Delete(c.Request().Context(), req.ID)
	return err
}
