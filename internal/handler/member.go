package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/miarma/api/internal/model"
	"github.com/miarma/api/internal/server"
	"github.com/miarma/api/internal/service"
)

type MemberHandler struct {
	Handler
	members *service.MemberService
}

func NewMemberHandler(s *server.Server, members *service.MemberService) *MemberHandler {
	return &MemberHandler{Handler: NewHandler(s), members: members}
}

func (h *MemberHandler) List(c echo.Context, _ *ListRequest) ([]*model.Member, error) {
	return h.members.Find(c.Request().Context(), c.QueryParams())
}

func (h *MemberHandler) Get(c echo.Context, req *IDRequest) (*model.Member, error) {
	return h.members.GetByID(c.Request().Context(), req.ID)
}

func (h *MemberHandler) GetByNumber(c echo.Context, req *MemberNumberRequest) (*model.Member, error) {
	return h.members.GetByMemberNumber(c.Request().Context(), req.Number)
}

func (h *MemberHandler) Waitlist(c echo.Context, _ *ListRequest) ([]*model.Member, error) {
	return h.members.GetWaitlist(c.Request().Context())
}

type LastMemberNumberResponse struct {
	MemberNumber int `json:"member_number"`
}

func (h *MemberHandler) LastMemberNumber(c echo.Context, _ *ListRequest) (*LastMemberNumberResponse, error) {
	n, err := h.members.GetLastMemberNumber(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return &LastMemberNumberResponse{MemberNumber: n}, nil
}

func (h *MemberHandler) Create(c echo.Context, req *service.CreateMemberInput) (*model.Member, error) {
	return h.members.Create(c.Request().Context(), req)
}

func (h *MemberHandler) Update(c echo.Context, req *UpdateMemberRequest) (*model.Member, error) {
	return h.members.Update(c.Request().Context(), req.ID, &req.UpdateMemberInput)
}

func (h *MemberHandler) Delete(c echo.Context, req *IDRequest) error {
	_, err := h.members.Delete(c.Request().Context(), req.ID)
	return err
}
