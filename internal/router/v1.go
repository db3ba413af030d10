package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/miarma/api/internal/handler"
)

// registerV1Routes mounts the resource endpoints. List endpoints accept the
// filter query string: _sort, _order, _limit, _offset and column[op]=value.
func registerV1Routes(g *echo.Group, h *handler.Handlers) {
	mods := g.Group("/mods")
	mods.GET("", handler.Handle(h.Mods.Handler, h.Mods.List, http.StatusOK))
	mods.GET("/:id", handler.Handle(h.Mods.Handler, h.Mods.Get, http.StatusOK))
	mods.POST("", handler.Handle(h.Mods.Handler, h.Mods.Create, http.StatusCreated))
	mods.PUT("/:id", handler.Handle(h.Mods.Handler, h.Mods.Update, http.StatusOK))
	mods.DELETE("/:id", handler.HandleNoContent(h.Mods.Handler, h.Mods.Delete, http.StatusNoContent))

	members := g.Group("/members")
	members.GET("", handler.Handle(h.Members.Handler, h.Members.List, http.StatusOK))
	members.GET("/waitlist", handler.Handle(h.Members.Handler, h.Members.Waitlist, http.StatusOK))
	members.GET("/last-member-number", handler.Handle(h.Members.Handler, h.Members.LastMemberNumber, http.StatusOK))
	members.GET("/number/:number", handler.Handle(h.Members.Handler, h.Members.GetByNumber, http.StatusOK))
	members.GET("/:id", handler.Handle(h.Members.Handler, h.Members.Get, http.StatusOK))
	members.POST("", handler.Handle(h.Members.Handler, h.Members.Create, http.StatusCreated))
	members.PUT("/:id", handler.Handle(h.Members.Handler, h.Members.Update, http.StatusOK))
	members.DELETE("/:id", handler.HandleNoContent(h.Members.Handler, h.Members.Delete, http.StatusNoContent))

	movies := g.Group("/movies")
	movies.GET("", handler.Handle(h.Movies.Handler, h.Movies.List, http.StatusOK))
	movies.GET("/:id", handler.Handle(h.Movies.Handler, h.Movies.Get, http.StatusOK))
	movies.POST("", handler.Handle(h.Movies.Handler, h.Movies.Create, http.StatusCreated))
	movies.POST("/:id/votes", handler.Handle(h.Movies.Handler, h.Movies.Vote, http.StatusOK))

	announces := g.Group("/announces")
	announces.GET("", handler.Handle(h.Announces.Handler, h.Announces.List, http.StatusOK))
	announces.GET("/:id", handler.Handle(h.Announces.Handler, h.Announces.Get, http.StatusOK))
	announces.POST("", handler.Handle(h.Announces.Handler, h.Announces.Create, http.StatusCreated))
	announces.PUT("/:id", handler.Handle(h.Announces.Handler, h.Announces.Update, http.StatusOK))
	announces.DELETE("/:id", handler.HandleNoContent(h.Announces.Handler, h.Announces.Delete, http.StatusNoContent))

	incomes := g.Group("/incomes")
	incomes.GET("", handler.Handle(h.Incomes.Handler, h.Incomes.List, http.StatusOK))
	incomes.GET("/member/:number", handler.Handle(h.Incomes.Handler, h.Incomes.ByMember, http.StatusOK))
	incomes.POST("", handler.Handle(h.Incomes.Handler, h.Incomes.Create, http.StatusCreated))
	incomes.DELETE("/:id", handler.HandleNoContent(h.Incomes.Handler, h.Incomes.Delete, http.StatusNoContent))
}
