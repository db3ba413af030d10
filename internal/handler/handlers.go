package handler

import (
	"github.com/miarma/api/internal/server"
	"github.com/miarma/api/internal/service"
)

// Handlers groups every HTTP handler for the router.
type Handlers struct {
	Health    *HealthHandler
	Mods      *ModHandler
	Members   *MemberHandler
	Movies    *MovieHandler
	Announces *AnnounceHandler
	Incomes   *IncomeHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(s),
		Mods:      NewModHandler(s, services.Mods),
		Members:   NewMemberHandler(s, services.Members),
		Movies:    NewMovieHandler(s, services.Movies),
		Announces: NewAnnounceHandler(s, services.Announces),
		Incomes:   NewIncomeHandler(s, services.Incomes),
	}
}
