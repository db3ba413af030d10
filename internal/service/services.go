// Package service holds the business operations of each microservice.
//
// Services reach the database only through repository DAOs. Lookups by
// anything other than a primary key filter GetAll in memory.
package service

import (
	"context"

	"github.com/miarma/api/internal/errs"
	"github.com/miarma/api/internal/lib/job"
	"github.com/miarma/api/internal/lib/password"
	"github.com/miarma/api/internal/repository"
	"github.com/miarma/api/internal/server"
	"github.com/rs/zerolog"
)

// Notifier delivers a short community notice, such as a webhook message.
type Notifier interface {
	Notify(ctx context.Context, content string) error
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, string) error { return nil }

type Services struct {
	Members   *MemberService
	Announces *AnnounceService
	Incomes   *IncomeService
	Movies    *MovieService
	Mods      *ModService
	Job       *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	var notifier Notifier = nopNotifier{}
	if s.Job != nil {
		notifier = s.Job
	}

	return &Services{
		Members:   NewMemberService(repos, password.NewBcrypt(), s.Logger),
		Announces: NewAnnounceService(repos),
		Incomes:   NewIncomeService(repos),
		Movies:    NewMovieService(repos),
		Mods:      NewModService(repos, notifier, s.Logger),
		Job:       s.Job,
	}
}

func notFound(entity string) error {
	return errs.NewNotFoundError(entity+" not found", true, nil)
}

func nopLogger(l *zerolog.Logger) *zerolog.Logger {
	if l != nil {
		return l
	}
	nop := zerolog.Nop()
	return &nop
}
