package repository

import (
	"fmt"

	"github.com/miarma/api/internal/database"
	"github.com/miarma/api/internal/filter"
	"github.com/miarma/api/internal/model"
)

var (
	_ DAO[model.User] = (*Repository[model.User])(nil)
	_ DAO[model.Vote] = (*Repository[model.Vote])(nil)

	_ Reader[model.Member] = (*Repository[model.Member])(nil)
)

// Repositories holds one DAO per persistent entity. Members is backed by a
// view, so it only gets a Reader.
type Repositories struct {
	Users        DAO[model.User]
	UserMetadata DAO[model.UserMetadata]
	Members      Reader[model.Member]
	Announces    DAO[model.Announce]
	Incomes      DAO[model.Income]
	Movies       DAO[model.Movie]
	Votes        DAO[model.Vote]
	Mods         DAO[model.Mod]
}

// NewRepositories builds every repository on the shared manager. A broken
// entity schema is reported here, at startup.
func NewRepositories(db *database.Manager, opts filter.Options) (*Repositories, error) {
	var (
		repos Repositories
		err   error
	)
	if repos.Users, err = newDAO[model.User](db, opts); err != nil {
		return nil, err
	}
	if repos.UserMetadata, err = newDAO[model.UserMetadata](db, opts); err != nil {
		return nil, err
	}
	if repos.Members, err = newReader[model.Member](db, opts); err != nil {
		return nil, err
	}
	if repos.Announces, err = newDAO[model.Announce](db, opts); err != nil {
		return nil, err
	}
	if repos.Incomes, err = newDAO[model.Income](db, opts); err != nil {
		return nil, err
	}
	if repos.Movies, err = newDAO[model.Movie](db, opts); err != nil {
		return nil, err
	}
	if repos.Votes, err = newDAO[model.Vote](db, opts); err != nil {
		return nil, err
	}
	if repos.Mods, err = newDAO[model.Mod](db, opts); err != nil {
		return nil, err
	}
	return &repos, nil
}

func newDAO[T any](db *database.Manager, opts filter.Options) (DAO[T], error) {
	r, err := New[T](db, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to describe entity: %w", err)
	}
	return r, nil
}

func newReader[T any](db *database.Manager, opts filter.Options) (Reader[T], error) {
	return newDAO[T](db, opts)
}
