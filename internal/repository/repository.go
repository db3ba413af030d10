// Package repository implements the generic CRUD contract every domain
// entity is persisted through.
//
// A Repository[T] composes the query builder with the pool manager and adds
// no SQL of its own. Lookups by anything other than the primary key belong
// to the services, which filter the result of GetAll in memory.
package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/miarma/api/internal/database"
	"github.com/miarma/api/internal/entity"
	"github.com/miarma/api/internal/filter"
	"github.com/miarma/api/internal/query"
)

// Reader is the read half of DAO. Entities backed by a view are exposed
// through it alone. Single-entity methods return nil with a nil error when
// no row matched.
type Reader[T any] interface {
	// GetAll returns every row, unpaged.
	GetAll(ctx context.Context) ([]*T, error)
	// Find returns the rows selected by a validated spec.
	Find(ctx context.Context, spec filter.Spec) ([]*T, error)
	// FindParams parses raw query-string parameters and runs Find. An
	// invalid parameter fails before any statement is sent.
	FindParams(ctx context.Context, params url.Values) ([]*T, error)
	// Get returns the row with the given primary key.
	Get(ctx context.Context, key ...any) (*T, error)
}

// DAO is the data-access contract for one entity type.
type DAO[T any] interface {
	Reader[T]

	// Insert stores e and returns the row as the database now holds it,
	// including generated keys and column defaults.
	Insert(ctx context.Context, e *T) (*T, error)
	// Update writes the non-null fields of e; null fields keep their
	// stored values.
	Update(ctx context.Context, e *T) (*T, error)
	// UpdateWithNulls writes every field of e, clearing columns whose
	// field is null.
	UpdateWithNulls(ctx context.Context, e *T) (*T, error)
	// Delete removes the row with the given primary key and returns it.
	// Deleting a missing row returns nil.
	Delete(ctx context.Context, key ...any) (*T, error)
}

// Repository is the DAO implementation shared by every entity type.
type Repository[T any] struct {
	db      *database.Manager
	desc    *entity.Descriptor[T]
	builder *query.Builder[T]
	opts    filter.Options
}

// New builds the repository of T. It fails when T's schema is invalid.
func New[T any](db *database.Manager, opts filter.Options) (*Repository[T], error) {
	desc, err := entity.Describe[T]()
	if err != nil {
		return nil, err
	}
	return &Repository[T]{
		db:      db,
		desc:    desc,
		builder: query.NewBuilder(db.Dialect(), desc),
		opts:    opts,
	}, nil
}

// Descriptor exposes the entity descriptor, for parsing filters upstream.
func (r *Repository[T]) Descriptor() *entity.Descriptor[T] {
	return r.desc
}

func (r *Repository[T]) GetAll(ctx context.Context) ([]*T, error) {
	return r.Find(ctx, filter.Spec{})
}

func (r *Repository[T]) Find(ctx context.Context, spec filter.Spec) ([]*T, error) {
	stmt, err := r.builder.Select(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to build select on %s: %w", r.desc.Table(), err)
	}
	return database.Execute(ctx, r.db, stmt, r.desc)
}

func (r *Repository[T]) FindParams(ctx context.Context, params url.Values) ([]*T, error) {
	spec, err := filter.ParseValues(params, r.desc, r.opts)
	if err != nil {
		return nil, err
	}
	return r.Find(ctx, spec)
}

func (r *Repository[T]) Get(ctx context.Context, key ...any) (*T, error) {
	stmt, err := r.builder.SelectByKey(key...)
	if err != nil {
		return nil, fmt.Errorf("failed to build select on %s: %w", r.desc.Table(), err)
	}
	return database.ExecuteOne(ctx, r.db, stmt, r.desc)
}

func (r *Repository[T]) Insert(ctx context.Context, e *T) (*T, error) {
	stmt, err := r.builder.Insert(e)
	if err != nil {
		return nil, fmt.Errorf("failed to build insert on %s: %w", r.desc.Table(), err)
	}
	if stmt.Returning {
		return database.ExecuteOne(ctx, r.db, stmt, r.desc)
	}

	res, err := r.db.Exec(ctx, stmt)
	if err != nil {
		return nil, err
	}

	key := r.desc.KeyValues(e)
	if stmt.Generated != "" {
		if !res.HasLastInsertID {
			return nil, fmt.Errorf("driver reported no generated key for %s", r.desc.Table())
		}
		key = []any{res.LastInsertID}
	}
	return r.Get(ctx, key...)
}

func (r *Repository[T]) Update(ctx context.Context, e *T) (*T, error) {
	return r.update(ctx, e, query.Partial)
}

func (r *Repository[T]) UpdateWithNulls(ctx context.Context, e *T) (*T, error) {
	return r.update(ctx, e, query.WithNulls)
}

func (r *Repository[T]) update(ctx context.Context, e *T, mode query.UpdateMode) (*T, error) {
	stmt, err := r.builder.Update(e, mode)
	switch {
	case errors.Is(err, query.ErrNothingToUpdate):
		return r.Get(ctx, r.desc.KeyValues(e)...)
	case err != nil:
		return nil, fmt.Errorf("failed to build %s update on %s: %w", mode, r.desc.Table(), err)
	}

	if stmt.Returning {
		return database.ExecuteOne(ctx, r.db, stmt, r.desc)
	}
	// MySQL reports zero affected rows for an unchanged row, so the
	// result is always read back.
	if _, err := r.db.Exec(ctx, stmt); err != nil {
		return nil, err
	}
	return r.Get(ctx, r.desc.KeyValues(e)...)
}

func (r *Repository[T]) Delete(ctx context.Context, key ...any) (*T, error) {
	stmt, err := r.builder.Delete(key...)
	if err != nil {
		return nil, fmt.Errorf("failed to build delete on %s: %w", r.desc.Table(), err)
	}
	if stmt.Returning {
		return database.ExecuteOne(ctx, r.db, stmt, r.desc)
	}

	existing, err := r.Get(ctx, key...)
	if err != nil || existing == nil {
		return nil, err
	}
	if _, err := r.db.Exec(ctx, stmt); err != nil {
		return nil, err
	}
	return existing, nil
}
