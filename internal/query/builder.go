// Package query builds parameterized SELECT, INSERT, UPDATE and DELETE
// statements from an entity descriptor.
//
// Building never touches the database. Column and table names come only
// from the descriptor, which validated them; every value is bound. Columns
// are emitted in declaration order so the same input always yields the
// same text and argument order.
package query

import (
	"errors"
	"fmt"

	"github.com/miarma/api/internal/entity"
	"github.com/miarma/api/internal/filter"
)

var (
	ErrUnknownColumn   = errors.New("unknown column")
	ErrKeyArity        = errors.New("wrong number of key values")
	ErrMissingKey      = errors.New("primary key value is null")
	ErrNothingToUpdate = errors.New("no columns to update")
)

// UpdateMode selects which columns an UPDATE writes.
type UpdateMode int

const (
	// Partial writes only non-null columns; null fields leave the stored
	// value untouched.
	Partial UpdateMode = iota
	// WithNulls writes every non-key column, storing NULL for unset fields.
	WithNulls
)

func (m UpdateMode) String() string {
	if m == WithNulls {
		return "with_nulls"
	}
	return "partial"
}

// Builder produces statements for one entity type in one dialect.
// It is immutable and safe for concurrent use.
type Builder[T any] struct {
	desc    *entity.Descriptor[T]
	dialect Dialect
}

func NewBuilder[T any](dialect Dialect, desc *entity.Descriptor[T]) *Builder[T] {
	return &Builder[T]{desc: desc, dialect: dialect}
}

func (b *Builder[T]) Dialect() Dialect                 { return b.dialect }
func (b *Builder[T]) Descriptor() *entity.Descriptor[T] { return b.desc }

func (b *Builder[T]) writer() *writer {
	return &writer{dialect: b.dialect}
}

// Select builds
//
//	SELECT <columns> FROM <table> [WHERE c1 op ? AND ...] [ORDER BY ...] [LIMIT ? OFFSET ?]
//
// Each clause is omitted when the Spec has nothing for it.
func (b *Builder[T]) Select(spec filter.Spec) (Statement, error) {
	w := b.writer()
	w.raw("SELECT ").idents(b.desc.Names()).raw(" FROM ").ident(b.desc.Table())

	if err := b.where(w, spec.Where); err != nil {
		return Statement{}, err
	}

	for i, o := range spec.Order {
		if _, ok := b.desc.Column(o.Column); !ok {
			return Statement{}, fmt.Errorf("%w %q in order by", ErrUnknownColumn, o.Column)
		}
		if o.Direction != filter.Asc && o.Direction != filter.Desc {
			return Statement{}, fmt.Errorf("invalid sort direction %q", o.Direction)
		}
		if i == 0 {
			w.raw(" ORDER BY ")
		} else {
			w.raw(", ")
		}
		w.ident(o.Column).raw(" " + string(o.Direction))
	}

	if spec.Page != nil {
		w.raw(" LIMIT ").bind(spec.Page.Limit).raw(" OFFSET ").bind(spec.Page.Offset)
	}

	return w.statement(), nil
}

// SelectByKey selects the row with the given primary key values, in key
// column order.
func (b *Builder[T]) SelectByKey(key ...any) (Statement, error) {
	conds, err := b.keyConditions(key)
	if err != nil {
		return Statement{}, err
	}
	return b.Select(filter.Where(conds...))
}

// Insert builds an INSERT of every non-null column of e. The generated key
// column, if any, is always left to the database.
func (b *Builder[T]) Insert(e *T) (Statement, error) {
	var (
		names []string
		vals  []any
	)
	for _, c := range b.desc.Columns() {
		if c.IsGenerated() || c.IsNull(e) {
			continue
		}
		names = append(names, c.Name())
		vals = append(vals, c.Value(e))
	}

	w := b.writer()
	w.raw("INSERT INTO ").ident(b.desc.Table())
	switch {
	case len(names) > 0:
		w.raw(" (").idents(names).raw(") VALUES (")
		for i, v := range vals {
			if i > 0 {
				w.raw(", ")
			}
			w.bind(v)
		}
		w.raw(")")
	case b.dialect == MySQL:
		w.raw(" () VALUES ()")
	default:
		w.raw(" DEFAULT VALUES")
	}

	stmt := b.returning(w)
	if gen, ok := b.desc.Generated(); ok {
		stmt.Generated = gen.Name()
	}
	return stmt, nil
}

// Update builds an UPDATE of e located by its primary key.
func (b *Builder[T]) Update(e *T, mode UpdateMode) (Statement, error) {
	key := b.desc.KeyValues(e)
	for i, v := range key {
		if v == nil {
			return Statement{}, fmt.Errorf("%w: %s", ErrMissingKey, b.desc.KeyNames()[i])
		}
	}

	w := b.writer()
	w.raw("UPDATE ").ident(b.desc.Table()).raw(" SET ")

	n := 0
	for _, c := range b.desc.Columns() {
		if c.IsKey() || (mode == Partial && c.IsNull(e)) {
			continue
		}
		if n > 0 {
			w.raw(", ")
		}
		w.ident(c.Name()).raw(" = ").bind(c.Value(e))
		n++
	}
	if n == 0 {
		return Statement{}, ErrNothingToUpdate
	}

	conds, err := b.keyConditions(key)
	if err != nil {
		return Statement{}, err
	}
	if err := b.where(w, conds); err != nil {
		return Statement{}, err
	}
	return b.returning(w), nil
}

// Delete builds a DELETE of the row with the given primary key values.
func (b *Builder[T]) Delete(key ...any) (Statement, error) {
	conds, err := b.keyConditions(key)
	if err != nil {
		return Statement{}, err
	}

	w := b.writer()
	w.raw("DELETE FROM ").ident(b.desc.Table())
	if err := b.where(w, conds); err != nil {
		return Statement{}, err
	}
	return b.returning(w), nil
}

func (b *Builder[T]) where(w *writer, conds []filter.Condition) error {
	for i, c := range conds {
		if _, ok := b.desc.Column(c.Column); !ok {
			return fmt.Errorf("%w %q in where", ErrUnknownColumn, c.Column)
		}
		op := c.Op
		if op == "" {
			op = filter.OpEq
		}
		token := op.SQL()
		if token == "" {
			return fmt.Errorf("invalid operator %q on %q", c.Op, c.Column)
		}

		if i == 0 {
			w.raw(" WHERE ")
		} else {
			w.raw(" AND ")
		}
		w.ident(c.Column).raw(" " + token + " ").bind(c.Value)
	}
	return nil
}

func (b *Builder[T]) keyConditions(key []any) ([]filter.Condition, error) {
	names := b.desc.KeyNames()
	if len(key) != len(names) {
		return nil, fmt.Errorf("%w: %s expects %d, got %d", ErrKeyArity, b.desc.Table(), len(names), len(key))
	}
	conds := make([]filter.Condition, len(names))
	for i, n := range names {
		conds[i] = filter.Eq(n, key[i])
	}
	return conds, nil
}

func (b *Builder[T]) returning(w *writer) Statement {
	if b.dialect.Returning() {
		w.raw(" RETURNING ").idents(b.desc.Names())
		stmt := w.statement()
		stmt.Returning = true
		return stmt
	}
	return w.statement()
}
