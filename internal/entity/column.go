package entity

// Flag marks structural properties of a column.
type Flag uint8

const (
	// FlagKey marks a primary key column. Several key columns form a composite key.
	FlagKey Flag = 1 << iota
	// FlagGenerated marks a key whose value is assigned by the database.
	FlagGenerated
	// FlagNullable marks a column backed by a pointer field.
	FlagNullable
)

// Column binds one table column to one field of T.
//
// Columns are values; the builder methods (Key, Generated, As) return a
// modified copy so schemas can be declared as a single expression.
type Column[T any] struct {
	name   string
	kind   Kind
	flags  Flag
	value  func(*T) any
	target func(*T) any
}

// Col declares a non-nullable column backed by the field ref points at.
//
//	entity.Col("name", func(m *Mod) *string { return &m.Name })
func Col[T, V any](name string, ref func(*T) *V) Column[T] {
	return Column[T]{
		name:   name,
		kind:   kindFor[V](),
		value:  func(e *T) any { return *ref(e) },
		target: func(e *T) any { return ref(e) },
	}
}

// NullCol declares a nullable column backed by a pointer field. A nil
// pointer is SQL NULL.
//
//	entity.NullCol("email", func(u *User) **string { return &u.Email })
func NullCol[T, V any](name string, ref func(*T) **V) Column[T] {
	return Column[T]{
		name:  name,
		kind:  kindFor[V](),
		flags: FlagNullable,
		value: func(e *T) any {
			if p := *ref(e); p != nil {
				return *p
			}
			return nil
		},
		target: func(e *T) any { return ref(e) },
	}
}

// Key marks the column as (part of) the primary key.
func (c Column[T]) Key() Column[T] {
	c.flags |= FlagKey
	return c
}

// Generated marks the column as a database-generated primary key
// (serial, auto increment). Generated implies Key.
func (c Column[T]) Generated() Column[T] {
	c.flags |= FlagKey | FlagGenerated
	return c
}

// As overrides the inferred kind, for named types such as enums.
func (c Column[T]) As(kind Kind) Column[T] {
	c.kind = kind
	return c
}

func (c Column[T]) Name() string      { return c.name }
func (c Column[T]) Kind() Kind        { return c.kind }
func (c Column[T]) IsKey() bool       { return c.flags&FlagKey != 0 }
func (c Column[T]) IsGenerated() bool { return c.flags&FlagGenerated != 0 }
func (c Column[T]) IsNullable() bool  { return c.flags&FlagNullable != 0 }

// Value returns the field's current value, or nil when a nullable field is unset.
func (c Column[T]) Value(e *T) any {
	return c.value(e)
}

// IsNull reports whether the field currently holds SQL NULL.
func (c Column[T]) IsNull(e *T) bool {
	return c.value(e) == nil
}

// Target returns a pointer to the field suitable as a Scan destination.
func (c Column[T]) Target(e *T) any {
	return c.target(e)
}
