package entity

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"regexp"
	"sync"
)

// ErrDescriptor is matched by every DescriptorError.
var ErrDescriptor = errors.New("invalid entity descriptor")

// DescriptorError reports a type whose schema declaration cannot be used.
// It is fatal for that type: the process should refuse to start.
type DescriptorError struct {
	Type   string
	Reason string
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("entity: describe %s: %s", e.Type, e.Reason)
}

func (e *DescriptorError) Is(target error) bool {
	return target == ErrDescriptor
}

// Schema is the static declaration of a persistent type.
type Schema[T any] struct {
	Table   string
	Columns []Column[T]
}

// Schemer is implemented by every persistent type, on the value or the
// pointer receiver.
type Schemer[T any] interface {
	Schema() Schema[T]
}

// Descriptor is the validated, immutable form of a Schema.
type Descriptor[T any] struct {
	typeName string
	table    string
	columns  []Column[T]
	byName   map[string]int
	key      []int
	gen      int
}

// identRe restricts names that are written into SQL text. Tables may be
// schema-qualified.
var (
	identRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	tableRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)
)

// descriptors caches one *Descriptor[T] per reflect.Type. Entries are
// never replaced or removed.
var descriptors sync.Map

// Describe returns the descriptor of T, building it on first use.
func Describe[T any]() (*Descriptor[T], error) {
	typ := reflect.TypeFor[T]()
	if d, ok := descriptors.Load(typ); ok {
		return d.(*Descriptor[T]), nil
	}

	d, err := build[T](typ.String())
	if err != nil {
		return nil, err
	}

	actual, _ := descriptors.LoadOrStore(typ, d)
	return actual.(*Descriptor[T]), nil
}

// MustDescribe is Describe for package initialisation, where a broken
// schema is a programming error.
func MustDescribe[T any]() *Descriptor[T] {
	d, err := Describe[T]()
	if err != nil {
		panic(err)
	}
	return d
}

func schemaOf[T any]() (Schema[T], bool) {
	var zero T
	if s, ok := any(zero).(Schemer[T]); ok {
		return s.Schema(), true
	}
	if s, ok := any(&zero).(Schemer[T]); ok {
		return s.Schema(), true
	}
	return Schema[T]{}, false
}

func build[T any](typeName string) (*Descriptor[T], error) {
	fail := func(format string, args ...any) error {
		return &DescriptorError{Type: typeName, Reason: fmt.Sprintf(format, args...)}
	}

	schema, ok := schemaOf[T]()
	if !ok {
		return nil, fail("type does not declare Schema()")
	}
	if !tableRe.MatchString(schema.Table) {
		return nil, fail("invalid table name %q", schema.Table)
	}
	if len(schema.Columns) == 0 {
		return nil, fail("no columns declared")
	}

	d := &Descriptor[T]{
		typeName: typeName,
		table:    schema.Table,
		columns:  make([]Column[T], len(schema.Columns)),
		byName:   make(map[string]int, len(schema.Columns)),
		gen:      -1,
	}
	copy(d.columns, schema.Columns)

	for i, c := range d.columns {
		switch {
		case !identRe.MatchString(c.name):
			return nil, fail("invalid column name %q", c.name)
		case c.kind == KindUnknown:
			return nil, fail("column %q has an unsupported field type", c.name)
		case c.value == nil || c.target == nil:
			return nil, fail("column %q was not declared with Col or NullCol", c.name)
		case c.IsKey() && c.IsNullable():
			return nil, fail("key column %q cannot be nullable", c.name)
		}
		if _, dup := d.byName[c.name]; dup {
			return nil, fail("duplicate column %q", c.name)
		}
		d.byName[c.name] = i

		if c.IsKey() {
			d.key = append(d.key, i)
		}
		if c.IsGenerated() {
			if d.gen >= 0 {
				return nil, fail("more than one generated column (%q, %q)", d.columns[d.gen].name, c.name)
			}
			d.gen = i
		}
	}

	if len(d.key) == 0 {
		return nil, fail("no primary key declared")
	}
	if d.gen >= 0 && len(d.key) > 1 {
		return nil, fail("generated column %q cannot be part of a composite key", d.columns[d.gen].name)
	}

	return d, nil
}

// Table returns the table name.
func (d *Descriptor[T]) Table() string { return d.table }

// TypeName returns the Go type name, for logs and errors.
func (d *Descriptor[T]) TypeName() string { return d.typeName }

// Len returns the number of columns.
func (d *Descriptor[T]) Len() int { return len(d.columns) }

// Columns iterates the columns in declaration order.
func (d *Descriptor[T]) Columns() iter.Seq2[int, Column[T]] {
	return func(yield func(int, Column[T]) bool) {
		for i, c := range d.columns {
			if !yield(i, c) {
				return
			}
		}
	}
}

// Names returns the column names in declaration order.
func (d *Descriptor[T]) Names() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.name
	}
	return names
}

// Column looks a column up by name.
func (d *Descriptor[T]) Column(name string) (Column[T], bool) {
	i, ok := d.byName[name]
	if !ok {
		return Column[T]{}, false
	}
	return d.columns[i], true
}

// ColumnKind reports the kind of the named column.
func (d *Descriptor[T]) ColumnKind(name string) (Kind, bool) {
	c, ok := d.Column(name)
	return c.kind, ok
}

// Key returns the primary key columns in declaration order.
func (d *Descriptor[T]) Key() []Column[T] {
	key := make([]Column[T], len(d.key))
	for i, idx := range d.key {
		key[i] = d.columns[idx]
	}
	return key
}

// KeyNames returns the primary key column names in declaration order.
func (d *Descriptor[T]) KeyNames() []string {
	names := make([]string, len(d.key))
	for i, idx := range d.key {
		names[i] = d.columns[idx].name
	}
	return names
}

// Generated returns the database-generated key column, if the type has one.
func (d *Descriptor[T]) Generated() (Column[T], bool) {
	if d.gen < 0 {
		return Column[T]{}, false
	}
	return d.columns[d.gen], true
}

// KeyValues returns the primary key values of e in key order.
func (d *Descriptor[T]) KeyValues(e *T) []any {
	values := make([]any, len(d.key))
	for i, idx := range d.key {
		values[i] = d.columns[idx].Value(e)
	}
	return values
}

// New allocates a zero entity for decoding.
func (d *Descriptor[T]) New() *T {
	return new(T)
}
