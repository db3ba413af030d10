// Package filter turns untrusted query-string parameters into a validated
// selection: which rows (Where), in what order (Order) and which page (Page).
//
// Keys are either column filters or one of the reserved keys:
//
//	name=alice            equality on column "name"
//	amount[gte]=10.5      comparison on column "amount" (eq ne lt lte gt gte)
//	_sort=created_at      sort column
//	_order=desc           sort direction (asc when absent)
//	_limit=20             page size, bounded by Options.MaxLimit
//	_offset=40            rows to skip
//
// Parsing is all-or-nothing: the first invalid key rejects the whole request.
package filter

import (
	"github.com/miarma/api/internal/entity"
)

// Reserved query keys.
const (
	KeySort   = "_sort"
	KeyOrder  = "_order"
	KeyLimit  = "_limit"
	KeyOffset = "_offset"
)

// Op is a comparison operator usable in a filter.
type Op string

const (
	OpEq  Op = "eq"
	OpNe  Op = "ne"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpGt  Op = "gt"
	OpGte Op = "gte"
)

var opSQL = map[Op]string{
	OpEq:  "=",
	OpNe:  "<>",
	OpLt:  "<",
	OpLte: "<=",
	OpGt:  ">",
	OpGte: ">=",
}

// SQL returns the operator's SQL token, or "" for an unknown operator.
func (o Op) SQL() string {
	return opSQL[o]
}

// Condition is a single column predicate. Conditions of a Spec are ANDed.
type Condition struct {
	Column string
	Op     Op
	Value  any
}

// Eq builds an equality condition.
func Eq(column string, value any) Condition {
	return Condition{Column: column, Op: OpEq, Value: value}
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Order is one ORDER BY term.
type Order struct {
	Column    string
	Direction Direction
}

// Page is a LIMIT/OFFSET window.
type Page struct {
	Limit  int
	Offset int
}

// Spec is a validated selection. The zero Spec selects every row, unordered.
type Spec struct {
	Where []Condition
	Order []Order
	Page  *Page
}

// Where returns a Spec with the given conditions and no ordering or paging.
func Where(conds ...Condition) Spec {
	return Spec{Where: conds}
}

// IsZero reports whether the Spec selects everything with no ordering or paging.
func (s Spec) IsZero() bool {
	return len(s.Where) == 0 && len(s.Order) == 0 && s.Page == nil
}

// Columns is the view of an entity descriptor the parser needs.
// *entity.Descriptor[T] satisfies it for every T.
type Columns interface {
	ColumnKind(name string) (entity.Kind, bool)
	KeyNames() []string
}

// Options bounds pagination.
type Options struct {
	DefaultLimit int `validate:"required,min=1"`
	MaxLimit     int `validate:"required,gtefield=DefaultLimit"`
}

// DefaultOptions is used when the caller has no configured limits.
var DefaultOptions = Options{DefaultLimit: 50, MaxLimit: 500}
