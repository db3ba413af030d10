package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind is the semantic type of a column. Request values are coerced to it
// before they are accepted as filter values.
type Kind int

const (
	KindUnknown Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindTime
	KindUUID
	KindDecimal
)

var kindNames = map[Kind]string{
	KindUnknown: "unknown",
	KindString:  "string",
	KindInt:     "int",
	KindFloat:   "float",
	KindBool:    "bool",
	KindTime:    "time",
	KindUUID:    "uuid",
	KindDecimal: "decimal",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// kindFor infers the kind of a field from its Go type. Named types (for
// example enums declared as `type Status int`) are not recognised and must
// be set explicitly with Column.As.
func kindFor[V any]() Kind {
	var zero V
	switch any(zero).(type) {
	case string:
		return KindString
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return KindInt
	case float32, float64:
		return KindFloat
	case bool:
		return KindBool
	case time.Time:
		return KindTime
	case uuid.UUID:
		return KindUUID
	case decimal.Decimal:
		return KindDecimal
	}
	return KindUnknown
}
