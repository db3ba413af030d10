package filter

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/miarma/api/internal/entity"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// Parse validates raw request parameters against cols.
//
// Keys are visited in sorted order so the reported key is deterministic
// when several are invalid. When no sort column is requested, rows are
// ordered by the primary key. The primary key always ends the ORDER BY
// so pages never overlap or skip rows.
func Parse(raw map[string]string, cols Columns, opts Options) (Spec, error) {
	if err := validate.Struct(opts); err != nil {
		return Spec{}, fmt.Errorf("invalid filter options: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	spec := Spec{Page: &Page{Limit: opts.DefaultLimit}}
	var (
		sortColumn string
		direction  = Asc
	)

	for _, key := range keys {
		value := raw[key]

		switch key {
		case KeySort:
			if _, ok := cols.ColumnKind(value); !ok {
				return Spec{}, invalid(key, fmt.Sprintf("unknown sort column %q", value), nil)
			}
			sortColumn = value

		case KeyOrder:
			switch strings.ToLower(value) {
			case "asc":
				direction = Asc
			case "desc":
				direction = Desc
			default:
				return Spec{}, invalid(key, "order must be asc or desc", nil)
			}

		case KeyLimit:
			limit, err := strconv.Atoi(value)
			if err != nil {
				return Spec{}, invalid(key, "limit must be an integer", err)
			}
			if err := validate.Var(limit, fmt.Sprintf("min=1,max=%d", opts.MaxLimit)); err != nil {
				return Spec{}, invalid(key, fmt.Sprintf("limit must be between 1 and %d", opts.MaxLimit), nil)
			}
			spec.Page.Limit = limit

		case KeyOffset:
			offset, err := strconv.Atoi(value)
			if err != nil {
				return Spec{}, invalid(key, "offset must be an integer", err)
			}
			if err := validate.Var(offset, "min=0"); err != nil {
				return Spec{}, invalid(key, "offset must not be negative", nil)
			}
			spec.Page.Offset = offset

		default:
			cond, err := parseCondition(key, value, cols)
			if err != nil {
				return Spec{}, err
			}
			spec.Where = append(spec.Where, cond)
		}
	}

	if sortColumn != "" {
		spec.Order = append(spec.Order, Order{Column: sortColumn, Direction: direction})
	}
	for _, k := range cols.KeyNames() {
		if k != sortColumn {
			spec.Order = append(spec.Order, Order{Column: k, Direction: direction})
		}
	}

	return spec, nil
}

// ParseValues is Parse for a decoded query string. A key given more than
// once is rejected rather than silently truncated.
func ParseValues(values url.Values, cols Columns, opts Options) (Spec, error) {
	raw := make(map[string]string, len(values))
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		if len(values[k]) != 1 {
			return Spec{}, invalid(k, "key must appear exactly once", nil)
		}
		raw[k] = values[k][0]
	}
	return Parse(raw, cols, opts)
}

func parseCondition(key, value string, cols Columns) (Condition, error) {
	column, op := key, OpEq
	if open := strings.IndexByte(key, '['); open >= 0 {
		if !strings.HasSuffix(key, "]") {
			return Condition{}, invalid(key, "malformed operator", nil)
		}
		column, op = key[:open], Op(key[open+1:len(key)-1])
		if op.SQL() == "" {
			return Condition{}, invalid(key, fmt.Sprintf("unknown operator %q", string(op)), nil)
		}
	}

	kind, ok := cols.ColumnKind(column)
	if !ok {
		return Condition{}, invalid(key, "unknown column", nil)
	}

	v, err := Coerce(kind, value)
	if err != nil {
		return Condition{}, invalid(key, fmt.Sprintf("value is not a valid %s", kind), err)
	}

	return Condition{Column: column, Op: op, Value: v}, nil
}

// Coerce converts a request string into the bind value for a column of kind.
func Coerce(kind entity.Kind, raw string) (any, error) {
	switch kind {
	case entity.KindString:
		return raw, nil
	case entity.KindInt:
		return strconv.ParseInt(raw, 10, 64)
	case entity.KindFloat:
		return strconv.ParseFloat(raw, 64)
	case entity.KindBool:
		return strconv.ParseBool(raw)
	case entity.KindTime:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, nil
		}
		return time.Parse(time.DateOnly, raw)
	case entity.KindUUID:
		return uuid.Parse(raw)
	case entity.KindDecimal:
		return decimal.NewFromString(raw)
	}
	return nil, fmt.Errorf("unsupported kind %s", kind)
}
