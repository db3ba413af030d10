package filter

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/miarma/api/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payment struct {
	ID     int64
	Payer  string
	Amount decimal.Decimal
	Paid   bool
	Ref    uuid.UUID
	At     time.Time
	Note   *string
}

func (payment) Schema() entity.Schema[payment] {
	return entity.Schema[payment]{
		Table: "payments",
		Columns: []entity.Column[payment]{
			entity.Col("id", func(p *payment) *int64 { return &p.ID }).Generated(),
			entity.Col("payer", func(p *payment) *string { return &p.Payer }),
			entity.Col("amount", func(p *payment) *decimal.Decimal { return &p.Amount }),
			entity.Col("paid", func(p *payment) *bool { return &p.Paid }),
			entity.Col("ref", func(p *payment) *uuid.UUID { return &p.Ref }),
			entity.Col("at", func(p *payment) *time.Time { return &p.At }),
			entity.NullCol("note", func(p *payment) **string { return &p.Note }),
		},
	}
}

var (
	payments = entity.MustDescribe[payment]()
	opts     = Options{DefaultLimit: 10, MaxLimit: 100}
)

func TestParse_Empty(t *testing.T) {
	spec, err := Parse(nil, payments, opts)
	require.NoError(t, err)

	assert.Empty(t, spec.Where)
	assert.Equal(t, []Order{{Column: "id", Direction: Asc}}, spec.Order)
	assert.Equal(t, &Page{Limit: 10, Offset: 0}, spec.Page)
}

func TestParse_Conditions(t *testing.T) {
	ref := uuid.New()
	spec, err := Parse(map[string]string{
		"payer":       "alice",
		"amount[gte]": "10.50",
		"paid":        "true",
		"ref":         ref.String(),
		"at[lt]":      "2024-03-01",
		"id[ne]":      "7",
	}, payments, opts)
	require.NoError(t, err)

	// sorted by key
	require.Len(t, spec.Where, 6)
	assert.Equal(t, Condition{Column: "amount", Op: OpGte, Value: decimal.RequireFromString("10.50")}, spec.Where[0])
	assert.Equal(t, Condition{Column: "at", Op: OpLt, Value: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}, spec.Where[1])
	assert.Equal(t, Condition{Column: "id", Op: OpNe, Value: int64(7)}, spec.Where[2])
	assert.Equal(t, Condition{Column: "paid", Op: OpEq, Value: true}, spec.Where[3])
	assert.Equal(t, Condition{Column: "payer", Op: OpEq, Value: "alice"}, spec.Where[4])
	assert.Equal(t, Condition{Column: "ref", Op: OpEq, Value: ref}, spec.Where[5])
}

func TestParse_SortAndPage(t *testing.T) {
	spec, err := Parse(map[string]string{
		KeySort:   "amount",
		KeyOrder:  "DESC",
		KeyLimit:  "25",
		KeyOffset: "50",
	}, payments, opts)
	require.NoError(t, err)

	assert.Equal(t, []Order{
		{Column: "amount", Direction: Desc},
		{Column: "id", Direction: Desc},
	}, spec.Order)
	assert.Equal(t, &Page{Limit: 25, Offset: 50}, spec.Page)

	spec, err = Parse(map[string]string{KeySort: "id"}, payments, opts)
	require.NoError(t, err)
	assert.Equal(t, []Order{{Column: "id", Direction: Asc}}, spec.Order)
}

func TestParse_Rejects(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]string
		key  string
	}{
		{"unknown column", map[string]string{"foo": "bar"}, "foo"},
		{"bad int", map[string]string{"id": "seven"}, "id"},
		{"bad bool", map[string]string{"paid": "maybe"}, "paid"},
		{"bad uuid", map[string]string{"ref": "not-a-uuid"}, "ref"},
		{"bad decimal", map[string]string{"amount": "1,5"}, "amount"},
		{"bad time", map[string]string{"at": "yesterday"}, "at"},
		{"unknown operator", map[string]string{"id[like]": "1"}, "id[like]"},
		{"malformed operator", map[string]string{"id[gt": "1"}, "id[gt"},
		{"unknown column with operator", map[string]string{"foo[gt]": "1"}, "foo[gt]"},
		{"unknown sort", map[string]string{KeySort: "foo"}, KeySort},
		{"bad order", map[string]string{KeyOrder: "sideways"}, KeyOrder},
		{"negative limit", map[string]string{KeyLimit: "-1"}, KeyLimit},
		{"zero limit", map[string]string{KeyLimit: "0"}, KeyLimit},
		{"limit over max", map[string]string{KeyLimit: "101"}, KeyLimit},
		{"negative offset", map[string]string{KeyOffset: "-5"}, KeyOffset},
		{"non numeric offset", map[string]string{KeyOffset: "x"}, KeyOffset},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := Parse(tc.raw, payments, opts)
			require.Error(t, err)
			assert.True(t, spec.IsZero())
			assert.True(t, errors.Is(err, ErrInvalidFilter))

			var fe *InvalidFilterError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tc.key, fe.Key)
		})
	}
}

func TestParse_FailsOnFirstSortedKey(t *testing.T) {
	_, err := Parse(map[string]string{
		"zzz":   "1",
		"aaa":   "1",
		"payer": "bob",
	}, payments, opts)

	var fe *InvalidFilterError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "aaa", fe.Key)
}

func TestParse_InvalidOptions(t *testing.T) {
	_, err := Parse(nil, payments, Options{DefaultLimit: 50, MaxLimit: 10})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidFilter))
}

func TestParseValues(t *testing.T) {
	values, err := url.ParseQuery("payer=alice&_limit=5")
	require.NoError(t, err)

	spec, err := ParseValues(values, payments, opts)
	require.NoError(t, err)
	assert.Equal(t, []Condition{Eq("payer", "alice")}, spec.Where)
	assert.Equal(t, 5, spec.Page.Limit)

	values, err = url.ParseQuery("payer=alice&payer=bob")
	require.NoError(t, err)

	_, err = ParseValues(values, payments, opts)
	var fe *InvalidFilterError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "payer", fe.Key)
}

func TestCoerce(t *testing.T) {
	v, err := Coerce(entity.KindTime, "2024-03-01T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), v)

	v, err = Coerce(entity.KindFloat, "2.5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	_, err = Coerce(entity.KindUnknown, "x")
	assert.Error(t, err)
}
