package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Statement is SQL text with positional placeholders and the values bound
// to them, in placeholder order.
type Statement struct {
	SQL     string
	Args    []any
	Dialect Dialect

	// Returning is set when the statement yields the affected row(s).
	Returning bool
	// Generated names the database-generated key column an INSERT leaves
	// out. Without RETURNING the caller reads it back from the driver.
	Generated string
}

func (s Statement) String() string {
	return s.SQL
}

// Validate checks that the placeholders in the text match the bind values.
func (s Statement) Validate() error {
	if s.Dialect != Postgres {
		if n := strings.Count(s.SQL, "?"); n != len(s.Args) {
			return fmt.Errorf("statement has %d placeholders and %d arguments", n, len(s.Args))
		}
		return nil
	}

	seen := 0
	for i := 0; i < len(s.SQL); i++ {
		if s.SQL[i] != '$' {
			continue
		}
		j := i + 1
		for j < len(s.SQL) && s.SQL[j] >= '0' && s.SQL[j] <= '9' {
			j++
		}
		n, err := strconv.Atoi(s.SQL[i+1 : j])
		if err != nil {
			return fmt.Errorf("malformed placeholder at offset %d", i)
		}
		if n != seen+1 {
			return fmt.Errorf("placeholder $%d out of sequence", n)
		}
		seen = n
		i = j - 1
	}
	if seen != len(s.Args) {
		return fmt.Errorf("statement has %d placeholders and %d arguments", seen, len(s.Args))
	}
	return nil
}

// writer accumulates SQL text and binds values as it goes so the two can
// never drift apart.
type writer struct {
	dialect Dialect
	sb      strings.Builder
	args    []any
}

func (w *writer) raw(s string) *writer {
	w.sb.WriteString(s)
	return w
}

func (w *writer) ident(name string) *writer {
	w.sb.WriteString(w.dialect.Quote(name))
	return w
}

func (w *writer) bind(v any) *writer {
	w.args = append(w.args, v)
	w.sb.WriteString(w.dialect.Placeholder(len(w.args)))
	return w
}

func (w *writer) idents(names []string) *writer {
	for i, n := range names {
		if i > 0 {
			w.raw(", ")
		}
		w.ident(n)
	}
	return w
}

func (w *writer) statement() Statement {
	return Statement{SQL: w.sb.String(), Args: w.args, Dialect: w.dialect}
}
