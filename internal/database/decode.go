package database

import (
	"fmt"

	"github.com/miarma/api/internal/entity"
)

// decodeAll maps every row onto a fresh T by column name.
//
// Result columns the descriptor does not know are scanned into a discard
// slot; descriptor columns missing from the result keep their zero value.
// A scan failure discards everything decoded so far.
func decodeAll[T any](rows Rows, desc *entity.Descriptor[T]) ([]*T, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	cols := make([]entity.Column[T], len(names))
	known := make([]bool, len(names))
	for i, name := range names {
		cols[i], known[i] = desc.Column(name)
	}

	var out []*T
	dest := make([]any, len(names))
	for rows.Next() {
		e := desc.New()
		for i := range names {
			if known[i] {
				dest[i] = cols[i].Target(e)
			} else {
				dest[i] = new(any)
			}
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, &DecodeError{Table: desc.Table(), Err: fmt.Errorf("row %d: %w", len(out), err)}
		}
		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
