package collection

import (
	"github.com/google/btree"

	"github.com/fulldump/fallbackdb/value"
)

// Sort orders by a single field. A negative Direction means descending.
type Sort struct {
	Field     string `json:"field"`
	Direction int    `json:"direction"`
}

type rowOrdered struct {
	*Row
	Value    value.Value
	Position int
}

// sortRows is stable: ties keep their relative input order in both
// directions. Missing fields sort as the number 0.
func sortRows(rows []*Row, s *Sort) []*Row {

	reverse := s.Direction < 0

	index := btree.NewG(32, func(a, b *rowOrdered) bool {
		c := value.Compare(a.Value, b.Value)
		if c != 0 {
			if reverse {
				return c > 0
			}
			return c < 0
		}
		return a.Position < b.Position
	})

	for position, row := range rows {
		v, exists := row.Record[s.Field]
		if !exists {
			v = value.Int(0)
		}
		index.ReplaceOrInsert(&rowOrdered{
			Row:      row,
			Value:    v,
			Position: position,
		})
	}

	result := make([]*Row, 0, len(rows))
	index.Ascend(func(item *rowOrdered) bool {
		result = append(result, item.Row)
		return true
	})

	return result
}
