package collection

import (
	"fmt"

	"github.com/fulldump/fallbackdb/value"
)

// IndexMap is a unique index over one field. Rows without the field are not
// indexed.
type IndexMap struct {
	Field   string
	Entries map[string]*Row
}

func NewIndexMap(field string) *IndexMap {
	return &IndexMap{
		Field:   field,
		Entries: map[string]*Row{},
	}
}

func (i *IndexMap) AddRow(row *Row) error {

	itemValue, itemExists := row.Record[i.Field]
	if !itemExists {
		return nil
	}

	key := itemValue.Key()
	if _, exists := i.Entries[key]; exists {
		return fmt.Errorf("index conflict: field '%s' with value '%s': %w", i.Field, itemValue.String(), ErrDuplicateID)
	}

	i.Entries[key] = row

	return nil
}

func (i *IndexMap) RemoveRow(row *Row) {

	itemValue, itemExists := row.Record[i.Field]
	if !itemExists {
		return
	}

	key := itemValue.Key()
	if i.Entries[key] == row {
		delete(i.Entries, key)
	}
}

func (i *IndexMap) Has(v value.Value) bool {
	_, exists := i.Entries[v.Key()]
	return exists
}

func (i *IndexMap) Get(v value.Value) *Row {
	return i.Entries[v.Key()]
}
