package collection

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/fulldump/fallbackdb/query"
	"github.com/fulldump/fallbackdb/update"
	"github.com/fulldump/fallbackdb/value"
)

const (
	IDField = "_id"
	FirstID = 1000
)

var ErrDuplicateID = errors.New("duplicate _id")
var ErrImmutableID = errors.New("_id is immutable")

type Collection struct {
	name     string
	Rows     []*Row
	mutex    *sync.RWMutex
	ids      *IndexMap
	Defaults value.Record
	nextID   int64 // identifier allocator
	auto     int64 // counter behind the auto() default
}

type Row struct {
	Record value.Record
}

type FindOptions struct {
	Sort  *Sort
	Skip  int
	Limit int // 0 means no limit
}

type UpdateResult struct {
	Matched  int `json:"matched"`
	Modified int `json:"modified"`
}

type DeleteResult struct {
	Deleted int `json:"deleted"`
}

func NewCollection(name string) *Collection {
	return &Collection{
		name:   name,
		Rows:   []*Row{},
		mutex:  &sync.RWMutex{},
		ids:    NewIndexMap(IDField),
		nextID: FirstID,
	}
}

func (c *Collection) Name() string {
	return c.name
}

func (c *Collection) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.Rows)
}

// InsertOne stores a copy of record and returns its _id, allocating one when
// missing.
func (c *Collection) InsertOne(record value.Record) (value.Value, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.insert(record)
}

// InsertMany inserts in order and stops at the first failure, returning the
// ids inserted so far.
func (c *Collection) InsertMany(records []value.Record) ([]value.Value, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	ids := make([]value.Value, 0, len(records))
	for i, record := range records {
		id, err := c.insert(record)
		if err != nil {
			return ids, fmt.Errorf("insert #%d: %w", i, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (c *Collection) insert(record value.Record) (value.Value, error) {
	item := record.Clone()
	if item == nil {
		item = value.Record{}
	}

	auto := c.auto + 1
	applyDefaults(item, c.Defaults, auto)

	id, exists := item[IDField]
	if !exists {
		id = c.allocateID()
		item[IDField] = id
	}

	row := &Row{
		Record: item,
	}

	err := c.ids.AddRow(row)
	if err != nil {
		return value.Null(), err
	}

	c.Rows = append(c.Rows, row)
	c.auto = auto

	return id, nil
}

func (c *Collection) allocateID() value.Value {
	for {
		id := value.String(strconv.FormatInt(c.nextID, 10))
		c.nextID++
		if !c.ids.Has(id) {
			return id
		}
	}
}

// Allocator returns the next identifier the collection would assign.
func (c *Collection) Allocator() int64 {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.nextID
}

// AdvanceAllocator moves the allocator forward to next; it never goes back.
func (c *Collection) AdvanceAllocator(next int64) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if next > c.nextID {
		c.nextID = next
	}
}

// Find returns copies of every matching record, sorted, skipped and
// limited as requested. A nil query matches everything.
func (c *Collection) Find(q *query.Query, options *FindOptions) []value.Record {
	c.mutex.RLock()
	rows := c.match(q, 0)
	result := page(rows, options)
	c.mutex.RUnlock()

	return result
}

// FindFunc is Find driven by an arbitrary predicate. A predicate error aborts
// the scan.
func (c *Collection) FindFunc(match func(record value.Record) (bool, error), options *FindOptions) ([]value.Record, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	rows := []*Row{}
	for _, row := range c.Rows {
		ok, err := match(row.Record)
		if err != nil {
			return nil, err
		}
		if ok {
			rows = append(rows, row)
		}
	}

	return page(rows, options), nil
}

// page must be called with the lock held.
func page(rows []*Row, options *FindOptions) []value.Record {
	if options == nil {
		options = &FindOptions{}
	}

	if options.Sort != nil {
		rows = sortRows(rows, options.Sort)
	}

	if options.Skip > 0 {
		if options.Skip >= len(rows) {
			rows = nil
		} else {
			rows = rows[options.Skip:]
		}
	}
	if options.Limit > 0 && options.Limit < len(rows) {
		rows = rows[:options.Limit]
	}

	result := make([]value.Record, len(rows))
	for i, row := range rows {
		result[i] = row.Record.Clone()
	}
	return result
}

// FindOne returns a copy of the first matching record in storage order.
func (c *Collection) FindOne(q *query.Query) (value.Record, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	row := c.first(q)
	if row == nil {
		return nil, false
	}
	return row.Record.Clone(), true
}

// match must be called with the lock held; limit 0 means all.
func (c *Collection) match(q *query.Query, limit int) []*Row {
	if id, ok := q.IDLookup(IDField); ok {
		row := c.ids.Get(id)
		if row == nil {
			return []*Row{}
		}
		return []*Row{row}
	}

	rows := []*Row{}
	for _, row := range c.Rows {
		if !q.Match(row.Record) {
			continue
		}
		rows = append(rows, row)
		if limit > 0 && len(rows) >= limit {
			break
		}
	}
	return rows
}

func (c *Collection) first(q *query.Query) *Row {
	rows := c.match(q, 1)
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

// UpdateOne applies u to the first matching record. No match is not an
// error and a nil u changes nothing.
func (c *Collection) UpdateOne(q *query.Query, u *update.Update) (*UpdateResult, error) {
	if u == nil {
		u = &update.Update{}
	}
	if u.Touches(IDField) {
		return nil, ErrImmutableID
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	result := &UpdateResult{}

	row := c.first(q)
	if row == nil {
		return result, nil
	}

	result.Matched = 1
	if u.Apply(row.Record) {
		result.Modified = 1
	}

	return result, nil
}

// DeleteOne removes the first matching record keeping the order of the rest.
func (c *Collection) DeleteOne(q *query.Query) *DeleteResult {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	result := &DeleteResult{}

	row := c.first(q)
	if row == nil {
		return result
	}

	for i, candidate := range c.Rows {
		if candidate != row {
			continue
		}
		c.ids.RemoveRow(row)
		c.Rows = append(c.Rows[:i], c.Rows[i+1:]...)
		result.Deleted = 1
		break
	}

	return result
}

// Traverse visits copies of all records in storage order until f returns
// false.
func (c *Collection) Traverse(f func(record value.Record) bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	for _, row := range c.Rows {
		if !f(row.Record.Clone()) {
			return
		}
	}
}

func (c *Collection) SetDefaults(defaults value.Record) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if len(defaults) == 0 {
		c.Defaults = nil
		return
	}
	c.Defaults = defaults.Clone()
}

func (c *Collection) GetDefaults() value.Record {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.Defaults.Clone()
}
