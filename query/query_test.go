package query

import (
	"testing"

	"github.com/fulldump/biff"

	"github.com/fulldump/fallbackdb/value"
)

type JSON = map[string]interface{}

func TestMatch(t *testing.T) {

	biff.Alternative("Match", func(a *biff.A) {

		record := value.RecordFromMap(JSON{
			"_id":   "course_python_basics",
			"title": "Python Programming Basics",
			"likes": 4,
			"tags":  []interface{}{"python", "beginner"},
			"meta":  JSON{"level": "easy"},
		})

		match := func(filter JSON) bool {
			return New(filter).Match(record)
		}

		a.Alternative("Empty query", func(a *biff.A) {
			biff.AssertTrue(match(JSON{}))
			biff.AssertTrue((*Query)(nil).Match(record))
		})

		a.Alternative("Equality", func(a *biff.A) {
			biff.AssertTrue(match(JSON{"likes": 4}))
			biff.AssertTrue(match(JSON{"likes": 4.0}))
			biff.AssertFalse(match(JSON{"likes": "4"}))
			biff.AssertTrue(match(JSON{"tags": []interface{}{"python", "beginner"}}))
			biff.AssertTrue(match(JSON{"meta": JSON{"level": "easy"}}))
			biff.AssertFalse(match(JSON{"missing": nil}))
			biff.AssertFalse(match(JSON{"likes": 4, "title": "Other"}))
		})

		a.Alternative("$in", func(a *biff.A) {
			biff.AssertTrue(match(JSON{"likes": JSON{"$in": []interface{}{1, 4}}}))
			biff.AssertFalse(match(JSON{"likes": JSON{"$in": []interface{}{1, 2}}}))
			biff.AssertFalse(match(JSON{"missing": JSON{"$in": []interface{}{nil}}}))
		})

		a.Alternative("$nin", func(a *biff.A) {
			biff.AssertFalse(match(JSON{"likes": JSON{"$nin": []interface{}{4}}}))
			biff.AssertTrue(match(JSON{"likes": JSON{"$nin": []interface{}{5}}}))
			biff.AssertTrue(match(JSON{"missing": JSON{"$nin": []interface{}{5}}}))
		})

		a.Alternative("$regex is a substring test", func(a *biff.A) {
			biff.AssertTrue(match(JSON{"title": JSON{"$regex": "Programming"}}))
			biff.AssertFalse(match(JSON{"title": JSON{"$regex": "programming"}}))
			biff.AssertTrue(match(JSON{"title": JSON{"$regex": "programming", "$options": "i"}}))
			biff.AssertFalse(match(JSON{"title": JSON{"$regex": "^Python"}}))
			biff.AssertTrue(match(JSON{"likes": JSON{"$regex": "4"}}))
			biff.AssertFalse(match(JSON{"missing": JSON{"$regex": ""}}))
		})

		a.Alternative("$or", func(a *biff.A) {
			biff.AssertTrue(match(JSON{"$or": []interface{}{
				JSON{"title": "nope"},
				JSON{"title": JSON{"$regex": "py", "$options": "i"}},
			}}))
			biff.AssertFalse(match(JSON{"$or": []interface{}{
				JSON{"title": "nope"},
				JSON{"likes": 5},
			}}))
			biff.AssertFalse(match(JSON{"$or": []interface{}{}}))
			biff.AssertFalse(match(JSON{"likes": 5, "$or": []interface{}{JSON{"likes": 4}}}))
		})

		a.Alternative("Unsupported operators are ignored", func(a *biff.A) {
			biff.AssertTrue(match(JSON{"likes": JSON{"$gt": 100}}))
			biff.AssertTrue(match(JSON{"missing": JSON{"$exists": true}}))
			biff.AssertTrue(match(JSON{"$and": []interface{}{JSON{"likes": 0}}}))
			biff.AssertTrue(match(JSON{"$or": "not a list"}))
			biff.AssertFalse(match(JSON{"likes": JSON{"$gt": 100, "$in": []interface{}{0}}}))
		})
	})
}

func TestCompile(t *testing.T) {

	q := New(JSON{
		"title": JSON{"$regex": "py", "$options": "i"},
	})

	var regex *Clause
	for i := range q.Clauses {
		if q.Clauses[i].Operator == OpRegex {
			regex = &q.Clauses[i]
		}
	}

	biff.AssertNotNil(regex)
	biff.AssertEqual(regex.Pattern, "py")
	biff.AssertTrue(regex.CaseInsensitive)
	biff.AssertEqual(ParseOperator("$where"), OpIgnored)
	biff.AssertEqual(OpNin.String(), "$nin")
}

func TestIDLookup(t *testing.T) {

	id, ok := New(JSON{"_id": "a"}).IDLookup("_id")
	biff.AssertTrue(ok)
	biff.AssertEqual(id, value.String("a"))

	_, ok = New(JSON{"_id": "a", "x": 1}).IDLookup("_id")
	biff.AssertFalse(ok)

	_, ok = New(JSON{"_id": JSON{"$in": []interface{}{"a"}}}).IDLookup("_id")
	biff.AssertFalse(ok)

	_, ok = (*Query)(nil).IDLookup("_id")
	biff.AssertFalse(ok)
}
