package update

import (
	"testing"

	"github.com/fulldump/biff"

	"github.com/fulldump/fallbackdb/value"
)

type JSON = map[string]interface{}

func TestApply(t *testing.T) {

	biff.Alternative("Apply", func(a *biff.A) {

		record := value.RecordFromMap(JSON{
			"name":  "Demo",
			"likes": 2,
			"tags":  []interface{}{"a"},
		})

		a.Alternative("$set creates and overwrites", func(a *biff.A) {
			changed := New(JSON{"$set": JSON{"name": "Other", "new": true}}).Apply(record)
			biff.AssertTrue(changed)
			biff.AssertEqualJson(record, JSON{"name": "Other", "new": true, "likes": 2, "tags": []interface{}{"a"}})
		})

		a.Alternative("$set same value is not a change", func(a *biff.A) {
			biff.AssertFalse(New(JSON{"$set": JSON{"name": "Demo"}}).Apply(record))
		})

		a.Alternative("$push appends", func(a *biff.A) {
			New(JSON{"$push": JSON{"tags": "b", "name": "x", "fresh": 1}}).Apply(record)
			biff.AssertEqualJson(record, JSON{
				"name":  []interface{}{"x"},
				"likes": 2,
				"tags":  []interface{}{"a", "b"},
				"fresh": []interface{}{1},
			})
		})

		a.Alternative("$inc adds and initialises", func(a *biff.A) {
			New(JSON{"$inc": JSON{"likes": -3, "views": 1.5}}).Apply(record)
			biff.AssertEqual(record["likes"], value.Int(-1))
			biff.AssertEqual(record["views"], value.Number(1.5))
		})

		a.Alternative("$inc with non numeric delta is ignored", func(a *biff.A) {
			biff.AssertFalse(New(JSON{"$inc": JSON{"likes": "1"}}).Apply(record))
		})

		a.Alternative("$unset removes", func(a *biff.A) {
			biff.AssertTrue(New(JSON{"$unset": JSON{"tags": ""}}).Apply(record))
			biff.AssertFalse(New(JSON{"$unset": JSON{"missing": ""}}).Apply(record))
			_, exists := record["tags"]
			biff.AssertFalse(exists)
		})

		a.Alternative("Precedence set, push, inc, unset", func(a *biff.A) {
			New(JSON{
				"$unset": JSON{"score": ""},
				"$inc":   JSON{"score": 1},
				"$set":   JSON{"score": 10},
			}).Apply(record)
			_, exists := record["score"]
			biff.AssertFalse(exists)

			New(JSON{
				"$inc": JSON{"score": 1},
				"$set": JSON{"score": 10},
			}).Apply(record)
			biff.AssertEqual(record["score"], value.Int(11))
		})

		a.Alternative("Unknown operators and plain keys are dropped", func(a *biff.A) {
			u := New(JSON{"$rename": JSON{"name": "title"}, "name": "x"})
			biff.AssertEqual(len(u.Steps), 0)
			biff.AssertFalse(u.Apply(record))
		})
	})
}

func TestTouches(t *testing.T) {
	u := New(JSON{"$set": JSON{"_id": "x"}})
	biff.AssertTrue(u.Touches("_id"))
	biff.AssertFalse(u.Touches("name"))
	biff.AssertEqual(OpInc.String(), "$inc")
}
