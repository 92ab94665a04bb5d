package collection

import (
	"errors"
	"math"
	"sync"
	"testing"

	. "github.com/fulldump/biff"

	"github.com/fulldump/fallbackdb/query"
	"github.com/fulldump/fallbackdb/update"
	"github.com/fulldump/fallbackdb/value"
)

type JSON = map[string]interface{}

func Environment(f func(c *Collection)) {
	f(NewCollection("test"))
}

func TestInsertOne(t *testing.T) {
	Environment(func(c *Collection) {

		// Run
		id1, err1 := c.InsertOne(value.RecordFromMap(JSON{"hello": "world"}))
		id2, err2 := c.InsertOne(value.RecordFromMap(JSON{"hello": "world"}))

		// Check
		AssertNil(err1)
		AssertNil(err2)
		AssertEqual(id1, value.String("1000"))
		AssertEqual(id2, value.String("1001"))
		AssertEqual(c.Len(), 2)
		AssertEqual(c.Allocator(), int64(1002))
	})
}

func TestInsertOne_KeepsGivenID(t *testing.T) {
	Environment(func(c *Collection) {

		id, err := c.InsertOne(value.RecordFromMap(JSON{"_id": "demo_student_id", "name": "Demo"}))

		AssertNil(err)
		AssertEqual(id, value.String("demo_student_id"))
		AssertEqual(c.Allocator(), int64(FirstID))
	})
}

func TestInsertOne_DuplicateID(t *testing.T) {
	Environment(func(c *Collection) {

		c.InsertOne(value.RecordFromMap(JSON{"_id": "a"}))
		_, err := c.InsertOne(value.RecordFromMap(JSON{"_id": "a"}))

		AssertTrue(errors.Is(err, ErrDuplicateID))
		AssertEqual(c.Len(), 1)
	})
}

func TestInsertOne_SkipsTakenIDs(t *testing.T) {
	Environment(func(c *Collection) {

		c.InsertOne(value.RecordFromMap(JSON{"_id": "1000"}))
		id, err := c.InsertOne(value.RecordFromMap(JSON{}))

		AssertNil(err)
		AssertEqual(id, value.String("1001"))
	})
}

func TestInsertOne_DoesNotAliasInput(t *testing.T) {
	Environment(func(c *Collection) {

		input := value.RecordFromMap(JSON{"tags": []interface{}{"a"}})
		c.InsertOne(input)
		input["tags"] = value.String("changed")
		_, hasID := input["_id"]

		record, _ := c.FindOne(nil)
		AssertEqualJson(record["tags"], []interface{}{"a"})
		AssertFalse(hasID)
	})
}

func TestInsertMany(t *testing.T) {
	Environment(func(c *Collection) {

		ids, err := c.InsertMany([]value.Record{
			value.RecordFromMap(JSON{"_id": "x"}),
			value.RecordFromMap(JSON{"n": 1}),
			value.RecordFromMap(JSON{"n": 2}),
		})

		AssertNil(err)
		AssertEqual(ids, []value.Value{value.String("x"), value.String("1000"), value.String("1001")})
	})
}

func TestInsertMany_StopsAtFirstError(t *testing.T) {
	Environment(func(c *Collection) {

		ids, err := c.InsertMany([]value.Record{
			value.RecordFromMap(JSON{"_id": "x"}),
			value.RecordFromMap(JSON{"_id": "x"}),
			value.RecordFromMap(JSON{"_id": "y"}),
		})

		AssertTrue(errors.Is(err, ErrDuplicateID))
		AssertEqual(len(ids), 1)
		AssertEqual(c.Len(), 1)
	})
}

func insertPosts(c *Collection) {
	c.InsertOne(value.RecordFromMap(JSON{"_id": "a", "topic": "Math", "likes": 2}))
	c.InsertOne(value.RecordFromMap(JSON{"_id": "b", "topic": "Science", "likes": 5}))
}

func TestFind_Posts(t *testing.T) {
	Environment(func(c *Collection) {
		insertPosts(c)

		result := c.Find(query.New(JSON{"topic": JSON{"$in": []interface{}{"Math"}}}), nil)
		AssertEqualJson(result, []JSON{
			{"_id": "a", "topic": "Math", "likes": 2},
		})

		sorted := c.Find(query.New(JSON{}), &FindOptions{Sort: &Sort{Field: "likes", Direction: -1}})
		AssertEqual(len(sorted), 2)
		AssertEqual(sorted[0]["_id"], value.String("b"))
		AssertEqual(sorted[1]["_id"], value.String("a"))

		result2, err := c.UpdateOne(query.New(JSON{"_id": "a"}), update.New(JSON{"$inc": JSON{"likes": 1}}))
		AssertNil(err)
		AssertEqual(*result2, UpdateResult{Matched: 1, Modified: 1})

		record, found := c.FindOne(query.New(JSON{"_id": "a"}))
		AssertTrue(found)
		AssertEqual(record["likes"], value.Int(3))
	})
}

func TestFind_OrRegex(t *testing.T) {
	Environment(func(c *Collection) {
		c.InsertOne(value.RecordFromMap(JSON{"title": "Python Basics"}))
		c.InsertOne(value.RecordFromMap(JSON{"title": "Web Development"}))

		result := c.Find(query.New(JSON{
			"$or": []interface{}{
				JSON{"title": JSON{"$regex": "py", "$options": "i"}},
				JSON{"title": JSON{"$regex": "PY", "$options": "i"}},
			},
		}), nil)

		AssertEqual(len(result), 1)
		AssertEqual(result[0]["title"], value.String("Python Basics"))
	})
}

func TestFind_NilQueryMatchesAll(t *testing.T) {
	Environment(func(c *Collection) {
		insertPosts(c)

		AssertEqual(len(c.Find(nil, nil)), 2)
	})
}

func TestFind_Idempotent(t *testing.T) {
	Environment(func(c *Collection) {
		insertPosts(c)
		q := query.New(JSON{"likes": JSON{"$nin": []interface{}{7}}})
		options := &FindOptions{Sort: &Sort{Field: "topic", Direction: 1}}

		AssertEqual(c.Find(q, options), c.Find(q, options))
	})
}

func TestFind_ReturnsCopies(t *testing.T) {
	Environment(func(c *Collection) {
		c.InsertOne(value.RecordFromMap(JSON{"_id": "a", "tags": []interface{}{"x"}}))

		result := c.Find(nil, nil)
		result[0]["_id"] = value.String("hacked")
		tags, _ := result[0]["tags"].AsList()
		tags[0] = value.String("hacked")

		record, found := c.FindOne(query.New(JSON{"_id": "a"}))
		AssertTrue(found)
		AssertEqualJson(record, JSON{"_id": "a", "tags": []interface{}{"x"}})
	})
}

func TestFind_SortStableWithMissingField(t *testing.T) {
	Environment(func(c *Collection) {
		c.InsertOne(value.RecordFromMap(JSON{"_id": "1", "score": 3}))
		c.InsertOne(value.RecordFromMap(JSON{"_id": "2"}))
		c.InsertOne(value.RecordFromMap(JSON{"_id": "3", "score": 3}))
		c.InsertOne(value.RecordFromMap(JSON{"_id": "4", "score": -1}))
		c.InsertOne(value.RecordFromMap(JSON{"_id": "5", "score": "text"}))

		ids := func(records []value.Record) []string {
			result := []string{}
			for _, r := range records {
				result = append(result, r["_id"].String())
			}
			return result
		}

		asc := c.Find(nil, &FindOptions{Sort: &Sort{Field: "score", Direction: 1}})
		AssertEqual(ids(asc), []string{"4", "2", "1", "3", "5"})

		desc := c.Find(nil, &FindOptions{Sort: &Sort{Field: "score", Direction: -1}})
		AssertEqual(ids(desc), []string{"5", "1", "3", "2", "4"})
	})
}

func TestFind_SkipLimit(t *testing.T) {
	Environment(func(c *Collection) {
		for i := 0; i < 10; i++ {
			c.InsertOne(value.RecordFromMap(JSON{"n": i}))
		}

		AssertEqual(len(c.Find(nil, &FindOptions{Limit: 3})), 3)
		AssertEqual(len(c.Find(nil, &FindOptions{Limit: 0})), 10)
		AssertEqual(len(c.Find(nil, &FindOptions{Skip: 8, Limit: 5})), 2)
		AssertEqual(len(c.Find(nil, &FindOptions{Skip: 20})), 0)

		top := c.Find(nil, &FindOptions{Sort: &Sort{Field: "n", Direction: -1}, Limit: 1})
		AssertEqual(top[0]["n"], value.Int(9))
	})
}

func TestFindFunc(t *testing.T) {
	Environment(func(c *Collection) {

		for _, n := range []int{3, 1, 2, 5, 4} {
			c.InsertOne(value.RecordFromMap(JSON{"n": n}))
		}

		even := func(r value.Record) (bool, error) {
			n, _ := r["n"].AsNumber()
			return int(n)%2 == 0, nil
		}
		found, err := c.FindFunc(even, &FindOptions{Sort: &Sort{Field: "n", Direction: -1}})

		AssertNil(err)
		AssertEqual(len(found), 2)
		AssertEqual(found[0]["n"], value.Int(4))
		AssertEqual(found[1]["n"], value.Int(2))
	})
}

func TestFindFunc_Error(t *testing.T) {
	Environment(func(c *Collection) {

		c.InsertOne(value.Record{})
		boom := errors.New("boom")

		_, err := c.FindFunc(func(r value.Record) (bool, error) {
			return false, boom
		}, nil)

		AssertEqual(err, boom)
	})
}

func TestFind_IDLookupAgreesWithScan(t *testing.T) {
	Environment(func(c *Collection) {
		negativeZero := value.Number(math.Copysign(0, -1))
		c.InsertOne(value.Record{IDField: value.List(value.Int(0)), "kind": value.String("list")})
		c.InsertOne(value.Record{IDField: value.Number(math.NaN()), "kind": value.String("nan")})

		byID := query.Compile(value.Record{IDField: value.List(negativeZero)})
		scan := query.Compile(value.Record{IDField: value.List(negativeZero), "kind": value.String("list")})
		AssertEqual(len(c.Find(byID, nil)), 1)
		AssertEqual(len(c.Find(scan, nil)), 1)

		nan, found := c.FindOne(query.Compile(value.Record{IDField: value.Number(math.NaN())}))
		AssertTrue(found)
		AssertEqual(nan["kind"], value.String("nan"))
	})
}

func TestFindOne_NotFound(t *testing.T) {
	Environment(func(c *Collection) {
		insertPosts(c)

		record, found := c.FindOne(query.New(JSON{"topic": "History"}))

		AssertFalse(found)
		AssertNil(record)
	})
}

func TestUpdateOne_SetOnlyTouchesField(t *testing.T) {
	Environment(func(c *Collection) {
		insertPosts(c)

		c.UpdateOne(query.New(JSON{"topic": "Math"}), update.New(JSON{"$set": JSON{"x": 5}}))

		AssertEqualJson(c.Find(nil, nil), []JSON{
			{"_id": "a", "topic": "Math", "likes": 2, "x": 5},
			{"_id": "b", "topic": "Science", "likes": 5},
		})
	})
}

func TestUpdateOne_FirstMatchOnly(t *testing.T) {
	Environment(func(c *Collection) {
		c.InsertOne(value.RecordFromMap(JSON{"_id": "a", "done": false}))
		c.InsertOne(value.RecordFromMap(JSON{"_id": "b", "done": false}))

		result, _ := c.UpdateOne(query.New(JSON{"done": false}), update.New(JSON{"$set": JSON{"done": true}}))

		AssertEqual(result.Matched, 1)
		AssertEqual(len(c.Find(query.New(JSON{"done": true}), nil)), 1)
		record, _ := c.FindOne(query.New(JSON{"done": true}))
		AssertEqual(record["_id"], value.String("a"))
	})
}

func TestUpdateOne_Operators(t *testing.T) {
	Environment(func(c *Collection) {
		c.InsertOne(value.RecordFromMap(JSON{"_id": "q", "answers": "not a list", "old": 1}))

		c.UpdateOne(query.New(JSON{"_id": "q"}), update.New(JSON{
			"$push":  JSON{"answers": JSON{"text": "42"}, "comments": "first"},
			"$inc":   JSON{"views": 2},
			"$unset": JSON{"old": ""},
			"$bogus": JSON{"x": 1},
		}))

		record, _ := c.FindOne(query.New(JSON{"_id": "q"}))
		AssertEqualJson(record, JSON{
			"_id":      "q",
			"answers":  []interface{}{JSON{"text": "42"}},
			"comments": []interface{}{"first"},
			"views":    2,
		})
	})
}

func TestUpdateOne_NoMatch(t *testing.T) {
	Environment(func(c *Collection) {
		insertPosts(c)

		result, err := c.UpdateOne(query.New(JSON{"_id": "zzz"}), update.New(JSON{"$set": JSON{"x": 1}}))

		AssertNil(err)
		AssertEqual(*result, UpdateResult{})
	})
}

func TestUpdateOne_ImmutableID(t *testing.T) {
	Environment(func(c *Collection) {
		insertPosts(c)

		_, err := c.UpdateOne(query.New(JSON{"_id": "a"}), update.New(JSON{"$set": JSON{"_id": "b"}}))

		AssertEqual(err, ErrImmutableID)
	})
}

func TestUpdateOne_NilUpdate(t *testing.T) {
	Environment(func(c *Collection) {
		insertPosts(c)

		result, err := c.UpdateOne(query.New(JSON{"_id": "a"}), nil)

		AssertNil(err)
		AssertEqual(*result, UpdateResult{Matched: 1})
	})
}

func TestDeleteOne(t *testing.T) {
	Environment(func(c *Collection) {
		c.InsertOne(value.RecordFromMap(JSON{"_id": "a", "kind": "x"}))
		c.InsertOne(value.RecordFromMap(JSON{"_id": "b", "kind": "x"}))
		c.InsertOne(value.RecordFromMap(JSON{"_id": "c", "kind": "y"}))

		result := c.DeleteOne(query.New(JSON{"kind": "x"}))

		AssertEqual(result.Deleted, 1)
		AssertEqualJson(c.Find(nil, nil), []JSON{
			{"_id": "b", "kind": "x"},
			{"_id": "c", "kind": "y"},
		})

		// the freed id can be inserted again
		_, err := c.InsertOne(value.RecordFromMap(JSON{"_id": "a"}))
		AssertNil(err)
	})
}

func TestDeleteOne_Nonexistent(t *testing.T) {
	Environment(func(c *Collection) {
		insertPosts(c)

		result := c.DeleteOne(query.New(JSON{"_id": "nonexistent"}))

		AssertEqual(result.Deleted, 0)
		AssertEqual(c.Len(), 2)
	})
}

func TestDefaults(t *testing.T) {
	Environment(func(c *Collection) {
		c.SetDefaults(value.RecordFromMap(JSON{
			"status":  "pending",
			"n":       "auto()",
			"ref":     "uuid()",
			"created": "unixnano()",
		}))

		c.InsertOne(value.RecordFromMap(JSON{"status": "done"}))
		c.InsertOne(value.RecordFromMap(JSON{}))

		records := c.Find(nil, nil)
		AssertEqual(records[0]["status"], value.String("done"))
		AssertEqual(records[1]["status"], value.String("pending"))
		AssertEqual(records[0]["n"], value.Int(1))
		AssertEqual(records[1]["n"], value.Int(2))
		AssertEqual(len(records[0]["ref"].String()), 36)
		AssertEqual(records[1]["created"].Kind(), value.KindNumber)
	})
}

func TestDefaults_AutoNotSpentOnRejectedInsert(t *testing.T) {
	Environment(func(c *Collection) {
		c.SetDefaults(value.RecordFromMap(JSON{"n": "auto()"}))

		c.InsertOne(value.RecordFromMap(JSON{"_id": "a"}))
		_, err := c.InsertOne(value.RecordFromMap(JSON{"_id": "a"}))
		AssertTrue(errors.Is(err, ErrDuplicateID))
		c.InsertOne(value.RecordFromMap(JSON{"_id": "b"}))

		records := c.Find(nil, nil)
		AssertEqual(records[0]["n"], value.Int(1))
		AssertEqual(records[1]["n"], value.Int(2))
	})
}

func TestAdvanceAllocator(t *testing.T) {
	Environment(func(c *Collection) {

		c.AdvanceAllocator(2000)
		c.AdvanceAllocator(1500)
		id, _ := c.InsertOne(value.Record{})

		AssertEqual(id, value.String("2000"))
	})
}

func TestCollection_Insert_Concurrency(t *testing.T) {
	Environment(func(c *Collection) {

		n := 100

		wg := &sync.WaitGroup{}
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.InsertOne(value.RecordFromMap(JSON{"hello": "world"}))
			}()
		}

		wg.Wait()

		AssertEqual(c.Len(), n)

		seen := map[string]bool{}
		c.Traverse(func(record value.Record) bool {
			seen[record["_id"].String()] = true
			return true
		})
		AssertEqual(len(seen), n)
	})
}
