package collection

import (
	"sync"
	"testing"
	"time"

	"github.com/fulldump/fallbackdb/query"
	"github.com/fulldump/fallbackdb/update"
	"github.com/fulldump/fallbackdb/value"
)

func TestRaceInsertTraverse(t *testing.T) {

	c := NewCollection("race")

	var wg sync.WaitGroup
	wg.Add(3)

	start := time.Now()
	duration := 500 * time.Millisecond

	// Writer
	go func() {
		defer wg.Done()
		i := 0
		for time.Since(start) < duration {
			_, err := c.InsertOne(value.Record{"v": value.Int(int64(i))})
			if err != nil {
				t.Error(err)
				return
			}
			i++
		}
	}()

	// Updater
	go func() {
		defer wg.Done()
		for time.Since(start) < duration {
			c.UpdateOne(query.New(map[string]interface{}{}), update.New(map[string]interface{}{
				"$inc": map[string]interface{}{"hits": 1},
			}))
		}
	}()

	// Reader
	go func() {
		defer wg.Done()
		for time.Since(start) < duration {
			c.Traverse(func(record value.Record) bool {
				return true
			})
			c.Find(nil, &FindOptions{Sort: &Sort{Field: "v", Direction: -1}, Limit: 10})
		}
	}()

	wg.Wait()
}
