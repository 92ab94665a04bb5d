package main

import (
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// TestFind runs point lookups by _id (index) and by a plain field (scan).
func TestFind(c Config) {

	collection := CollectionName()
	Preload(c, collection)

	url := c.Base + "/v1/collections/" + collection + ":findOne"
	lookups := c.N
	if lookups > 10_000 {
		lookups = 10_000 // scans are linear
	}

	for _, field := range []string{"_id", "n"} {
		remaining := lookups
		t0 := time.Now()
		Parallel(c.Workers, func(worker int) {
			for {
				i := atomic.AddInt64(&remaining, -1)
				if i < 0 {
					return
				}
				var body string
				if field == "_id" {
					body = fmt.Sprintf(`{"filter":{"_id":"%d"}}`, 1000+i)
				} else {
					body = fmt.Sprintf(`{"filter":{"n":%d}}`, i)
				}
				status := Post(url, strings.NewReader(body))
				if status != http.StatusOK {
					log.Error("Bad status", "status", status, "body", body)
				}
			}
		})
		Report("findOne by "+field, lookups, time.Since(t0))
	}
}
