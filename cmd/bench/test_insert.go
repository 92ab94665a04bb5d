package main

import (
	"bytes"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	json "github.com/go-json-experiment/json"
)

const insertBatch = 500

type benchTask struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	Worker    int    `json:"worker"`
	Completed bool   `json:"completed"`
}

// TestInsert sends task-like documents in :insertMany batches and checks the
// collection size afterwards.
func TestInsert(c Config) {

	collection := CollectionName()
	url := c.Base + "/v1/collections/" + collection + ":insertMany"
	day := time.Now().Format("2006-01-02")
	pending := c.N

	t0 := time.Now()
	Parallel(c.Workers, func(worker int) {
		for {
			last := atomic.AddInt64(&pending, -insertBatch) + insertBatch
			if last <= 0 {
				return
			}
			size := min(last, insertBatch)

			batch := struct {
				Documents []benchTask `json:"documents"`
			}{}
			for i := int64(0); i < size; i++ {
				batch.Documents = append(batch.Documents, benchTask{
					UserID:    "bench",
					Name:      "task",
					Date:      day,
					Worker:    worker,
					Completed: i%2 == 0,
				})
			}
			payload, err := json.Marshal(batch)
			if err != nil {
				log.Fatal("Encode batch", "err", err)
			}
			if status := Post(url, bytes.NewReader(payload)); status != http.StatusCreated {
				log.Error("Bad status", "status", status, "worker", worker)
				return
			}
		}
	})
	Report("insertMany", c.N, time.Since(t0))

	total := struct {
		Total int64 `json:"total"`
	}{}
	PostJSON(c.Base+"/v1/collections/"+collection+":size", nil, &total)
	if total.Total != c.N {
		log.Error("Unexpected collection size", "expected", c.N, "total", total.Total)
	}
}
