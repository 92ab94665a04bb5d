package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// TestDelete removes every document, each worker draining its own share.
func TestDelete(c Config) {

	collection := CollectionName()
	Preload(c, collection)

	url := c.Base + "/v1/collections/" + collection + ":deleteOne"

	t0 := time.Now()
	Parallel(c.Workers, func(worker int) {
		body := fmt.Sprintf(`{"filter":{"worker":%d}}`, worker)
		for {
			result := struct {
				Deleted int `json:"deleted"`
			}{}
			status := PostJSON(url, strings.NewReader(body), &result)
			if status != http.StatusOK {
				log.Error("Bad status", "status", status)
				return
			}
			if result.Deleted == 0 {
				return
			}
		}
	})

	Report("deleteOne", c.N, time.Since(t0))
}
