package main

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	json "github.com/go-json-experiment/json"

	"github.com/fulldump/fallbackdb/bootstrap"
	"github.com/fulldump/fallbackdb/configuration"
)

var client = &http.Client{
	Transport: &http.Transport{
		MaxConnsPerHost:     1024,
		MaxIdleConnsPerHost: 1024,
		MaxIdleConns:        1024,
	},
	Timeout: 60 * time.Second,
}

func Parallel(workers int, f func(worker int)) {
	wg := &sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			f(worker)
		}(i)
	}
	wg.Wait()
}

func CollectionName() string {
	return "col-" + strconv.FormatInt(time.Now().UnixNano(), 10)
}

func CreateServer(c *Config) (start, stop func()) {
	conf := configuration.Default()
	conf.SeedDemo = false
	conf.LogLevel = "warn"
	c.Base = "http://" + conf.HttpAddr

	return bootstrap.Bootstrap(&conf)
}

// WaitOperating blocks until the server answers requests.
func WaitOperating(base string) {
	for i := 0; i < 100; i++ {
		resp, err := client.Get(base + "/v1/collections")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	log.Fatal("Server not operating", "base", base)
}

// Preload inserts n documents {"n": i, "worker": i % workers} with a single
// streamed request.
func Preload(c Config, collection string) {
	r, w := io.Pipe()
	go func() {
		wb := bufio.NewWriterSize(w, 1*1024*1024)
		for i := int64(0); i < c.N; i++ {
			fmt.Fprintf(wb, "{\"n\":%d,\"worker\":%d}\n", i, i%int64(c.Workers))
		}
		wb.Flush()
		w.Close()
	}()

	Post(c.Base+"/v1/collections/"+collection+":insert", r)
}

func Post(url string, body io.Reader) int {
	return PostJSON(url, body, nil)
}

// PostJSON decodes the response into out unless it is nil.
func PostJSON(url string, body io.Reader, out interface{}) int {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		log.Fatal("New request", "err", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		log.Fatal("Do request", "err", err)
	}
	defer resp.Body.Close()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatal("Read response", "err", err)
	}
	err = json.Unmarshal(payload, out)
	if err != nil {
		log.Error("Decode response", "err", err, "body", string(payload))
	}
	return resp.StatusCode
}

func Report(operation string, n int64, took time.Duration) {
	log.Info(operation,
		"n", n,
		"took", took,
		"throughput", fmt.Sprintf("%.2f ops/sec", float64(n)/took.Seconds()),
	)
}
