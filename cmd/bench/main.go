package main

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fulldump/goconfig"
)

type Config struct {
	Test    string `usage:"name of the test: ALL | INSERT | FIND | DELETE"`
	Base    string `usage:"base URL, an embedded server is started when empty"`
	N       int64  `usage:"number of documents"`
	Workers int    `usage:"number of workers"`
}

func main() {

	c := Config{
		Test:    "all",
		Base:    "",
		N:       100_000,
		Workers: 16,
	}
	goconfig.Read(&c)

	if c.Base == "" {
		start, stop := CreateServer(&c)
		defer stop()
		go start()
		WaitOperating(c.Base)
	}

	switch strings.ToUpper(c.Test) {
	case "ALL":
		TestInsert(c)
		TestFind(c)
		TestDelete(c)
	case "INSERT":
		TestInsert(c)
	case "FIND":
		TestFind(c)
	case "DELETE":
		TestDelete(c)
	default:
		log.Fatal("Unknown test", "test", c.Test)
	}
}
