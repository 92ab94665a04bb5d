package service

import (
	"os"
	"path"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fulldump/apitest"
	json "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// ExamplesPathEnv selects where Document writes the markdown examples. Empty
// disables it.
const ExamplesPathEnv = "API_EXAMPLES_PATH"

// Document renders an acceptance request/response pair as a markdown API
// example.
func Document(response *apitest.Response, title, description string) {

	examplesPath := os.Getenv(ExamplesPathEnv)
	if examplesPath == "" {
		return
	}

	request := response.Request

	query := request.URL.RawQuery
	if query != "" {
		query = "?" + query
	}
	requestBody := formatJSON(response.BodyRequestString())

	s := &strings.Builder{}

	s.WriteString("# " + title + "\n")
	s.WriteString(cropTabs(description) + "\n")

	s.WriteString("Curl example:\n\n```sh\ncurl ")
	if request.Method != "GET" {
		s.WriteString("-X " + request.Method + " ")
	}
	s.WriteString("\"https://example.com" + request.URL.Path + query + "\"")
	for _, k := range sortedKeys(request.Header) {
		for _, v := range request.Header[k] {
			s.WriteString(" \\\n-H \"" + k + ": " + v + "\"")
		}
	}
	if requestBody != "" {
		s.WriteString(" \\\n-d '" + requestBody + "'")
	}
	s.WriteString("\n```\n\n\n")

	s.WriteString("HTTP request/response example:\n\n```http\n")
	s.WriteString(request.Method + " " + request.URL.Path + query + " " + request.Proto + "\n")
	s.WriteString("Host: example.com\n")
	for _, k := range sortedKeys(request.Header) {
		for _, v := range request.Header[k] {
			s.WriteString(k + ": " + v + "\n")
		}
	}
	s.WriteString("\n" + requestBody + "\n\n")

	s.WriteString(response.Proto + " " + response.Status + "\n")
	for _, k := range sortedKeys(response.Header) {
		if k == "Date" {
			s.WriteString("Date: Mon, 15 Aug 2022 02:08:13 GMT\n")
			continue
		}
		for _, v := range response.Header[k] {
			s.WriteString(k + ": " + v + "\n")
		}
	}
	s.WriteString("\n" + formatJSON(response.BodyString()) + "\n```\n\n\n")

	filename := strings.ReplaceAll(strings.ToLower(title), " ", "_") + ".md"
	p := path.Join(examplesPath, path.Clean(filename))
	err := os.WriteFile(p, []byte(s.String()), 0666)
	if err != nil {
		log.Error("Saving example", "file", p, "err", err)
	}
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatJSON(body string) string {
	var i interface{}
	err := json.Unmarshal([]byte(body), &i)
	if err != nil {
		return body
	}

	b, err := json.Marshal(i, jsontext.WithIndent("    "))
	if err != nil {
		return body
	}
	return string(b)
}

// cropTabs removes the common leading tabs of a raw string literal.
func cropTabs(d string) string {
	lines := strings.Split(d, "\n")

	inner := lines
	if len(lines) > 2 {
		inner = lines[1 : len(lines)-1]
	}

	minTabs := -1
	for _, line := range inner {
		if strings.TrimSpace(line) == "" {
			continue
		}
		tabs := len(line) - len(strings.TrimLeft(line, "\t"))
		if minTabs < 0 || tabs < minTabs {
			minTabs = tabs
		}
	}
	if minTabs <= 0 {
		return d
	}

	prefix := strings.Repeat("\t", minTabs)
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}
