package apicollectionv1

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	json "github.com/go-json-experiment/json"

	"github.com/fulldump/fallbackdb/query"
	"github.com/fulldump/fallbackdb/update"
	"github.com/fulldump/fallbackdb/value"
)

var ErrInvalidInput = errors.New("invalid input")
var ErrDocumentNotFound = errors.New("document not found")

// readInput decodes a JSON body into v. An empty body leaves v untouched.
func readInput(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	err = json.Unmarshal(body, v)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

type filterInput struct {
	Filter map[string]interface{} `json:"filter"`
}

func (f filterInput) query() *query.Query {
	return query.New(f.Filter)
}

type updateInput struct {
	Filter map[string]interface{} `json:"filter"`
	Update map[string]interface{} `json:"update"`
}

func (u updateInput) query() *query.Query {
	return query.New(u.Filter)
}

func (u updateInput) update() *update.Update {
	return update.Compile(value.RecordFromMap(u.Update))
}
