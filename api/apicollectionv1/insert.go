package apicollectionv1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"
	json "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/fulldump/fallbackdb/collection"
	"github.com/fulldump/fallbackdb/query"
	"github.com/fulldump/fallbackdb/value"
)

// insert reads a stream of JSON documents (one per line) and answers with the
// stored documents in the same order.
func insert(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	col := s.Collection(collectionName)

	decoder := jsontext.NewDecoder(r.Body)

	for i := 0; true; i++ {
		item := map[string]interface{}{}
		err := json.UnmarshalDecode(decoder, &item)
		if err == io.EOF {
			if i == 0 {
				w.WriteHeader(http.StatusNoContent)
			}
			return nil
		}
		if err == nil {
			err = insertOne(col, item, w, i == 0)
		} else {
			err = fmt.Errorf("%w: document #%d: %s", ErrInvalidInput, i, err.Error())
		}
		if err == nil {
			continue
		}
		if i == 0 {
			return err
		}
		// status already sent, report inline and stop
		writeJSON(w, map[string]interface{}{"error": err.Error()})
		return nil
	}

	return nil
}

func insertOne(col *collection.Collection, item map[string]interface{}, w http.ResponseWriter, first bool) error {
	id, err := col.InsertOne(value.RecordFromMap(item))
	if err != nil {
		return err
	}

	stored, found := col.FindOne(query.Compile(value.Record{collection.IDField: id}))
	if !found {
		return errors.New("inserted document vanished")
	}

	if first {
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.WriteHeader(http.StatusCreated)
	}
	return writeJSON(w, stored)
}
