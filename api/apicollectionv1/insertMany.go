package apicollectionv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/fallbackdb/value"
)

type insertManyInput struct {
	Documents []map[string]interface{} `json:"documents"`
}

type insertManyOutput struct {
	InsertedIDs []value.Value `json:"inserted_ids"`
}

// insertMany stops at the first failing document. The ones before it stay
// stored and only the error is answered.
func insertMany(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	input := insertManyInput{}
	err := readInput(r, &input)
	if err != nil {
		return err
	}

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	records := make([]value.Record, len(input.Documents))
	for i, document := range input.Documents {
		records[i] = value.RecordFromMap(document)
	}

	ids, err := s.Collection(collectionName).InsertMany(records)
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusCreated)
	return writeJSON(w, insertManyOutput{InsertedIDs: ids})
}
