package apicollectionv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/fallbackdb/value"
)

func findOne(ctx context.Context, r *http.Request) (value.Record, error) {

	input := filterInput{}
	err := readInput(r, &input)
	if err != nil {
		return nil, err
	}

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	record, found := s.Collection(collectionName).FindOne(input.query())
	if !found {
		return nil, ErrDocumentNotFound
	}

	return record, nil
}
