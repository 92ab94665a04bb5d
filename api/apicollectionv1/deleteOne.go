package apicollectionv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/fallbackdb/collection"
)

func deleteOne(ctx context.Context, r *http.Request) (*collection.DeleteResult, error) {

	input := filterInput{}
	err := readInput(r, &input)
	if err != nil {
		return nil, err
	}

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	return s.Collection(collectionName).DeleteOne(input.query()), nil
}
