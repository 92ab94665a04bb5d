package apicollectionv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/fallbackdb/collection"
)

func updateOne(ctx context.Context, r *http.Request) (*collection.UpdateResult, error) {

	input := updateInput{}
	err := readInput(r, &input)
	if err != nil {
		return nil, err
	}

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	return s.Collection(collectionName).UpdateOne(input.query(), input.update())
}
