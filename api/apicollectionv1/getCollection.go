package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/fallbackdb/service"
)

// getCollection does not materialize missing collections.
func getCollection(ctx context.Context) (*service.CollectionInfo, error) {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	return service.Info(col), nil
}
