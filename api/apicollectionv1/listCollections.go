package apicollectionv1

import (
	"context"

	"github.com/fulldump/fallbackdb/service"
)

func listCollections(ctx context.Context) []*service.CollectionInfo {
	return GetServicer(ctx).ListCollections()
}
