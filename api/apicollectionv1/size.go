package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"
)

type sizeOutput struct {
	Total  int   `json:"total"`
	NextID int64 `json:"next_id"`
}

func size(ctx context.Context) (*sizeOutput, error) {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	return &sizeOutput{
		Total:  col.Len(),
		NextID: col.Allocator(),
	}, nil
}
