package apicollectionv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/fallbackdb/value"
)

// setDefaults merges the body into the current defaults. A null value removes
// that default.
func setDefaults(ctx context.Context, r *http.Request) (value.Record, error) {

	input := map[string]interface{}{}
	err := readInput(r, &input)
	if err != nil {
		return nil, err
	}

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	col := s.Collection(collectionName)

	defaults := col.GetDefaults()
	if defaults == nil {
		defaults = value.Record{}
	}
	for k, v := range input {
		if v == nil {
			delete(defaults, k)
			continue
		}
		defaults[k] = value.FromAny(v)
	}

	col.SetDefaults(defaults)

	result := col.GetDefaults()
	if result == nil {
		result = value.Record{}
	}
	return result, nil
}
