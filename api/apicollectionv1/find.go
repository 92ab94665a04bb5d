package apicollectionv1

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/SierraSoftworks/connor"
	"github.com/fulldump/box"

	"github.com/fulldump/fallbackdb/collection"
	"github.com/fulldump/fallbackdb/query"
	"github.com/fulldump/fallbackdb/utils"
	"github.com/fulldump/fallbackdb/value"
)

type findInput struct {
	Mode   string                 `json:"mode"`
	Filter map[string]interface{} `json:"filter"`
	Sort   *collection.Sort       `json:"sort"`
	Skip   int                    `json:"skip"`
	Limit  int                    `json:"limit"`
}

func (f *findInput) options() *collection.FindOptions {
	return &collection.FindOptions{
		Sort:  f.Sort,
		Skip:  f.Skip,
		Limit: f.Limit,
	}
}

type findMode func(col *collection.Collection, input *findInput) ([]value.Record, error)

var findModes = map[string]findMode{
	// fullscan is the lenient filter: unknown operators never restrict
	"fullscan": func(col *collection.Collection, input *findInput) ([]value.Record, error) {
		return col.Find(query.New(input.Filter), input.options()), nil
	},
	// strict delegates to connor, which rejects unknown operators
	"strict": func(col *collection.Collection, input *findInput) ([]value.Record, error) {
		if len(input.Filter) == 0 {
			return col.Find(nil, input.options()), nil
		}
		return col.FindFunc(func(record value.Record) (bool, error) {
			match, err := connor.Match(input.Filter, record.Map())
			if err != nil {
				return false, fmt.Errorf("%w: match: %s", ErrInvalidInput, err.Error())
			}
			return match, nil
		}, input.options())
	},
}

func find(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	input := &findInput{
		Mode: "fullscan",
	}
	err := readInput(r, input)
	if err != nil {
		return err
	}

	f, exist := findModes[input.Mode]
	if !exist {
		return fmt.Errorf("%w: bad mode '%s', must be [%s]", ErrInvalidInput, input.Mode, strings.Join(utils.GetKeys(findModes), "|"))
	}
	if input.Skip < 0 || input.Limit < 0 {
		return fmt.Errorf("%w: skip and limit must not be negative", ErrInvalidInput)
	}

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	records, err := f(s.Collection(collectionName), input)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	for _, record := range records {
		err := writeJSON(w, record)
		if err != nil {
			return err
		}
	}

	return nil
}
