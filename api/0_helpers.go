package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/fallbackdb/api/apicollectionv1"
	"github.com/fulldump/fallbackdb/collection"
	"github.com/fulldump/fallbackdb/database"
	"github.com/fulldump/fallbackdb/learning"
	"github.com/fulldump/fallbackdb/service"
)

var ErrUnavailable = errors.New("temporary unavailable")

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"error": struct {
			Message     string `json:"message"`
			Description string `json:"description"`
		}{
			p.Message,
			p.Description,
		},
	})
}

func (p PrettyError) MarshalTo(w io.Writer) error {
	return json.NewEncoder(w).Encode(p)
}

func InterceptorUnavailable(db *database.Database) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := db.GetStatus()
			if status == database.StatusOpening || status == database.StatusClosing {
				box.SetError(ctx, fmt.Errorf("%w: %s", ErrUnavailable, status))
				return
			}
			next(ctx)
		}
	}
}

// errorStatus maps domain errors to an HTTP status and a human description.
func errorStatus(ctx context.Context, err error) (int, string) {
	r := box.GetRequest(ctx)

	var syntaxError *json.SyntaxError
	switch {
	case errors.Is(err, box.ErrResourceNotFound):
		return http.StatusNotFound, fmt.Sprintf("resource '%s' not found", r.URL.String())
	case errors.Is(err, box.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, fmt.Sprintf("method '%s' not allowed", r.Method)
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "the database is not operating, retry later"
	case errors.Is(err, service.ErrorCollectionNotFound):
		return http.StatusNotFound, fmt.Sprintf("collection '%s' not found", box.GetUrlParameter(ctx, "collectionName"))
	case errors.Is(err, service.ErrorSnapshotFileUnset):
		return http.StatusPreconditionFailed, "start the server with a snapshot file to save it"
	case errors.Is(err, apicollectionv1.ErrDocumentNotFound):
		return http.StatusNotFound, "no document matches the filter"
	case errors.Is(err, learning.ErrUserNotFound):
		return http.StatusNotFound, fmt.Sprintf("user '%s' not found", box.GetUrlParameter(ctx, "userId"))
	case errors.Is(err, collection.ErrDuplicateID):
		return http.StatusConflict, "a document with the same _id already exists"
	case errors.Is(err, collection.ErrImmutableID):
		return http.StatusBadRequest, "_id can not be modified"
	case errors.Is(err, apicollectionv1.ErrInvalidInput), errors.As(err, &syntaxError):
		return http.StatusBadRequest, "Malformed input"
	}
	return http.StatusInternalServerError, "Unexpected error"
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}

		status, description := errorStatus(ctx, err)

		w := box.GetResponse(ctx)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		PrettyError{
			Message:     err.Error(),
			Description: description,
		}.MarshalTo(w)
	}
}
