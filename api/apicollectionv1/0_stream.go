package apicollectionv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
)

// StreamHandler writes its own response. Only a returned error reaches the
// error interceptors.
type StreamHandler func(ctx context.Context, w http.ResponseWriter, r *http.Request) error

// Stream adapts h to the plain http signature so box does not serialize an
// empty result (and a second status) after h has written the body.
func Stream(h StreamHandler) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		err := h(ctx, w, r)
		if err != nil {
			box.SetError(ctx, err)
		}
	}
}
