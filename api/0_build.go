package api

import (
	"net/http"

	"github.com/fulldump/box"
	"github.com/fulldump/box/boxopenapi"

	"github.com/fulldump/fallbackdb/api/apicollectionv1"
	"github.com/fulldump/fallbackdb/service"
)

func Build(s service.Servicer, version string) *box.B {

	b := box.NewBox()

	v1 := b.Resource("/v1")
	v1.WithInterceptors(
		box.SetResponseHeader("Content-Type", "application/json"),
		apicollectionv1.InjectServicer(s),
	)

	apicollectionv1.BuildV1Collection(v1)

	v1.Resource("/snapshot").
		WithActions(
			box.Get(apicollectionv1.Stream(snapshotHandler)).WithName("snapshot"),
			box.ActionPost(saveSnapshot),
		)

	v1.Resource("/users/{userId}/stats").
		WithActions(
			box.Get(learningStats),
		)

	v1.Resource("/users/{userId}/recommendations").
		WithActions(
			box.Get(recommendations),
		)

	b.Resource("/v1/*").
		WithActions(box.AnyMethod(func(w http.ResponseWriter) interface{} {
			w.WriteHeader(http.StatusNotImplemented)
			return PrettyError{
				Message:     "not implemented",
				Description: "this endpoint does not exist, please check the documentation",
			}
		}))

	b.Resource("/release").
		WithActions(box.Get(func() string {
			return version
		}))

	spec := boxopenapi.Spec(b)
	spec.Info.Title = "FallbackDB"
	spec.Info.Description = "An in-memory document store that stands in for a real document database."
	b.Handle("GET", "/openapi.json", func(r *http.Request) any {

		spec.Servers = []boxopenapi.Server{
			{
				Url: "https://" + r.Host,
			},
			{
				Url: "http://" + r.Host,
			},
		}

		return spec
	})

	return b
}
