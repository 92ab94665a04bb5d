package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/fallbackdb/service"
)

type servicerKey struct{}

func SetServicer(ctx context.Context, s service.Servicer) context.Context {
	return context.WithValue(ctx, servicerKey{}, s)
}

func GetServicer(ctx context.Context) service.Servicer {
	s, _ := ctx.Value(servicerKey{}).(service.Servicer)
	return s
}

func InjectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(SetServicer(ctx, s))
		}
	}
}
