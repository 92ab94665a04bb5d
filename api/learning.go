package api

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/fallbackdb/api/apicollectionv1"
	"github.com/fulldump/fallbackdb/learning"
	"github.com/fulldump/fallbackdb/value"
)

func learningStats(ctx context.Context) *learning.Stats {
	s := apicollectionv1.GetServicer(ctx)
	return s.Learning().LearningStats(box.GetUrlParameter(ctx, "userId"))
}

func recommendations(ctx context.Context) ([]value.Record, error) {
	s := apicollectionv1.GetServicer(ctx)
	return s.Learning().CourseRecommendations(box.GetUrlParameter(ctx, "userId"))
}
