package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fulldump/fallbackdb/api/apicollectionv1"
	"github.com/fulldump/fallbackdb/service"
	"github.com/fulldump/fallbackdb/snapshot"
)

func saveSnapshot(ctx context.Context) (*service.SnapshotSaved, error) {
	return apicollectionv1.GetServicer(ctx).SaveSnapshot()
}

func snapshotHandler(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	s := apicollectionv1.GetServicer(ctx)

	filename := "fallbackdb-" + time.Now().UTC().Format("20060102T150405") + snapshot.FileExtension
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	return s.WriteSnapshot(w)
}
