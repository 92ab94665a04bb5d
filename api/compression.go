package api

import (
	"compress/gzip"
	"context"
	"net/http"
	"strings"

	"github.com/fulldump/box"
)

// uncompressed lists path suffixes served as they are: snapshots are lz4
// already.
var uncompressed = []string{"/snapshot"}

func acceptsGzip(r *http.Request) bool {
	for _, encoding := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		name, _, _ := strings.Cut(strings.TrimSpace(encoding), ";")
		if name == "gzip" {
			return true
		}
	}
	return false
}

// Compression gzips ndjson and json answers at the given level for clients
// that ask for it.
func Compression(level int) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			r := box.GetRequest(ctx)

			if !acceptsGzip(r) {
				next(ctx)
				return
			}
			for _, suffix := range uncompressed {
				if strings.HasSuffix(r.URL.Path, suffix) {
					next(ctx)
					return
				}
			}

			c := box.GetBoxContext(ctx)
			original := c.Response
			original.Header().Set("Content-Encoding", "gzip")
			original.Header().Add("Vary", "Accept-Encoding")

			encoder, err := gzip.NewWriterLevel(original, level)
			if err != nil {
				encoder = gzip.NewWriter(original)
			}
			defer encoder.Close()

			c.Response = &gzipWriter{ResponseWriter: original, encoder: encoder}
			next(ctx)
		}
	}
}

type gzipWriter struct {
	http.ResponseWriter
	encoder *gzip.Writer
}

func (g *gzipWriter) Write(p []byte) (int, error) {
	return g.encoder.Write(p)
}
