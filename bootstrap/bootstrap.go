package bootstrap

import (
	"compress/gzip"
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/fulldump/box"

	"github.com/fulldump/fallbackdb/api"
	"github.com/fulldump/fallbackdb/configuration"
	"github.com/fulldump/fallbackdb/database"
	"github.com/fulldump/fallbackdb/learning"
	"github.com/fulldump/fallbackdb/service"
	"github.com/fulldump/fallbackdb/snapshot"
)

var VERSION = "dev"

func NewLogger(c *configuration.Configuration) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "fallbackdb",
	})
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		logger.Warn("Unknown log level, using info", "level", c.LogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// Loaders lists what fills the database on startup: the snapshot first, so
// the demo content only fills what the snapshot lacks.
func Loaders(c *configuration.Configuration) []database.Loader {
	loaders := []database.Loader{}
	if c.SnapshotFile != "" {
		loaders = append(loaders, snapshot.Loader(c.SnapshotFile))
	}
	if c.SeedDemo {
		loaders = append(loaders, learning.Seed(nil))
	}
	return loaders
}

func Bootstrap(c *configuration.Configuration) (start, stop func()) {

	logger := NewLogger(c)

	db := database.NewDatabase(&database.Config{
		Name:   c.DatabaseName,
		Logger: logger,
	})

	s := service.NewService(db)
	s.SnapshotOptions.Compress = c.SnapshotCompress
	s.SnapshotFile = c.SnapshotFile

	b := api.Build(s, VERSION)
	if c.EnableCompression {
		b.WithInterceptors(api.Compression(gzip.BestSpeed))
	}
	// outermost first, errors set further in are rendered by PrettyErrorInterceptor
	b.WithInterceptors(
		api.AccessLog(logger.WithPrefix("access")),
		api.PrettyErrorInterceptor,
		api.InterceptorUnavailable(db),
		api.RecoverFromPanic(logger),
	)

	server := &http.Server{
		Addr:    c.HttpAddr,
		Handler: box.Box2Http(b),
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		logger.Fatal("Listen", "addr", c.HttpAddr, "err", err)
	}
	logger.Info("Listening", "addr", c.HttpAddr)

	stop = func() {
		db.Stop()
		server.Shutdown(context.Background())
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		for {
			sig := <-signalChan
			logger.Info("Signal received", "signal", sig.String())
			stop()
		}
	}()

	start = func() {

		wg := &sync.WaitGroup{}

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Start(Loaders(c)...)
			if err != nil {
				logger.Error("Database", "err", err)
			}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := server.Serve(ln)
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Serve", "err", err)
			}
		}()

		wg.Wait()
	}

	return
}
