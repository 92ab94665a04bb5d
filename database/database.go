package database

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fulldump/fallbackdb/collection"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

type Config struct {
	Name   string
	Logger *log.Logger
}

// Loader fills a freshly created database, e.g. from a snapshot or with demo
// content.
type Loader func(db *Database) error

type Database struct {
	config      *Config
	status      string
	statusMutex *sync.RWMutex
	collections map[string]*collection.Collection
	names       []string // creation order
	mutex       *sync.Mutex
	exit        chan struct{}
	stopOnce    *sync.Once
}

func NewDatabase(config *Config) *Database {
	if config == nil {
		config = &Config{}
	}
	if config.Logger == nil {
		config.Logger = log.New(os.Stderr)
	}

	return &Database{
		config:      config,
		status:      StatusOpening,
		statusMutex: &sync.RWMutex{},
		collections: map[string]*collection.Collection{},
		names:       []string{},
		mutex:       &sync.Mutex{},
		exit:        make(chan struct{}),
		stopOnce:    &sync.Once{},
	}
}

func (db *Database) Name() string {
	return db.config.Name
}

func (db *Database) Logger() *log.Logger {
	return db.config.Logger
}

func (db *Database) GetStatus() string {
	db.statusMutex.RLock()
	defer db.statusMutex.RUnlock()
	return db.status
}

func (db *Database) setStatus(status string) {
	db.statusMutex.Lock()
	db.status = status
	db.statusMutex.Unlock()
}

// Collection never fails: a missing collection is created empty.
func (db *Database) Collection(name string) *collection.Collection {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	col, exists := db.collections[name]
	if exists {
		return col
	}

	col = collection.NewCollection(name)
	db.collections[name] = col
	db.names = append(db.names, name)

	return col
}

func (db *Database) HasCollection(name string) bool {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	_, exists := db.collections[name]
	return exists
}

// ListCollectionNames returns the materialized collections in creation order.
func (db *Database) ListCollectionNames() []string {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	names := make([]string, len(db.names))
	copy(names, db.names)
	return names
}

func (db *Database) DropCollection(name string) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	_, exists := db.collections[name]
	if !exists {
		return fmt.Errorf("collection '%s' not found", name)
	}

	delete(db.collections, name)
	for i, n := range db.names {
		if n == name {
			db.names = append(db.names[:i], db.names[i+1:]...)
			break
		}
	}

	return nil
}

// Load runs loaders in order and switches the database to operating.
func (db *Database) Load(loaders ...Loader) error {

	logger := db.Logger()
	logger.Info("Loading database", "name", db.config.Name, "loaders", len(loaders))

	t0 := time.Now()
	for i, loader := range loaders {
		err := loader(db)
		if err != nil {
			logger.Error("Loader failed", "loader", i, "err", err)
			db.setStatus(StatusClosing)
			return fmt.Errorf("loader %d: %w", i, err)
		}
	}

	for _, name := range db.ListCollectionNames() {
		logger.Debug("Collection ready", "name", name, "total", db.Collection(name).Len())
	}
	logger.Info("Database operating", "collections", len(db.ListCollectionNames()), "elapsed", time.Since(t0))

	db.statusMutex.Lock()
	if db.status == StatusOpening { // Stop may have been called meanwhile
		db.status = StatusOperating
	}
	db.statusMutex.Unlock()

	return nil
}

// Start loads in background and blocks until Stop.
func (db *Database) Start(loaders ...Loader) error {

	go db.Load(loaders...)

	<-db.exit

	return nil
}

func (db *Database) Stop() error {

	db.stopOnce.Do(func() {
		db.setStatus(StatusClosing)
		db.Logger().Info("Closing database", "collections", len(db.ListCollectionNames()))
		close(db.exit)
	})

	return nil
}
