package service

import (
	"fmt"
	"io"

	"github.com/fulldump/fallbackdb/collection"
	"github.com/fulldump/fallbackdb/database"
	"github.com/fulldump/fallbackdb/learning"
	"github.com/fulldump/fallbackdb/snapshot"
)

type Service struct {
	db              *database.Database
	learning        *learning.Learning
	SnapshotOptions snapshot.Options
	SnapshotFile    string
}

func NewService(db *database.Database) *Service {
	return &Service{
		db:       db,
		learning: learning.New(db),
	}
}

func (s *Service) Collection(name string) *collection.Collection {
	return s.db.Collection(name)
}

func (s *Service) GetCollection(name string) (*collection.Collection, error) {
	if !s.db.HasCollection(name) {
		return nil, fmt.Errorf("'%s': %w", name, ErrorCollectionNotFound)
	}
	return s.db.Collection(name), nil
}

func (s *Service) ListCollections() []*CollectionInfo {
	result := []*CollectionInfo{}

	for _, name := range s.db.ListCollectionNames() {
		result = append(result, Info(s.db.Collection(name)))
	}

	return result
}

func Info(col *collection.Collection) *CollectionInfo {
	return &CollectionInfo{
		Name:     col.Name(),
		Total:    col.Len(),
		NextID:   col.Allocator(),
		Defaults: col.GetDefaults(),
	}
}

func (s *Service) DropCollection(name string) error {
	if !s.db.HasCollection(name) {
		return fmt.Errorf("'%s': %w", name, ErrorCollectionNotFound)
	}
	return s.db.DropCollection(name)
}

func (s *Service) WriteSnapshot(w io.Writer) error {
	return snapshot.Write(w, s.db, s.SnapshotOptions)
}

func (s *Service) SaveSnapshot() (*SnapshotSaved, error) {
	if s.SnapshotFile == "" {
		return nil, ErrorSnapshotFileUnset
	}
	err := snapshot.Save(s.SnapshotFile, s.db, s.SnapshotOptions)
	if err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	s.db.Logger().Info("Snapshot saved", "file", s.SnapshotFile)
	return &SnapshotSaved{
		File:        s.SnapshotFile,
		Collections: len(s.db.ListCollectionNames()),
	}, nil
}

func (s *Service) Learning() *learning.Learning {
	return s.learning
}
