package service

import (
	"errors"
	"io"

	"github.com/fulldump/fallbackdb/collection"
	"github.com/fulldump/fallbackdb/learning"
	"github.com/fulldump/fallbackdb/value"
)

var ErrorCollectionNotFound = errors.New("collection not found")
var ErrorSnapshotFileUnset = errors.New("snapshot file not configured")

type Servicer interface {
	// Collection materializes the collection when missing.
	Collection(name string) *collection.Collection
	GetCollection(name string) (*collection.Collection, error)
	ListCollections() []*CollectionInfo
	DropCollection(name string) error
	WriteSnapshot(w io.Writer) error
	// SaveSnapshot writes the configured snapshot file.
	SaveSnapshot() (*SnapshotSaved, error)
	Learning() *learning.Learning
}

type SnapshotSaved struct {
	File        string `json:"file"`
	Collections int    `json:"collections"`
}

type CollectionInfo struct {
	Name     string       `json:"name"`
	Total    int          `json:"total"`
	NextID   int64        `json:"next_id"`
	Defaults value.Record `json:"defaults"`
}
