// Package snapshot exports and imports the whole database as a single
// msgpack document, optionally lz4 compressed.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/fulldump/fallbackdb/database"
	"github.com/fulldump/fallbackdb/value"
)

var ErrInvalidFormat = errors.New("invalid snapshot format")

// MaxCompressionRatio bounds what an lz4 block can expand to, so a forged
// header can not force a huge allocation.
const MaxCompressionRatio = 255

type Options struct {
	Compress bool
}

func Export(db *database.Database) *Data {
	data := &Data{
		Database:    db.Name(),
		Collections: []CollectionData{},
		Metadata: map[string]interface{}{
			"created_at": time.Now().UTC(),
		},
	}

	for _, name := range db.ListCollectionNames() {
		col := db.Collection(name)
		c := CollectionData{
			Name:    name,
			NextID:  col.Allocator(),
			Records: []map[string]interface{}{},
		}
		if defaults := col.GetDefaults(); len(defaults) > 0 {
			c.Defaults = defaults.Map()
		}
		col.Traverse(func(record value.Record) bool {
			c.Records = append(c.Records, record.Map())
			return true
		})
		data.Collections = append(data.Collections, c)
	}

	return data
}

// Import adds the snapshot content to db. Collections already present are
// refused so ids never collide.
func Import(data *Data, db *database.Database) error {
	for _, c := range data.Collections {
		if db.HasCollection(c.Name) {
			return fmt.Errorf("import '%s': collection already exists", c.Name)
		}

		records := make([]value.Record, len(c.Records))
		for i, r := range c.Records {
			records[i] = value.RecordFromMap(r)
		}

		col := db.Collection(c.Name)
		_, err := col.InsertMany(records)
		if err != nil {
			return fmt.Errorf("import '%s': %w", c.Name, err)
		}
		col.AdvanceAllocator(c.NextID)
		col.SetDefaults(value.RecordFromMap(c.Defaults))
	}
	return nil
}

func Write(w io.Writer, db *database.Database, options Options) error {

	payload, err := msgpack.Marshal(Export(db))
	if err != nil {
		return fmt.Errorf("encode msgpack: %w", err)
	}

	flags := uint8(0)
	body := payload
	if options.Compress {
		compressed := make([]byte, lz4.CompressBlockBound(len(payload)))
		var hashTable [1 << 16]int
		n, err := lz4.CompressBlock(payload, compressed, hashTable[:])
		if err != nil {
			return fmt.Errorf("compress: %w", err)
		}
		if n > 0 { // 0 means incompressible, keep it raw
			flags |= FlagLZ4
			body = compressed[:n]
		}
	}

	if err := WriteHeader(w, flags, len(payload)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}

func Decode(r io.Reader) (*Data, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	payload := body
	if header.Flags&FlagLZ4 != 0 {
		if int64(header.Length) > int64(len(body))*MaxCompressionRatio+MaxCompressionRatio {
			return nil, fmt.Errorf("%w: %d bytes can not expand to %d", ErrInvalidFormat, len(body), header.Length)
		}
		payload = make([]byte, header.Length)
		n, err := lz4.UncompressBlock(body, payload)
		if err != nil {
			return nil, fmt.Errorf("decompress: %w", err)
		}
		payload = payload[:n]
	}
	if len(payload) != int(header.Length) {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidFormat, header.Length, len(payload))
	}

	data := &Data{}
	if err := msgpack.Unmarshal(payload, data); err != nil {
		return nil, fmt.Errorf("decode msgpack: %w", err)
	}
	return data, nil
}

func Read(r io.Reader, db *database.Database) error {
	data, err := Decode(r)
	if err != nil {
		return err
	}
	return Import(data, db)
}

// Save writes to a temporary file next to filename and renames it.
func Save(filename string, db *database.Database, options Options) error {
	buffer := &bytes.Buffer{}
	if err := Write(buffer, db, options); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".*")
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buffer.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	return os.Rename(tmp.Name(), filename)
}

// Loader imports filename on startup. A missing file is not an error.
func Loader(filename string) database.Loader {
	return func(db *database.Database) error {
		f, err := os.Open(filename)
		if os.IsNotExist(err) {
			db.Logger().Warn("Snapshot not found, starting empty", "file", filename)
			return nil
		}
		if err != nil {
			return fmt.Errorf("open snapshot: %w", err)
		}
		defer f.Close()

		err = Read(f, db)
		if err != nil {
			return fmt.Errorf("snapshot '%s': %w", filename, err)
		}
		db.Logger().Info("Snapshot loaded", "file", filename, "collections", len(db.ListCollectionNames()))
		return nil
	}
}
