package snapshot

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	MagicBytes    = "FBDB"
	FormatVersion = 1
	FileExtension = ".fbdb"
)

const (
	FlagLZ4 uint8 = 1 << iota
)

// Header precedes the payload. Length is the size of the msgpack payload
// before compression.
type Header struct {
	Magic    [4]byte
	Version  uint8
	Flags    uint8
	Reserved [2]byte
	Length   uint32
}

func WriteHeader(w io.Writer, flags uint8, length int) error {
	header := Header{
		Magic:   [4]byte{'F', 'B', 'D', 'B'},
		Version: FormatVersion,
		Flags:   flags,
		Length:  uint32(length),
	}
	return binary.Write(w, binary.LittleEndian, header)
}

func ReadHeader(r io.Reader) (*Header, error) {
	var header Header
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if string(header.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("%w: expected %s, got %q", ErrInvalidFormat, MagicBytes, string(header.Magic[:]))
	}

	if header.Version != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidFormat, header.Version)
	}

	return &header, nil
}

// Data is the msgpack payload. Slices keep creation and storage order.
type Data struct {
	Database    string                 `msgpack:"database"`
	Collections []CollectionData       `msgpack:"collections"`
	Metadata    map[string]interface{} `msgpack:"metadata,omitempty"`
}

type CollectionData struct {
	Name     string                   `msgpack:"name"`
	NextID   int64                    `msgpack:"next_id"`
	Defaults map[string]interface{}   `msgpack:"defaults,omitempty"`
	Records  []map[string]interface{} `msgpack:"records"`
}
