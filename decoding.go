package tiled

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

const (
	FlipHorizontalFlag uint32 = 0x80000000
	FlipVerticalFlag   uint32 = 0x40000000
	FlipDiagonalFlag   uint32 = 0x20000000
	GIDMask            uint32 = 0x1FFFFFFF
)

// DecodeGID splits a raw cell value into the tile identity (first-GID +
// local index) and its flip flags.
func DecodeGID(gid uint32) (tileID uint32, flags FlipFlag) {
	tileID = gid & GIDMask
	if gid&FlipHorizontalFlag != 0 {
		flags |= FlipHorizontal
	}
	if gid&FlipVerticalFlag != 0 {
		flags |= FlipVertical
	}
	if gid&FlipDiagonalFlag != 0 {
		flags |= FlipDiagonal
	}
	return
}

// EncodeGID packs a tile identity and flip flags back into a cell value.
func EncodeGID(tileID uint32, flags FlipFlag) uint32 {
	gid := tileID & GIDMask
	if flags.Horizontal() {
		gid |= FlipHorizontalFlag
	}
	if flags.Vertical() {
		gid |= FlipVerticalFlag
	}
	if flags.Diagonal() {
		gid |= FlipDiagonalFlag
	}
	return gid
}

// DecodeContent decodes the text payload of a <data> or <chunk> element.
// Every failure wraps ErrCorruptData.
func DecodeContent(content string, encoding Encoding, compression Compression) ([]uint32, error) {
	switch encoding {
	case EncodingCSV:
		return decodeCSV(content)

	case EncodingBase64:
		return decodeBase64(content, compression)
	}
	// XML encoded cells live in child elements, not in the text payload.
	return nil, fmt.Errorf("%w: encoding %s has no text payload", ErrUnsupportedFormat, encoding)
}

func decodeCSV(content string) ([]uint32, error) {
	var data []uint32
	for s := range strings.SplitSeq(content, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		gid, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid CSV layer data: %w", ErrCorruptData, err)
		}
		data = append(data, uint32(gid))
	}
	return data, nil
}

// decompressors open a reader over compressed layer bytes, by compression.
var decompressors = map[Compression]func(io.Reader) (io.ReadCloser, error){
	CompressionGzip: func(r io.Reader) (io.ReadCloser, error) {
		return gzip.NewReader(r)
	},
	CompressionZlib: zlib.NewReader,
	CompressionZstd: func(r io.Reader) (io.ReadCloser, error) {
		d, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	},
}

func decodeBase64(content string, compression Compression) ([]uint32, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptData, err)
	}

	if compression != CompressionNone {
		open, ok := decompressors[compression]
		if !ok {
			return nil, fmt.Errorf("%w: compression %s", ErrUnsupportedFormat, compression)
		}
		if raw, err = inflate(raw, open); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCorruptData, compression, err)
		}
	}

	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("%w: invalid base64 layer data length: %d", ErrCorruptData, len(raw))
	}

	data := make([]uint32, len(raw)/4)
	for i := range data {
		data[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return data, nil
}

func inflate(data []byte, open func(io.Reader) (io.ReadCloser, error)) ([]byte, error) {
	r, err := open(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}
