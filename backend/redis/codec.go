/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package redis

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Codec transforms a record's serialized form at the storage boundary:
// Encode on the way into the hash, Decode on the way out. Decode must
// reject input it did not produce so corrupt values are reported instead
// of read back as garbage.
type Codec interface {
	// Name identifies the codec in errors and logs.
	Name() string
	Encode(src []byte) ([]byte, error)
	Decode(src []byte) ([]byte, error)
}

// IdentityCodec stores serialized values as-is. It is the default.
func IdentityCodec() Codec {
	return identityCodec{}
}

type identityCodec struct{}

func (identityCodec) Name() string { return "identity" }

func (identityCodec) Encode(src []byte) ([]byte, error) { return src, nil }

func (identityCodec) Decode(src []byte) ([]byte, error) { return src, nil }

// ZlibCodec compresses serialized values with zlib before they are stored.
func ZlibCodec() Codec {
	return zlibCodec{}
}

type zlibCodec struct{}

func (zlibCodec) Name() string { return "zlib" }

func (zlibCodec) Encode(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(src); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (zlibCodec) Decode(src []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
