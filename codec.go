// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// Codec converts between archive bytes and entries.
//
// Implementations return an error wrapping [ErrUnsupportedFormat] if a format
// cannot be handled. Both methods must not retain data or entries.
type Codec interface {
	// Decode returns the entries of the archive data in format.
	Decode(format Format, data []byte) (*Entries, error)

	// Encode returns entries as archive bytes in format.
	Encode(format Format, entries *Entries) ([]byte, error)
}

// NativeCodec is the in-process [Codec]. It decodes all formats and encodes
// all formats except [SevenZip].
type NativeCodec struct {
	// MaxDecodedSize is the maximum summed size in bytes of all decoded files.
	// Zero selects the default of 1 Gb, -1 disables the limit.
	MaxDecodedSize int64
}

// decodeLimit returns the effective decode limit of n.
func (n NativeCodec) decodeLimit() int64 {
	if n.MaxDecodedSize == 0 {
		return defaultMaxDecodedSize
	}
	return n.MaxDecodedSize
}

// Decode returns the entries of the archive data in format. Archives that
// expand to more than [NativeCodec.MaxDecodedSize] bytes fail with
// [ErrInputTooLarge].
func (n NativeCodec) Decode(format Format, data []byte) (*Entries, error) {
	switch format {
	case Zip:
		return decodeZip(data, n.decodeLimit())
	case SevenZip:
		return decode7zip(data, n.decodeLimit())
	}

	c, ok := compressions[format]
	if !ok {
		return nil, fmt.Errorf("%w: decode %s", ErrUnsupportedFormat, format)
	}
	r, err := c.reader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot start %s decompression: %w", format, err)
	}
	defer r.Close()

	return decodeTar(r, n.decodeLimit())
}

// Encode returns entries as archive bytes in format.
func (NativeCodec) Encode(format Format, entries *Entries) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case Zip:
		if err := encodeZip(&buf, entries); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case SevenZip:
		return nil, fmt.Errorf("%w: encode %s", ErrUnsupportedFormat, format)
	}

	c, ok := compressions[format]
	if !ok {
		return nil, fmt.Errorf("%w: encode %s", ErrUnsupportedFormat, format)
	}
	w, err := c.writer(&buf)
	if err != nil {
		return nil, fmt.Errorf("cannot start %s compression: %w", format, err)
	}
	if err := encodeTar(w, entries); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("cannot finish %s compression: %w", format, err)
	}
	return buf.Bytes(), nil
}

// Decode returns the entries of the archive data in format using the [NativeCodec].
func Decode(format Format, data []byte) (*Entries, error) {
	return NativeCodec{}.Decode(format, data)
}

// Encode returns entries as archive bytes in format using the [NativeCodec].
func Encode(format Format, entries *Entries) ([]byte, error) {
	return NativeCodec{}.Encode(format, entries)
}

// DecodeFile reads the archive at name, guesses its format from the
// filename and decodes it with the [NativeCodec].
func DecodeFile(name string) (*Entries, error) {
	format, ok := Guess(filepath.Base(name))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnrecognizedFormat, name)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("cannot read archive: %w", err)
	}
	return Decode(format, data)
}
