// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive

import (
	"context"
	"fmt"
)

// CompressDir walks the directory or file at dir and encodes the collected
// entries as an archive in format with the configured [Codec].
func CompressDir(ctx context.Context, dir string, format Format, opts ...ConfigOption) ([]byte, error) {
	cfg := NewConfig(opts...)

	entries, err := Walk(dir, WithWalkContext(ctx), WithWalkLogger(cfg.Logger()))
	if err != nil {
		return nil, err
	}
	cfg.Logger().Debug("collected entries", "root", dir, "entries", entries.String())

	data, err := cfg.Codec().Encode(format, entries)
	if err != nil {
		return nil, fmt.Errorf("cannot encode %s archive: %w", format, err)
	}
	return data, nil
}
