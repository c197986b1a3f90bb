// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

// Package easyarchive converts archive files (tar, tar.gz, tar.xz, tar.bz2,
// tar.zst, zip and 7z) into an ordered, path-keyed collection of [Entry] values
// and back.
//
// Extraction is done by [ExtractTo], which first tries the in-process [Codec]
// and falls back to external command line tools ([ExtractByShell]) if the
// archive is too large or cannot be decoded natively. The [Result] reports
// which [Strategy] produced the data.
//
// Entries are written to a filesystem by [Write] (or [WriteTo] for a custom
// [Target]) and collected from a directory tree by [Walk]. Configuration is done
// using [Config] and the option pattern, see [NewConfig].
package easyarchive

//go:generate mockgen -destination=internal/mock/mock_codec.go -package=mock github.com/easy-archive/go-easyarchive Codec
//go:generate mockgen -destination=internal/mock/mock_runner.go -package=mock github.com/easy-archive/go-easyarchive Runner
