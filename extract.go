// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Strategy names the way an archive was extracted.
type Strategy int

const (
	// StrategyNative decodes the archive in process with the configured [Codec].
	StrategyNative Strategy = iota + 1

	// StrategyShell extracts the archive with external command line tools.
	StrategyShell
)

// String returns the name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyNative:
		return "native"
	case StrategyShell:
		return "shell"
	}
	return "none"
}

// Result describes a finished extraction.
type Result struct {
	// OutputDir is the directory the archive was extracted into.
	OutputDir string

	// Entries are the extracted files and directories.
	Entries *Entries

	// Strategy is the strategy that produced the entries.
	Strategy Strategy
}

// ExtractTo extracts the archive at archivePath into dst and returns the
// extracted entries.
//
// The format is guessed from the file name. Unknown names fail with
// [ErrUnrecognizedFormat] before the archive is touched. Archives up to
// [Config.MaxNativeSize] are decoded with the native codec first. If that is
// not possible for any reason, the shell strategy is used. An error wrapping
// [ErrShellExtraction] is returned only if both strategies fail.
//
// If dst is empty, a new directory below [Config.TempDir] is created. Created
// directories are never removed.
func ExtractTo(ctx context.Context, archivePath string, dst string, opts ...ConfigOption) (*Result, error) {
	cfg := NewConfig(opts...)
	logger := cfg.Logger()

	// capture telemetry data
	start := time.Now()
	td := &TelemetryData{}
	var result *Result
	defer func() {
		if result != nil {
			td.Strategy = result.Strategy.String()
			captureEntries(td, result.Entries)
		}
		captureExtractionDuration(td, start)
		cfg.TelemetryHook()(ctx, td)
	}()

	format, ok := Guess(filepath.Base(archivePath))
	if !ok {
		td.LastExtractionError = fmt.Errorf("%w: %s", ErrUnrecognizedFormat, filepath.Base(archivePath))
		return nil, td.LastExtractionError
	}
	td.Format = format.String()
	logger.Debug("detected archive format", "archive", archivePath, "format", format.String())

	if len(dst) == 0 {
		dst = filepath.Join(cfg.TempDir(), uuid.NewString())
		if err := os.MkdirAll(dst, cfg.CreateDirMode()); err != nil {
			td.LastExtractionError = fmt.Errorf("cannot create output directory: %w", err)
			return nil, td.LastExtractionError
		}
	}

	entries, err := extractNative(ctx, cfg, td, format, archivePath, dst)
	if err == nil {
		result = &Result{OutputDir: dst, Entries: entries, Strategy: StrategyNative}
		return result, nil
	}
	td.NativeError = err
	logger.Info("native extraction not possible, fallback to shell", "archive", archivePath, "error", err)

	// a canceled context stops the fallback as well
	if ctxErr := ctx.Err(); ctxErr != nil {
		td.LastExtractionError = fmt.Errorf("%w: %w", ErrShellExtraction, ctxErr)
		return nil, td.LastExtractionError
	}

	outputDir, entries, err := extractByShell(ctx, cfg, archivePath, dst)
	if err != nil {
		td.LastExtractionError = fmt.Errorf("%w (native: %w)", err, td.NativeError)
		logger.Error("extraction failed", "archive", archivePath, "error", err)
		return nil, td.LastExtractionError
	}

	result = &Result{OutputDir: outputDir, Entries: entries, Strategy: StrategyShell}
	return result, nil
}

// extractNative reads the archive bounded by the native size limit, decodes it
// with the configured codec and materializes the entries into dst.
func extractNative(ctx context.Context, cfg *Config, td *TelemetryData, format Format, archivePath string, dst string) (*Entries, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("cannot open archive: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("cannot stat archive: %w", err)
	}
	td.InputSize = stat.Size()
	if err := cfg.CheckNativeSize(stat.Size()); err != nil {
		return nil, fmt.Errorf("%w: %d bytes", err, stat.Size())
	}

	data, err := readLimited(f, cfg.MaxNativeSize())
	if err != nil {
		return nil, fmt.Errorf("cannot read archive: %w", err)
	}

	entries, err := cfg.Codec().Decode(format, data)
	if err != nil {
		return nil, fmt.Errorf("cannot decode %s archive: %w", format, err)
	}
	cfg.Logger().Debug("decoded archive", "archive", archivePath, "entries", entries.String())

	if err := materialize(ctx, cfg.Target(), cfg, entries, dst); err != nil {
		return nil, fmt.Errorf("cannot write entries: %w", err)
	}
	return entries, nil
}
