// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive

import (
	"context"
	"encoding/json"
	"time"
)

// TelemetryData holds all telemetry data of an extraction.
type TelemetryData struct {
	// ExtractedDirs is the number of extracted directories
	ExtractedDirs int64 `json:"extracted_dirs"`

	// ExtractedFiles is the number of extracted files
	ExtractedFiles int64 `json:"extracted_files"`

	// ExtractionDuration is the time it took to extract the archive
	ExtractionDuration time.Duration `json:"extraction_duration"`

	// ExtractionSize is the size of the extracted files
	ExtractionSize int64 `json:"extraction_size"`

	// Format is the detected archive format
	Format string `json:"format"`

	// InputSize is the size of the archive
	InputSize int64 `json:"input_size"`

	// LastExtractionError is the error that stopped the extraction
	LastExtractionError error `json:"last_extraction_error"`

	// NativeError is the reason the native strategy was abandoned
	NativeError error `json:"native_error"`

	// Strategy is the strategy that produced the entries
	Strategy string `json:"strategy"`
}

// String returns a string representation of [TelemetryData].
func (m TelemetryData) String() string {
	b, _ := json.Marshal(m)
	return string(b)
}

// MarshalJSON implements the [encoding/json.Marshaler] interface.
func (m TelemetryData) MarshalJSON() ([]byte, error) {
	var lastError, nativeError string
	if m.LastExtractionError != nil {
		lastError = m.LastExtractionError.Error()
	}
	if m.NativeError != nil {
		nativeError = m.NativeError.Error()
	}

	type Alias TelemetryData
	return json.Marshal(&struct {
		LastExtractionError string `json:"last_extraction_error"`
		NativeError         string `json:"native_error"`
		*Alias
	}{
		LastExtractionError: lastError,
		NativeError:         nativeError,
		Alias:               (*Alias)(&m),
	})
}

// TelemetryHook is a function type that performs operations on [TelemetryData]
// after an extraction has finished which can be used to submit the [TelemetryData]
// to a telemetry service, for example.
type TelemetryHook func(context.Context, *TelemetryData)

// captureEntries counts the directories, files and bytes of entries.
func captureEntries(td *TelemetryData, entries *Entries) {
	for _, e := range entries.All() {
		if e.IsDir {
			td.ExtractedDirs++
			continue
		}
		td.ExtractedFiles++
		td.ExtractionSize += e.Size()
	}
}

// captureExtractionDuration ensures that the extraction duration is captured
func captureExtractionDuration(td *TelemetryData, start time.Time) {
	td.ExtractionDuration = time.Since(start)
}
