// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/easy-archive/go-easyarchive"
)

// TestCheckNativeSize implements test cases
func TestCheckNativeSize(t *testing.T) {
	// prepare test cases
	cases := []struct {
		name        string
		input       int64
		config      *easyarchive.Config
		expectError bool
	}{
		{
			name:        "smaller than maximum",
			input:       5,                                                        // within limit
			config:      easyarchive.NewConfig(easyarchive.WithMaxNativeSize(10)), // 10
			expectError: false,
		},
		{
			name:        "equal to maximum",
			input:       10,                                                       // at limit
			config:      easyarchive.NewConfig(easyarchive.WithMaxNativeSize(10)), // 10
			expectError: false,
		},
		{
			name:        "larger than maximum",
			input:       15,                                                       // over limit
			config:      easyarchive.NewConfig(easyarchive.WithMaxNativeSize(10)), // 10
			expectError: true,
		},
		{
			name:        "disable size check",
			input:       1 << 40,                                                  // ignored
			config:      easyarchive.NewConfig(easyarchive.WithMaxNativeSize(-1)), // disable
			expectError: false,
		},
		{
			name:        "default limit",
			input:       100<<20 + 1,
			config:      easyarchive.NewConfig(),
			expectError: true,
		},
	}

	// run cases
	for i, tc := range cases {
		t.Run(fmt.Sprintf("tc %d", i), func(t *testing.T) {
			err := tc.config.CheckNativeSize(tc.input)
			if got := err != nil; got != tc.expectError {
				t.Errorf("test case %d failed: %s", i, tc.name)
			}
			if err != nil && !errors.Is(err, easyarchive.ErrInputTooLarge) {
				t.Errorf("expected ErrInputTooLarge, got %v", err)
			}
		})
	}
}

// TestNewConfigDefaults checks the default configuration
func TestNewConfigDefaults(t *testing.T) {
	cfg := easyarchive.NewConfig()

	if cfg.MaxNativeSize() != 100<<20 {
		t.Errorf("Expected MaxNativeSize to be %d, but got %d", 100<<20, cfg.MaxNativeSize())
	}
	if cfg.Msys() {
		t.Errorf("Expected Msys to be false")
	}
	if !cfg.ShellDirEntries() {
		t.Errorf("Expected ShellDirEntries to be true")
	}
	if cfg.ShellTimeout() != 0 {
		t.Errorf("Expected ShellTimeout to be 0, but got %s", cfg.ShellTimeout())
	}
	if len(cfg.ShellRules()) == 0 {
		t.Errorf("Expected default shell rules")
	}
	if cfg.CreateDirMode() != 0755 {
		t.Errorf("Expected CreateDirMode to be 0755, but got %o", cfg.CreateDirMode())
	}
	if cfg.CreateFileMode() != 0644 {
		t.Errorf("Expected CreateFileMode to be 0644, but got %o", cfg.CreateFileMode())
	}
	if _, ok := cfg.Codec().(easyarchive.NativeCodec); !ok {
		t.Errorf("Expected NativeCodec, but got %T", cfg.Codec())
	}
	if _, ok := cfg.Runner().(easyarchive.ExecRunner); !ok {
		t.Errorf("Expected ExecRunner, but got %T", cfg.Runner())
	}
	if _, ok := cfg.Target().(*easyarchive.TargetDisk); !ok {
		t.Errorf("Expected TargetDisk, but got %T", cfg.Target())
	}
	if len(cfg.TempDir()) == 0 {
		t.Errorf("Expected a temp dir")
	}
}

// TestConfigOptions checks that options adjust the configuration
func TestConfigOptions(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	target := easyarchive.NewTargetMemory()
	rule := easyarchive.ShellRule{Extensions: []string{".foo"}}

	cfg := easyarchive.NewConfig(
		easyarchive.WithCreateDirMode(0700),
		easyarchive.WithCreateFileMode(0600),
		easyarchive.WithLogger(logger),
		easyarchive.WithMaxNativeSize(1024),
		easyarchive.WithMsys(true),
		easyarchive.WithShellDirEntries(false),
		easyarchive.WithShellRules(rule),
		easyarchive.WithShellTimeout(time.Second),
		easyarchive.WithTarget(target),
		easyarchive.WithTempDir("/tmp/test"),
	)

	if cfg.CreateDirMode() != 0700 {
		t.Errorf("Expected CreateDirMode to be 0700, but got %o", cfg.CreateDirMode())
	}
	if cfg.CreateFileMode() != 0600 {
		t.Errorf("Expected CreateFileMode to be 0600, but got %o", cfg.CreateFileMode())
	}
	if cfg.Logger() != logger {
		t.Errorf("Expected custom logger")
	}
	if cfg.MaxNativeSize() != 1024 {
		t.Errorf("Expected MaxNativeSize to be 1024, but got %d", cfg.MaxNativeSize())
	}
	if !cfg.Msys() {
		t.Errorf("Expected Msys to be true")
	}
	if cfg.ShellDirEntries() {
		t.Errorf("Expected ShellDirEntries to be false")
	}
	if len(cfg.ShellRules()) != 1 || cfg.ShellRules()[0].Extensions[0] != ".foo" {
		t.Errorf("Expected custom shell rules, but got %v", cfg.ShellRules())
	}
	if cfg.ShellTimeout() != time.Second {
		t.Errorf("Expected ShellTimeout to be 1s, but got %s", cfg.ShellTimeout())
	}
	if cfg.Target() != target {
		t.Errorf("Expected memory target")
	}
	if cfg.TempDir() != "/tmp/test" {
		t.Errorf("Expected TempDir to be /tmp/test, but got %s", cfg.TempDir())
	}
}

// TestNilOptionsKeepDefaults checks that nil values do not replace defaults
func TestNilOptionsKeepDefaults(t *testing.T) {
	cfg := easyarchive.NewConfig(
		easyarchive.WithCodec(nil),
		easyarchive.WithRunner(nil),
		easyarchive.WithTarget(nil),
		easyarchive.WithTempDir(""),
	)
	if cfg.Codec() == nil || cfg.Runner() == nil || cfg.Target() == nil || cfg.TempDir() == "" {
		t.Errorf("Expected defaults to be kept")
	}
}

// TestTelemetryHookDefault checks the noop fallback of the telemetry hook
func TestTelemetryHookDefault(t *testing.T) {
	cfg := easyarchive.NewConfig(easyarchive.WithTelemetryHook(nil))
	if cfg.TelemetryHook() == nil {
		t.Fatalf("Expected noop telemetry hook")
	}
	cfg.TelemetryHook()(context.Background(), &easyarchive.TelemetryData{})

	var called bool
	cfg = easyarchive.NewConfig(easyarchive.WithTelemetryHook(func(ctx context.Context, td *easyarchive.TelemetryData) {
		called = true
	}))
	cfg.TelemetryHook()(context.Background(), &easyarchive.TelemetryData{})
	if !called {
		t.Errorf("Expected telemetry hook to be called")
	}
}
