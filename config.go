// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"
)

// ConfigOption is a function pointer to implement the option pattern
type ConfigOption func(*Config)

// Config provides a configuration struct and options to adjust the configuration.
//
// The configuration struct holds all configuration options for extraction,
// compression and materialization. The configuration options can be adjusted
// using the option pattern style.
type Config struct {
	// codec is the native codec that is tried before the shell strategy
	codec Codec

	// createDirMode is the file mode for created directories (respecting umask)
	createDirMode fs.FileMode

	// createFileMode is the file mode for created files before an entry mode is applied (respecting umask)
	createFileMode fs.FileMode

	// logger stream for extraction
	logger logger

	// maxNativeSize is the maximum size of an archive that is decoded natively.
	// Set value to -1 to disable the check.
	maxNativeSize int64

	// msys enables the rewriting of windows paths into posix paths for shell tools
	msys bool

	// runner executes the commands of the shell strategy
	runner Runner

	// shellDirEntries decides if the shell strategy reports directory entries
	shellDirEntries bool

	// shellRules is the ordered command table of the shell strategy
	shellRules []ShellRule

	// shellTimeout limits the runtime of a single shell command. 0 disables the limit.
	shellTimeout time.Duration

	// target is the filesystem abstraction entries are materialized to
	target Target

	// telemetryHook is a function to consume telemetry data after finished extraction
	// Important: do not adjust this value after extraction started
	telemetryHook TelemetryHook

	// tempDir is the base directory for staging and output directories
	tempDir string
}

// Codec returns the native codec.
func (c *Config) Codec() Codec {
	return c.codec
}

// CheckNativeSize checks if size exceeds the configured maximum for native decoding.
// If the maximum is exceeded, a [ErrInputTooLarge] error is returned.
func (c *Config) CheckNativeSize(size int64) error {

	// check if disabled
	if c.MaxNativeSize() == -1 {
		return nil
	}

	// check value
	if size > c.MaxNativeSize() {
		return ErrInputTooLarge
	}
	return nil
}

// CreateDirMode returns the file mode for directories that are created
// during materialization. (respecting umask)
func (c *Config) CreateDirMode() fs.FileMode {
	return c.createDirMode
}

// CreateFileMode returns the file mode for files that are created during
// materialization, before the entry mode is restored. (respecting umask)
func (c *Config) CreateFileMode() fs.FileMode {
	return c.createFileMode
}

// Logger returns the logger.
func (c *Config) Logger() logger {
	return c.logger
}

// MaxNativeSize returns the maximum archive size in bytes that is decoded natively.
func (c *Config) MaxNativeSize() int64 {
	return c.maxNativeSize
}

// Msys returns true if paths passed to shell tools are rewritten to posix style.
func (c *Config) Msys() bool {
	return c.msys
}

// Runner returns the command runner of the shell strategy.
func (c *Config) Runner() Runner {
	return c.runner
}

// ShellDirEntries returns true if the entries collected after a shell extraction
// contain directory entries.
func (c *Config) ShellDirEntries() bool {
	return c.shellDirEntries
}

// ShellRules returns the command table of the shell strategy.
func (c *Config) ShellRules() []ShellRule {
	return c.shellRules
}

// ShellTimeout returns the maximum runtime of a single shell command. 0 means no limit.
func (c *Config) ShellTimeout() time.Duration {
	return c.shellTimeout
}

// Target returns the materialization target.
func (c *Config) Target() Target {
	return c.target
}

// TelemetryHook returns the telemetry hook.
func (c *Config) TelemetryHook() TelemetryHook {
	if c.telemetryHook == nil {
		return func(ctx context.Context, d *TelemetryData) {
			// noop
		}
	}
	return c.telemetryHook
}

// TempDir returns the base directory for staging and output directories.
func (c *Config) TempDir() string {
	return c.tempDir
}

const (
	defaultCreateDirMode   = 0755              // rwxr-xr-x
	defaultCreateFileMode  = 0644              // rw-r--r--
	defaultMaxDecodedSize  = 1 << (10 * 3)     // 1 Gb
	defaultMaxNativeSize   = 100 * (1 << 20)   // 100 Mb
	defaultMsys            = false             // keep paths as they are
	defaultShellDirEntries = true              // report empty directories
	defaultShellTimeout    = time.Duration(0)  // wait for the tool to exit
)

var (
	// slog to discard
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	// no operation telemetry hook
	defaultTelemetryHook = func(ctx context.Context, d *TelemetryData) {
		// noop
	}
)

// NewConfig is a generator option that takes opts as adjustments of the
// default configuration in an option pattern style.
func NewConfig(opts ...ConfigOption) *Config {

	// setup default values
	config := &Config{
		codec:           NativeCodec{},
		createDirMode:   defaultCreateDirMode,
		createFileMode:  defaultCreateFileMode,
		logger:          defaultLogger,
		maxNativeSize:   defaultMaxNativeSize,
		msys:            defaultMsys,
		runner:          ExecRunner{},
		shellDirEntries: defaultShellDirEntries,
		shellRules:      DefaultShellRules(),
		shellTimeout:    defaultShellTimeout,
		target:          NewTargetDisk(),
		telemetryHook:   defaultTelemetryHook,
		tempDir:         os.TempDir(),
	}

	// Loop through each option
	for _, opt := range opts {
		opt(config)
	}

	return config
}

// WithCodec options pattern function to replace the native codec.
func WithCodec(codec Codec) ConfigOption {
	return func(c *Config) {
		if codec != nil {
			c.codec = codec
		}
	}
}

// WithCreateDirMode options pattern function to set the file mode
// for created directories. (respecting umask)
func WithCreateDirMode(mode fs.FileMode) ConfigOption {
	return func(c *Config) {
		c.createDirMode = mode
	}
}

// WithCreateFileMode options pattern function to set the file mode for
// created files. (respecting umask)
func WithCreateFileMode(mode fs.FileMode) ConfigOption {
	return func(c *Config) {
		c.createFileMode = mode
	}
}

// WithLogger options pattern function to set a custom logger.
func WithLogger(logger logger) ConfigOption {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithMaxNativeSize options pattern function to set the maximum archive size
// that is decoded natively. Larger archives go straight to the shell strategy.
// (-1 to disable check)
func WithMaxNativeSize(maxNativeSize int64) ConfigOption {
	return func(c *Config) {
		c.maxNativeSize = maxNativeSize
	}
}

// WithMsys options pattern function to enable the rewriting of windows paths
// into posix paths before they are handed to shell tools. See [IsMsys].
func WithMsys(msys bool) ConfigOption {
	return func(c *Config) {
		c.msys = msys
	}
}

// WithRunner options pattern function to replace the command runner of the shell strategy.
func WithRunner(runner Runner) ConfigOption {
	return func(c *Config) {
		if runner != nil {
			c.runner = runner
		}
	}
}

// WithShellDirEntries options pattern function to decide if the entries collected
// after a shell extraction contain directory entries.
func WithShellDirEntries(enable bool) ConfigOption {
	return func(c *Config) {
		c.shellDirEntries = enable
	}
}

// WithShellRules options pattern function to replace the command table of the shell strategy.
func WithShellRules(rules ...ShellRule) ConfigOption {
	return func(c *Config) {
		c.shellRules = rules
	}
}

// WithShellTimeout options pattern function to limit the runtime of a single
// shell command. (0 to disable the limit)
func WithShellTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.shellTimeout = timeout
	}
}

// WithTarget options pattern function to set the materialization target.
func WithTarget(target Target) ConfigOption {
	return func(c *Config) {
		if target != nil {
			c.target = target
		}
	}
}

// WithTelemetryHook options pattern function to set a [TelemetryHook], which is called after extraction.
func WithTelemetryHook(hook TelemetryHook) ConfigOption {
	return func(c *Config) {
		c.telemetryHook = hook
	}
}

// WithTempDir options pattern function to set the base directory for
// staging and output directories.
func WithTempDir(dir string) ConfigOption {
	return func(c *Config) {
		if len(dir) > 0 {
			c.tempDir = dir
		}
	}
}
