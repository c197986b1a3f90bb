// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
)

// ShellRule maps archive extensions to the external command that extracts them.
type ShellRule struct {
	// Extensions are the lower case suffixes the rule applies to, including the leading dot.
	Extensions []string

	// Command returns the argv that extracts archive into the directory out.
	Command func(archive, out string) []string

	// NativePaths keeps host paths for the command even if msys path rewriting is enabled.
	NativePaths bool
}

// matches returns the first extension of r that is a suffix of the lower case name.
func (r ShellRule) matches(name string) (string, bool) {
	for _, ext := range r.Extensions {
		if strings.HasSuffix(name, ext) {
			return ext, true
		}
	}
	return "", false
}

// DefaultShellRules returns the command table of the shell strategy. Zip
// archives are handled by PowerShell on windows and by unzip elsewhere.
func DefaultShellRules() []ShellRule {
	zip := ShellRule{
		Extensions: []string{".zip"},
		Command: func(archive, out string) []string {
			return []string{"unzip", "-o", archive, "-d", out}
		},
		NativePaths: true,
	}
	if runtime.GOOS == "windows" {
		zip.Command = func(archive, out string) []string {
			return []string{
				"powershell", "-NoProfile", "-NonInteractive", "-Command",
				"Expand-Archive", "-Force", "-LiteralPath", archive, "-DestinationPath", out,
			}
		}
	}

	return []ShellRule{
		zip,
		{Extensions: []string{".tar"}, Command: tarCommand("-xf")},
		{Extensions: []string{".tar.xz", ".txz"}, Command: tarCommand("-xJf")},
		{Extensions: []string{".tar.gz", ".tgz"}, Command: tarCommand("-xzf")},
		{Extensions: []string{".tar.bz2", ".tbz2", ".tbz"}, Command: tarCommand("-xjf")},
		{Extensions: []string{".tar.zst", ".tzst", ".tzstd"}, Command: tarCommand("--zstd", "-xf")},
		{
			Extensions: []string{".7z"},
			Command: func(archive, out string) []string {
				return []string{"7z", "x", "-y", archive, "-o" + out}
			},
		},
		{
			Extensions: []string{".rar"},
			Command: func(archive, out string) []string {
				return []string{"unrar", "x", "-o+", archive, out + string(filepath.Separator)}
			},
		},
	}
}

// tarCommand returns a command builder for tar with the given flags.
func tarCommand(flags ...string) func(archive, out string) []string {
	return func(archive, out string) []string {
		argv := append([]string{"tar"}, flags...)
		return append(argv, archive, "-C", out)
	}
}

// Runner executes external commands for the shell strategy.
type Runner interface {
	// Run executes the command name with args and returns an error if it
	// cannot be started or exits with a non-zero status.
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner is the [Runner] based on [os/exec].
type ExecRunner struct{}

// Run executes the command and reports its combined output on failure.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if msg := bytes.TrimSpace(out); len(msg) > 0 {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// matchRules returns the rules that apply to name in table order. A rule is
// skipped if one of its matching extensions was already served by an earlier
// rule, so every extension is extracted at most once.
func matchRules(rules []ShellRule, name string) []ShellRule {
	name = strings.ToLower(name)
	served := make(map[string]bool)

	var matched []ShellRule
	for _, r := range rules {
		ext, ok := r.matches(name)
		if !ok || served[ext] {
			continue
		}
		served[ext] = true
		matched = append(matched, r)
	}
	return matched
}

// ExtractByShell extracts the archive at archivePath with external tools into
// a fresh staging directory below the configured temp dir. If dst is not
// empty, the staged tree is copied into dst, which then becomes the output
// directory. The staging directory is never removed.
//
// The returned entries describe the extracted tree. Directory entries are
// included unless disabled by [WithShellDirEntries].
func ExtractByShell(ctx context.Context, archivePath string, dst string, opts ...ConfigOption) (string, *Entries, error) {
	cfg := NewConfig(opts...)
	return extractByShell(ctx, cfg, archivePath, dst)
}

// extractByShell is the implementation of [ExtractByShell] for a prepared config.
func extractByShell(ctx context.Context, cfg *Config, archivePath string, dst string) (string, *Entries, error) {
	logger := cfg.Logger()

	rules := matchRules(cfg.ShellRules(), filepath.Base(archivePath))
	if len(rules) == 0 {
		return "", nil, fmt.Errorf("%w: %w: %s", ErrShellExtraction, ErrNoShellRule, filepath.Base(archivePath))
	}

	staging := filepath.Join(cfg.TempDir(), uuid.NewString())
	if err := os.MkdirAll(staging, cfg.CreateDirMode()); err != nil {
		return "", nil, fmt.Errorf("%w: cannot create staging directory: %w", ErrShellExtraction, err)
	}

	for _, r := range rules {
		archive, out := archivePath, staging
		if cfg.Msys() && !r.NativePaths {
			archive, out = ToPosixPath(archive, true), ToPosixPath(out, true)
		}
		argv := r.Command(archive, out)
		if len(argv) == 0 {
			return "", nil, fmt.Errorf("%w: empty command for %s", ErrShellExtraction, strings.Join(r.Extensions, ","))
		}

		logger.Info("run shell extraction", "command", strings.Join(argv, " "))
		if err := runWithTimeout(ctx, cfg, argv); err != nil {
			return "", nil, fmt.Errorf("%w: %w", ErrShellExtraction, err)
		}
	}

	staged, err := Walk(staging, WithWalkContext(ctx), WithWalkLogger(logger))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrShellExtraction, err)
	}

	outputDir := staging
	if len(dst) > 0 {
		logger.Debug("copy staged files", "staging", staging, "destination", dst)
		if err := materialize(ctx, cfg.Target(), cfg, staged, dst); err != nil {
			return "", nil, fmt.Errorf("%w: %w", ErrShellExtraction, err)
		}
		outputDir = dst
	}

	if cfg.ShellDirEntries() {
		return outputDir, staged, nil
	}
	files := NewEntries()
	for _, e := range staged.All() {
		if e.IsDir {
			continue
		}
		if err := files.Insert(e); err != nil {
			return "", nil, err
		}
	}
	return outputDir, files, nil
}

// runWithTimeout executes argv with the configured runner, bounded by the shell timeout.
func runWithTimeout(ctx context.Context, cfg *Config, argv []string) error {
	if cfg.ShellTimeout() > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ShellTimeout())
		defer cancel()
	}
	return cfg.Runner().Run(ctx, argv[0], argv[1:]...)
}
