// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"
	"github.com/easy-archive/go-easyarchive"
	"github.com/fatih/color"
	"github.com/pkg/errors"
)

// CLI are the cli parameters for the easyarchive binary
type CLI struct {
	Input         string           `arg:"" name:"input" help:"Archive to extract, or directory/file to compress." type:"path"`
	Output        string           `arg:"" name:"output" optional:"" help:"Output directory for extraction, or archive name for compression. (default: temp directory)"`
	Config        string           `optional:"" help:"Path to a TOML file with default settings." type:"existingfile"`
	MaxNativeSize int64            `optional:"" help:"Maximum archive size that is decoded in process (in bytes). (0: default of 100 MiB, disable check: -1)"`
	NoDirEntries  bool             `optional:"" help:"Do not report directories after a shell extraction."`
	ShellTimeout  time.Duration    `optional:"" help:"Maximum runtime of an external extraction tool, e.g. 30s. (0: no limit)"`
	Verbose       bool             `short:"v" optional:"" help:"Verbose logging."`
	Version       kong.VersionFlag `short:"V" optional:"" help:"Print release version information."`
}

// fileConfig holds the settings of a TOML configuration file.
type fileConfig struct {
	MaxNativeSize   *int64 `toml:"max_native_size"`
	ShellTimeout    string `toml:"shell_timeout"`
	ShellDirEntries *bool  `toml:"shell_dir_entries"`
	TempDir         string `toml:"temp_dir"`
	Msys            *bool  `toml:"msys"`
}

// loadConfig reads the TOML configuration file at path and returns the
// matching config options.
func loadConfig(path string) ([]easyarchive.ConfigOption, error) {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("unknown setting %q in config file %s", undecoded[0].String(), path)
	}

	var opts []easyarchive.ConfigOption
	if fc.MaxNativeSize != nil {
		opts = append(opts, easyarchive.WithMaxNativeSize(*fc.MaxNativeSize))
	}
	if len(fc.ShellTimeout) > 0 {
		timeout, err := time.ParseDuration(fc.ShellTimeout)
		if err != nil {
			return nil, errors.Wrap(err, "invalid shell_timeout")
		}
		opts = append(opts, easyarchive.WithShellTimeout(timeout))
	}
	if fc.ShellDirEntries != nil {
		opts = append(opts, easyarchive.WithShellDirEntries(*fc.ShellDirEntries))
	}
	if len(fc.TempDir) > 0 {
		opts = append(opts, easyarchive.WithTempDir(fc.TempDir))
	}
	if fc.Msys != nil {
		opts = append(opts, easyarchive.WithMsys(*fc.Msys))
	}
	return opts, nil
}

// options returns the config options of the cli parameters. Settings of the
// config file come first, so that explicit flags take precedence.
func (cli *CLI) options(logger *slog.Logger, getenv func(string) string) ([]easyarchive.ConfigOption, error) {
	opts := []easyarchive.ConfigOption{
		easyarchive.WithLogger(logger),
		easyarchive.WithMsys(easyarchive.IsMsys(getenv)),
	}
	if len(cli.Config) > 0 {
		fileOpts, err := loadConfig(cli.Config)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fileOpts...)
	}
	if cli.MaxNativeSize != 0 {
		opts = append(opts, easyarchive.WithMaxNativeSize(cli.MaxNativeSize))
	}
	if cli.NoDirEntries {
		opts = append(opts, easyarchive.WithShellDirEntries(false))
	}
	if cli.ShellTimeout > 0 {
		opts = append(opts, easyarchive.WithShellTimeout(cli.ShellTimeout))
	}
	return opts, nil
}

// Run the entrypoint into easyarchive as a cli tool
func Run(version, commit, date string) {
	ctx := context.Background()
	var cli CLI
	kong.Parse(&cli,
		kong.Description("Extract and create tar, zip and 7z archives"),
		kong.UsageOnError(),
		kong.Vars{
			"version": fmt.Sprintf("%s (%s), commit %s, built at %s", filepath.Base(os.Args[0]), version, commit, date),
		},
	)

	// Check for verbose output
	logLevel := slog.LevelError
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}

	// setup logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if err := execute(ctx, &cli, logger, os.Getenv, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %s", err))
		os.Exit(1)
	}
}

// execute extracts the input archive or compresses the input into the output
// archive, depending on which of both is an archive name.
func execute(ctx context.Context, cli *CLI, logger *slog.Logger, getenv func(string) string, out io.Writer) error {
	opts, err := cli.options(logger, getenv)
	if err != nil {
		return err
	}

	stat, err := os.Stat(cli.Input)
	if err != nil {
		return errors.Wrap(err, "cannot access input")
	}
	_, inputIsArchive := easyarchive.Guess(filepath.Base(cli.Input))
	inputIsArchive = inputIsArchive && stat.Mode().IsRegular()
	outputFormat, outputIsArchive := easyarchive.Guess(filepath.Base(cli.Output))
	outputIsArchive = outputIsArchive && len(cli.Output) > 0

	switch {
	case inputIsArchive && !outputIsArchive:
		res, err := easyarchive.ExtractTo(ctx, cli.Input, cli.Output, opts...)
		if err != nil {
			return errors.Wrapf(err, "cannot extract %s", cli.Input)
		}
		printEntries(out, res.Entries)
		fmt.Fprintf(out, "%s %s (%s)\n", color.GreenString("extracted to"), res.OutputDir, res.Strategy)
		return nil

	case !inputIsArchive && outputIsArchive:
		data, err := easyarchive.CompressDir(ctx, cli.Input, outputFormat, opts...)
		if err != nil {
			return errors.Wrapf(err, "cannot compress %s", cli.Input)
		}
		if err := os.WriteFile(cli.Output, data, 0644); err != nil {
			return errors.Wrap(err, "cannot write archive")
		}
		fmt.Fprintf(out, "%s %s (%s)\n", color.GreenString("created"), cli.Output, humanize.IBytes(uint64(len(data))))
		return nil
	}

	return errors.Errorf("cannot decide what to do with %q and %q: exactly one of both must be an archive name", cli.Input, cli.Output)
}

// printEntries lists mode, size and path of every entry.
func printEntries(out io.Writer, entries *easyarchive.Entries) {
	dir := color.New(color.FgBlue, color.Bold)
	for _, e := range entries.All() {
		var mode fs.FileMode
		if e.Mode != nil {
			mode = *e.Mode
		}
		path := e.Path
		if e.IsDir {
			path = dir.Sprint(path + "/")
		}
		fmt.Fprintf(out, "%s %10s %s\n", ModeString(mode, e.IsDir), humanize.IBytes(uint64(e.Size())), path)
	}
}

// ModeString renders the permission bits of mode like ls does, e.g. "drwxr-xr-x".
func ModeString(mode fs.FileMode, isDir bool) string {
	const rwx = "rwxrwxrwx"
	buf := []byte("----------")
	if isDir {
		buf[0] = 'd'
	}
	perm := mode.Perm()
	for i := 0; i < 9; i++ {
		if perm&(1<<uint(8-i)) != 0 {
			buf[i+1] = rwx[i]
		}
	}
	return string(buf)
}
