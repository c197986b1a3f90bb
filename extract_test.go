// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/easy-archive/go-easyarchive"
	"github.com/easy-archive/go-easyarchive/internal/mock"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestArchive encodes a small tree in format and stores it in dir.
func createTestArchive(t *testing.T, dir string, name string, format easyarchive.Format) string {
	t.Helper()
	entries := mustEntries(t,
		easyarchive.NewDir("docs"),
		easyarchive.NewFile("docs/readme.md", []byte("# readme"), 0644),
		easyarchive.NewFile("bin/tool", []byte("#!/bin/sh\necho tool\n"), 0755),
		easyarchive.NewDir("empty"),
	)
	data, err := easyarchive.Encode(format, entries)
	require.NoError(t, err)

	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0644))
	return p
}

// shellWrites returns a runner action that creates files in the directory
// passed as last command argument.
func shellWrites(files map[string]string) func(context.Context, string, ...string) error {
	return func(ctx context.Context, name string, args ...string) error {
		out := args[len(args)-1]
		for p, content := range files {
			full := filepath.Join(out, filepath.FromSlash(p))
			if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(full, []byte(content), 0644); err != nil {
				return err
			}
		}
		return nil
	}
}

func TestExtractToUnrecognizedFormat(t *testing.T) {
	ctrl := gomock.NewController(t)
	codec := mock.NewMockCodec(ctrl)
	runner := mock.NewMockRunner(ctrl)

	archive := filepath.Join(t.TempDir(), "archive.rar")
	require.NoError(t, os.WriteFile(archive, []byte("not relevant"), 0644))

	var td *easyarchive.TelemetryData
	res, err := easyarchive.ExtractTo(context.Background(), archive, t.TempDir(),
		easyarchive.WithCodec(codec),
		easyarchive.WithRunner(runner),
		easyarchive.WithTelemetryHook(func(ctx context.Context, d *easyarchive.TelemetryData) { td = d }),
	)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, easyarchive.ErrUnrecognizedFormat)

	require.NotNil(t, td)
	assert.ErrorIs(t, td.LastExtractionError, easyarchive.ErrUnrecognizedFormat)
	assert.Empty(t, td.Strategy)
}

func TestExtractToUnrecognizedOversizeFormat(t *testing.T) {
	ctrl := gomock.NewController(t)

	archive := filepath.Join(t.TempDir(), "archive.unknown")
	require.NoError(t, os.WriteFile(archive, make([]byte, 64), 0644))

	_, err := easyarchive.ExtractTo(context.Background(), archive, "",
		easyarchive.WithCodec(mock.NewMockCodec(ctrl)),
		easyarchive.WithRunner(mock.NewMockRunner(ctrl)),
		easyarchive.WithMaxNativeSize(1),
		easyarchive.WithTempDir(t.TempDir()),
	)
	assert.ErrorIs(t, err, easyarchive.ErrUnrecognizedFormat)
}

func TestExtractToNative(t *testing.T) {
	ctrl := gomock.NewController(t)
	archive := createTestArchive(t, t.TempDir(), "archive.tar.gz", easyarchive.TarGz)
	tmp := t.TempDir()

	var td *easyarchive.TelemetryData
	res, err := easyarchive.ExtractTo(context.Background(), archive, "",
		easyarchive.WithRunner(mock.NewMockRunner(ctrl)),
		easyarchive.WithTempDir(tmp),
		easyarchive.WithTelemetryHook(func(ctx context.Context, d *easyarchive.TelemetryData) { td = d }),
	)
	require.NoError(t, err)
	assert.Equal(t, easyarchive.StrategyNative, res.Strategy)
	assert.Equal(t, tmp, filepath.Dir(res.OutputDir))
	assert.Equal(t, []string{"docs", "docs/readme.md", "bin/tool", "empty"}, res.Entries.Paths())

	data, err := os.ReadFile(filepath.Join(res.OutputDir, "docs", "readme.md"))
	require.NoError(t, err)
	assert.Equal(t, "# readme", string(data))

	stat, err := os.Stat(filepath.Join(res.OutputDir, "empty"))
	require.NoError(t, err)
	assert.True(t, stat.IsDir())

	require.NotNil(t, td)
	assert.Equal(t, "native", td.Strategy)
	assert.Equal(t, "tar.gz", td.Format)
	assert.Equal(t, int64(2), td.ExtractedDirs)
	assert.Equal(t, int64(2), td.ExtractedFiles)
	assert.Greater(t, td.InputSize, int64(0))
	assert.NoError(t, td.NativeError)
	assert.NoError(t, td.LastExtractionError)
}

func TestExtractToAllNativeFormats(t *testing.T) {
	for _, format := range easyarchive.Formats() {
		if format == easyarchive.SevenZip {
			continue
		}
		t.Run(format.String(), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			archive := createTestArchive(t, t.TempDir(), "archive"+format.Extensions()[0], format)
			dst := filepath.Join(t.TempDir(), "out")

			res, err := easyarchive.ExtractTo(context.Background(), archive, dst,
				easyarchive.WithRunner(mock.NewMockRunner(ctrl)),
			)
			require.NoError(t, err)
			assert.Equal(t, easyarchive.StrategyNative, res.Strategy)
			assert.Equal(t, dst, res.OutputDir)

			data, err := os.ReadFile(filepath.Join(dst, "bin", "tool"))
			require.NoError(t, err)
			assert.Equal(t, "#!/bin/sh\necho tool\n", string(data))
		})
	}
}

func TestExtractToOversizeUsesShell(t *testing.T) {
	ctrl := gomock.NewController(t)
	codec := mock.NewMockCodec(ctrl)
	runner := mock.NewMockRunner(ctrl)
	runner.EXPECT().
		Run(gomock.Any(), "tar", gomock.Any()).
		DoAndReturn(shellWrites(map[string]string{"big/file.bin": "data"})).
		Times(1)

	archive := createTestArchive(t, t.TempDir(), "big.tar.gz", easyarchive.TarGz)
	dst := filepath.Join(t.TempDir(), "dst")

	var td *easyarchive.TelemetryData
	res, err := easyarchive.ExtractTo(context.Background(), archive, dst,
		easyarchive.WithCodec(codec),
		easyarchive.WithRunner(runner),
		easyarchive.WithMaxNativeSize(16),
		easyarchive.WithTempDir(t.TempDir()),
		easyarchive.WithTelemetryHook(func(ctx context.Context, d *easyarchive.TelemetryData) { td = d }),
	)
	require.NoError(t, err)
	assert.Equal(t, easyarchive.StrategyShell, res.Strategy)
	assert.Equal(t, dst, res.OutputDir)
	assert.Equal(t, []string{"big", "big/file.bin"}, res.Entries.Paths())

	data, err := os.ReadFile(filepath.Join(dst, "big", "file.bin"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))

	require.NotNil(t, td)
	assert.Equal(t, "shell", td.Strategy)
	assert.ErrorIs(t, td.NativeError, easyarchive.ErrInputTooLarge)
}

func TestExtractToDecodedSizeUsesShell(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mock.NewMockRunner(ctrl)
	runner.EXPECT().
		Run(gomock.Any(), "tar", gomock.Any()).
		DoAndReturn(shellWrites(map[string]string{"docs/readme.md": "# readme"})).
		Times(1)

	archive := createTestArchive(t, t.TempDir(), "bomb.tgz", easyarchive.TarGz)

	var td *easyarchive.TelemetryData
	res, err := easyarchive.ExtractTo(context.Background(), archive, filepath.Join(t.TempDir(), "dst"),
		easyarchive.WithCodec(easyarchive.NativeCodec{MaxDecodedSize: 4}),
		easyarchive.WithRunner(runner),
		easyarchive.WithTempDir(t.TempDir()),
		easyarchive.WithTelemetryHook(func(ctx context.Context, d *easyarchive.TelemetryData) { td = d }),
	)
	require.NoError(t, err)
	assert.Equal(t, easyarchive.StrategyShell, res.Strategy)

	require.NotNil(t, td)
	assert.ErrorIs(t, td.NativeError, easyarchive.ErrInputTooLarge)
}

func TestExtractToNativeFailureFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	codec := mock.NewMockCodec(ctrl)
	codec.EXPECT().
		Decode(easyarchive.SevenZip, gomock.Any()).
		Return(nil, easyarchive.ErrUnsupportedFormat).
		Times(1)
	runner := mock.NewMockRunner(ctrl)
	runner.EXPECT().
		Run(gomock.Any(), "7z", gomock.Any()).
		DoAndReturn(func(ctx context.Context, name string, args ...string) error {
			// 7z receives the output directory as "-o<dir>"
			out := args[len(args)-1][len("-o"):]
			return os.WriteFile(filepath.Join(out, "f.txt"), []byte("f"), 0644)
		}).
		Times(1)

	archive := filepath.Join(t.TempDir(), "a.7z")
	require.NoError(t, os.WriteFile(archive, []byte("7z payload"), 0644))

	res, err := easyarchive.ExtractTo(context.Background(), archive, t.TempDir(),
		easyarchive.WithCodec(codec),
		easyarchive.WithRunner(runner),
		easyarchive.WithTempDir(t.TempDir()),
	)
	require.NoError(t, err)
	assert.Equal(t, easyarchive.StrategyShell, res.Strategy)
	assert.Equal(t, []string{"f.txt"}, res.Entries.Paths())
}

func TestExtractToBothStrategiesFail(t *testing.T) {
	ctrl := gomock.NewController(t)
	codec := mock.NewMockCodec(ctrl)
	codec.EXPECT().Decode(easyarchive.Zip, gomock.Any()).Return(nil, errors.New("corrupt zip"))
	runner := mock.NewMockRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("exit status 9"))

	archive := filepath.Join(t.TempDir(), "a.zip")
	require.NoError(t, os.WriteFile(archive, []byte("broken"), 0644))

	var td *easyarchive.TelemetryData
	res, err := easyarchive.ExtractTo(context.Background(), archive, t.TempDir(),
		easyarchive.WithCodec(codec),
		easyarchive.WithRunner(runner),
		easyarchive.WithTempDir(t.TempDir()),
		easyarchive.WithTelemetryHook(func(ctx context.Context, d *easyarchive.TelemetryData) { td = d }),
	)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, easyarchive.ErrShellExtraction)
	assert.Contains(t, err.Error(), "corrupt zip")

	require.NotNil(t, td)
	assert.ErrorIs(t, td.LastExtractionError, easyarchive.ErrShellExtraction)
	assert.EqualError(t, errors.Unwrap(td.NativeError), "corrupt zip")
}

func TestExtractToMissingArchive(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mock.NewMockRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), "tar", gomock.Any()).Return(errors.New("tar: cannot open"))

	_, err := easyarchive.ExtractTo(context.Background(), filepath.Join(t.TempDir(), "missing.tar"), t.TempDir(),
		easyarchive.WithRunner(runner),
		easyarchive.WithTempDir(t.TempDir()),
	)
	assert.ErrorIs(t, err, easyarchive.ErrShellExtraction)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStrategyString(t *testing.T) {
	assert.Equal(t, "native", easyarchive.StrategyNative.String())
	assert.Equal(t, "shell", easyarchive.StrategyShell.String())
	assert.Equal(t, "none", easyarchive.Strategy(0).String())
}
