// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive_test

import (
	"testing"

	"github.com/easy-archive/go-easyarchive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntriesInsertionOrder(t *testing.T) {
	entries := easyarchive.NewEntries()
	require.NoError(t, entries.Insert(easyarchive.NewFile("b.txt", []byte("b"), 0644)))
	require.NoError(t, entries.Insert(easyarchive.NewDir("a")))
	require.NoError(t, entries.Insert(easyarchive.NewFile("a/c.txt", []byte("c"), 0600)))

	assert.Equal(t, []string{"b.txt", "a", "a/c.txt"}, entries.Paths())
	assert.Equal(t, 3, entries.Len())
	assert.Equal(t, int64(2), entries.Size())
	assert.Equal(t, "3 entries, 2 bytes", entries.String())
}

func TestEntriesDuplicateOverwritesInPlace(t *testing.T) {
	entries := easyarchive.NewEntries()
	require.NoError(t, entries.Insert(easyarchive.NewFile("a.txt", []byte("old"), 0644)))
	require.NoError(t, entries.Insert(easyarchive.NewFile("b.txt", []byte("b"), 0644)))
	require.NoError(t, entries.Insert(easyarchive.NewFile("./a.txt", []byte("new"), 0600)))

	assert.Equal(t, 2, entries.Len())
	assert.Equal(t, []string{"a.txt", "b.txt"}, entries.Paths())

	e, ok := entries.Get("a.txt")
	require.True(t, ok)
	assert.Equal(t, "new", string(e.Content))
	require.NotNil(t, e.Mode)
	assert.Equal(t, 0600, int(*e.Mode))
}

func TestEntriesNormalizePaths(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "a/b.txt", want: "a/b.txt"},
		{input: "/a/b.txt", want: "a/b.txt"},
		{input: `a\b.txt`, want: "a/b.txt"},
		{input: "./a//b/", want: "a/b"},
		{input: "a/../b", want: "b"},
		{input: "../evil", wantErr: true},
		{input: "a/../../evil", wantErr: true},
		{input: "", wantErr: true},
		{input: ".", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			entries := easyarchive.NewEntries()
			err := entries.Insert(easyarchive.NewFile(test.input, nil, 0644))
			if test.wantErr {
				assert.ErrorIs(t, err, easyarchive.ErrInvalidPath)
				assert.Equal(t, 0, entries.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{test.want}, entries.Paths())
		})
	}
}

func TestEntriesDirectoryHasNoContent(t *testing.T) {
	entries := easyarchive.NewEntries()
	require.NoError(t, entries.Insert(easyarchive.Entry{Path: "d", IsDir: true, Content: []byte("x")}))

	e, ok := entries.Get("d")
	require.True(t, ok)
	assert.Empty(t, e.Content)
	assert.Nil(t, e.Mode)
}

func TestEntriesNil(t *testing.T) {
	var entries *easyarchive.Entries
	assert.Equal(t, 0, entries.Len())
	assert.Empty(t, entries.All())
	assert.Empty(t, entries.Paths())
	assert.Equal(t, int64(0), entries.Size())

	_, ok := entries.Get("a.txt")
	assert.False(t, ok)
}
