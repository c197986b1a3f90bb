// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive

import "fmt"

// Entries is an ordered collection of [Entry] values keyed by path.
//
// Iteration follows insertion order. Inserting an entry with a path that is
// already present replaces the existing entry in its original position, so
// the length of the collection does not change.
type Entries struct {
	list  []Entry
	index map[string]int
}

// NewEntries returns an empty collection.
func NewEntries() *Entries {
	return &Entries{index: make(map[string]int)}
}

// Insert normalizes the path of e and adds it to the collection. Leading
// slashes are removed and directory entries lose their content. An
// [ErrInvalidPath] error is returned for empty or traversing paths.
func (c *Entries) Insert(e Entry) error {
	p, err := normalizePath(e.Path)
	if err != nil {
		return err
	}
	e.Path = p
	if e.IsDir {
		e.Content = nil
	}

	if i, ok := c.index[p]; ok {
		c.list[i] = e
		return nil
	}
	c.index[p] = len(c.list)
	c.list = append(c.list, e)
	return nil
}

// Get returns the entry stored under path.
func (c *Entries) Get(path string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	i, ok := c.index[path]
	if !ok {
		return Entry{}, false
	}
	return c.list[i], true
}

// Len returns the number of entries.
func (c *Entries) Len() int {
	if c == nil {
		return 0
	}
	return len(c.list)
}

// All returns the entries in insertion order. The returned slice is a copy,
// the entry contents are shared with the collection.
func (c *Entries) All() []Entry {
	if c == nil {
		return nil
	}
	return append([]Entry(nil), c.list...)
}

// Paths returns the entry paths in insertion order.
func (c *Entries) Paths() []string {
	paths := make([]string, 0, c.Len())
	for _, e := range c.All() {
		paths = append(paths, e.Path)
	}
	return paths
}

// Size returns the summed content length of all entries.
func (c *Entries) Size() int64 {
	var n int64
	for _, e := range c.All() {
		n += e.Size()
	}
	return n
}

// String returns a short summary of the collection.
func (c *Entries) String() string {
	return fmt.Sprintf("%d entries, %d bytes", c.Len(), c.Size())
}
