// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ramfs contains the regular-file node of an in-memory file system.
package ramfs

import (
	"math"
	"sync"

	"github.com/jacobsa/ramfs/vfs"
)

// A regular file whose content and timestamps live in memory. The zero value
// is not usable; call NewFileNode.
//
// The content and the metadata are guarded by separate locks, and no method
// holds both at once. In particular the size and timestamps returned by
// GetAttr are not read atomically with respect to each other.
type FileNode struct {
	vfs.NonDirectory

	/////////////////////////
	// Mutable state
	/////////////////////////

	contentMu sync.RWMutex

	// The current contents of the file. Its length is the file's size.
	content []byte // GUARDED_BY(contentMu)

	metadataMu sync.RWMutex

	// GUARDED_BY(metadataMu)
	metadata metadata
}

type metadata struct {
	atime uint64
	mtime uint64
}

var _ vfs.Node = &FileNode{}

// Create an empty file with zero timestamps.
func NewFileNode() *FileNode {
	return &FileNode{}
}

////////////////////////////////////////////////////////////////////////
// Helpers
////////////////////////////////////////////////////////////////////////

// Grow or shrink the content to exactly n bytes, zero-filling new bytes.
//
// EXCLUSIVE_LOCKS_REQUIRED(f.contentMu)
func (f *FileNode) resize(n uint64) {
	cur := uint64(len(f.content))
	switch {
	case n < cur:
		f.content = f.content[:n]

	case n > cur:
		// Bytes between len and cap may hold data from an earlier shrink, so
		// they must be cleared rather than resliced into view.
		if n <= uint64(cap(f.content)) {
			f.content = f.content[:n]
			clear(f.content[cur:])
		} else {
			f.content = append(f.content, make([]byte, n-cur)...)
		}
	}
}

// Return a+b, or the maximum uint64 if that would overflow.
func saturatingAdd(a uint64, b int) uint64 {
	if uint64(b) > math.MaxUint64-a {
		return math.MaxUint64
	}

	return a + uint64(b)
}

////////////////////////////////////////////////////////////////////////
// vfs.FileOps
////////////////////////////////////////////////////////////////////////

// LOCKS_EXCLUDED(f.contentMu)
// LOCKS_EXCLUDED(f.metadataMu)
func (f *FileNode) GetAttr() (vfs.NodeAttr, error) {
	f.contentMu.RLock()
	size := uint64(len(f.content))
	f.contentMu.RUnlock()

	attr := vfs.NewFileAttr(size, 0)

	f.metadataMu.RLock()
	attr.Atime = f.metadata.atime
	attr.Mtime = f.metadata.mtime
	f.metadataMu.RUnlock()

	return attr, nil
}

// LOCKS_EXCLUDED(f.contentMu)
func (f *FileNode) Truncate(size uint64) error {
	f.contentMu.Lock()
	defer f.contentMu.Unlock()

	f.resize(size)
	return nil
}

// Read from the file's contents. Unlike io.ReaderAt, a short read is not
// accompanied by an error.
//
// LOCKS_EXCLUDED(f.contentMu)
func (f *FileNode) ReadAt(offset uint64, buf []byte) (n int, err error) {
	f.contentMu.RLock()
	defer f.contentMu.RUnlock()

	size := uint64(len(f.content))
	start := min(offset, size)
	end := min(saturatingAdd(offset, len(buf)), size)

	n = copy(buf, f.content[start:end])
	return
}

// Write to the file's contents, growing them if necessary. The whole buffer
// is always written, unless offset+len(buf) is beyond what a slice can
// address, in which case EFBIG is returned and the content is untouched.
//
// LOCKS_EXCLUDED(f.contentMu)
func (f *FileNode) WriteAt(offset uint64, buf []byte) (n int, err error) {
	if len(buf) == 0 {
		return
	}

	end := saturatingAdd(offset, len(buf))
	if end > math.MaxInt {
		err = vfs.EFBIG
		return
	}

	f.contentMu.Lock()
	defer f.contentMu.Unlock()

	if end > uint64(len(f.content)) {
		f.resize(end)
	}

	n = copy(f.content[offset:end], buf)
	return
}

// LOCKS_EXCLUDED(f.metadataMu)
func (f *FileNode) SetAtime(t uint64) error {
	f.metadataMu.Lock()
	defer f.metadataMu.Unlock()

	f.metadata.atime = t
	return nil
}

// LOCKS_EXCLUDED(f.metadataMu)
func (f *FileNode) SetMtime(t uint64) error {
	f.metadataMu.Lock()
	defer f.metadataMu.Unlock()

	f.metadata.mtime = t
	return nil
}

////////////////////////////////////////////////////////////////////////
// Public methods
////////////////////////////////////////////////////////////////////////

// Return a copy of the file's current contents.
//
// LOCKS_EXCLUDED(f.contentMu)
func (f *FileNode) Bytes() []byte {
	f.contentMu.RLock()
	defer f.contentMu.RUnlock()

	b := make([]byte, len(f.content))
	copy(b, f.content)
	return b
}
