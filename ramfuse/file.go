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

package ramfuse

import (
	"context"
	"syscall"
	"time"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/jacobsa/ramfs/vfs"
	"github.com/jacobsa/timeutil"
	"github.com/rs/zerolog"
)

// A kernel-facing wrapper around a vfs.Node holding a regular file. The node
// itself never advances its timestamps, so reads and writes made through the
// kernel stamp atime and mtime here, as Unix nanoseconds.
type file struct {
	fs.Inode

	/////////////////////////
	// Dependencies
	/////////////////////////

	node   vfs.Node
	clock  timeutil.Clock
	logger zerolog.Logger

	/////////////////////////
	// Constant data
	/////////////////////////

	// Writes and truncations that would take the file beyond this size fail
	// with EFBIG.
	maxSize uint64
}

var _ = (fs.NodeGetattrer)((*file)(nil))
var _ = (fs.NodeSetattrer)((*file)(nil))
var _ = (fs.NodeOpener)((*file)(nil))
var _ = (fs.NodeReader)((*file)(nil))
var _ = (fs.NodeWriter)((*file)(nil))
var _ = (fs.NodeFsyncer)((*file)(nil))
var _ = (fs.NodeReleaser)((*file)(nil))

////////////////////////////////////////////////////////////////////////
// Helpers
////////////////////////////////////////////////////////////////////////

// Times before the epoch can't be represented, and become zero.
func toNanos(t time.Time) uint64 {
	if ns := t.UnixNano(); ns > 0 {
		return uint64(ns)
	}

	return 0
}

func (f *file) now() uint64 {
	return toNanos(f.clock.Now())
}

// Fill in the kernel's attribute struct from the node's attributes.
func fillAttr(out *fuse.Attr, attr vfs.NodeAttr) {
	out.Mode = syscall.S_IFREG | uint32(attr.Mode)
	out.Nlink = 1
	out.Size = attr.Size
	out.Blocks = attr.Blocks

	out.Atime = attr.Atime / uint64(time.Second)
	out.Atimensec = uint32(attr.Atime % uint64(time.Second))
	out.Mtime = attr.Mtime / uint64(time.Second)
	out.Mtimensec = uint32(attr.Mtime % uint64(time.Second))

	// There is no separate change time.
	out.Ctime = out.Mtime
	out.Ctimensec = out.Mtimensec
}

func (f *file) getattr(out *fuse.AttrOut) syscall.Errno {
	attr, err := f.node.GetAttr()
	if err != nil {
		return vfs.ToErrno(err)
	}

	fillAttr(&out.Attr, attr)
	return 0
}

////////////////////////////////////////////////////////////////////////
// fs.InodeEmbedder methods
////////////////////////////////////////////////////////////////////////

func (f *file) Getattr(
	ctx context.Context,
	fh fs.FileHandle,
	out *fuse.AttrOut) syscall.Errno {
	return f.getattr(out)
}

func (f *file) Setattr(
	ctx context.Context,
	fh fs.FileHandle,
	in *fuse.SetAttrIn,
	out *fuse.AttrOut) syscall.Errno {
	// Truncate?
	if size, ok := in.GetSize(); ok {
		if size > f.maxSize {
			return vfs.EFBIG
		}

		if err := f.node.Truncate(size); err != nil {
			return vfs.ToErrno(err)
		}

		if err := f.node.SetMtime(f.now()); err != nil {
			return vfs.ToErrno(err)
		}

		f.logger.Debug().Uint64("size", size).Msg("Truncate")
	}

	// Change atime?
	if in.Valid&fuse.FATTR_ATIME_NOW != 0 {
		if err := f.node.SetAtime(f.now()); err != nil {
			return vfs.ToErrno(err)
		}
	} else if atime, ok := in.GetATime(); ok {
		if err := f.node.SetAtime(toNanos(atime)); err != nil {
			return vfs.ToErrno(err)
		}
	}

	// Change mtime?
	if in.Valid&fuse.FATTR_MTIME_NOW != 0 {
		if err := f.node.SetMtime(f.now()); err != nil {
			return vfs.ToErrno(err)
		}
	} else if mtime, ok := in.GetMTime(); ok {
		if err := f.node.SetMtime(toNanos(mtime)); err != nil {
			return vfs.ToErrno(err)
		}
	}

	return f.getattr(out)
}

func (f *file) Open(
	ctx context.Context,
	flags uint32) (fh fs.FileHandle, fuseFlags uint32, errno syscall.Errno) {
	if err := f.node.Open(); err != nil {
		errno = vfs.ToErrno(err)
		return
	}

	if flags&syscall.O_TRUNC != 0 {
		if err := f.node.Truncate(0); err != nil {
			errno = vfs.ToErrno(err)
			return
		}

		if err := f.node.SetMtime(f.now()); err != nil {
			errno = vfs.ToErrno(err)
			return
		}
	}

	// The content may change behind the kernel's back through other handles,
	// so don't let it keep its page cache.
	fuseFlags = fuse.FOPEN_DIRECT_IO
	return
}

func (f *file) Read(
	ctx context.Context,
	fh fs.FileHandle,
	dest []byte,
	off int64) (fuse.ReadResult, syscall.Errno) {
	if off < 0 {
		return nil, vfs.EINVAL
	}

	n, err := f.node.ReadAt(uint64(off), dest)
	if err != nil {
		return nil, vfs.ToErrno(err)
	}

	if err := f.node.SetAtime(f.now()); err != nil {
		return nil, vfs.ToErrno(err)
	}

	f.logger.Debug().Int64("offset", off).Int("n", n).Msg("Read")
	return fuse.ReadResultData(dest[:n]), 0
}

func (f *file) Write(
	ctx context.Context,
	fh fs.FileHandle,
	data []byte,
	off int64) (written uint32, errno syscall.Errno) {
	if off < 0 {
		errno = vfs.EINVAL
		return
	}

	if uint64(len(data)) > f.maxSize || uint64(off) > f.maxSize-uint64(len(data)) {
		errno = vfs.EFBIG
		return
	}

	n, err := f.node.WriteAt(uint64(off), data)
	if err != nil {
		errno = vfs.ToErrno(err)
		return
	}

	if err := f.node.SetMtime(f.now()); err != nil {
		errno = vfs.ToErrno(err)
		return
	}

	f.logger.Debug().Int64("offset", off).Int("n", n).Msg("Write")
	written = uint32(n)
	return
}

func (f *file) Fsync(
	ctx context.Context,
	fh fs.FileHandle,
	flags uint32) syscall.Errno {
	return vfs.ToErrno(f.node.Fsync())
}

func (f *file) Release(
	ctx context.Context,
	fh fs.FileHandle) syscall.Errno {
	return vfs.ToErrno(f.node.Release())
}
